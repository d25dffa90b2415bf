package samples

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteTo writes one "<index> <value>" line per sample, indices starting at
// zero. Values use the shortest representation that parses back exactly.
// The series goes out in one Write call.
func (s *Series) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, 0, len(s.data)*24)
	for i, x := range s.data {
		buf = AppendLine(buf, i, x)
	}
	n, err := w.Write(buf)
	return int64(n), err
}

// AppendLine appends the "<index> <value>\n" encoding of one sample to buf.
func AppendLine(buf []byte, index int, value float64) []byte {
	buf = strconv.AppendInt(buf, int64(index), 10)
	buf = append(buf, ' ')
	buf = strconv.AppendFloat(buf, value, 'g', -1, 64)
	return append(buf, '\n')
}

// ReadFrom appends the samples encoded in r, in the format written by
// WriteTo. Blank lines are skipped and indices must count up from zero.
// On a malformed line nothing is appended and the error wraps
// ErrMalformedLine.
func (s *Series) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}
	scanner := bufio.NewScanner(cr)

	var values []float64
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return cr.n, fmt.Errorf("line %d: %w", lineNo, ErrMalformedLine)
		}
		index, err := strconv.Atoi(fields[0])
		if err != nil || index != len(values) {
			return cr.n, fmt.Errorf("line %d: bad index %q: %w", lineNo, fields[0], ErrMalformedLine)
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return cr.n, fmt.Errorf("line %d: bad value %q: %w", lineNo, fields[1], ErrMalformedLine)
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return cr.n, fmt.Errorf("reading series: %w", err)
	}

	s.data = append(s.data, values...)
	return cr.n, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
