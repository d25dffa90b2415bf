package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nvandessel/voter/internal/samples"
)

// RunDir holds the files that stay open for the length of a run: the
// lattice snapshot and the order parameter series.
type RunDir struct {
	path    string
	lattice *os.File
	order   *os.File
	orderW  *bufio.Writer
	line    []byte
	closed  bool
}

// Open creates dir if needed and truncates the lattice and order parameter
// files inside it.
func Open(dir string) (*RunDir, error) {
	if err := MakeDirectory(dir); err != nil {
		return nil, err
	}

	lattice, err := os.OpenFile(filepath.Join(dir, LatticeFile), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", LatticeFile, err)
	}

	order, err := os.OpenFile(filepath.Join(dir, OrderParameterFile), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		lattice.Close()
		return nil, fmt.Errorf("failed to create %s: %w", OrderParameterFile, err)
	}

	return &RunDir{
		path:    dir,
		lattice: lattice,
		order:   order,
		orderW:  bufio.NewWriter(order),
	}, nil
}

// Path returns the run directory.
func (r *RunDir) Path() string {
	return r.path
}

// WriteLattice rewrites the lattice file from its first byte. Successive
// snapshots of one lattice have the same length, so each call leaves exactly
// the latest grid in the file.
func (r *RunDir) WriteLattice(snapshot io.WriterTo) error {
	if _, err := r.lattice.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind %s: %w", LatticeFile, err)
	}
	if _, err := snapshot.WriteTo(r.lattice); err != nil {
		return fmt.Errorf("failed to write %s: %w", LatticeFile, err)
	}
	return nil
}

// AppendOrder writes one "<sweep> <value>" line to the order parameter file.
func (r *RunDir) AppendOrder(sweep int, value float64) error {
	r.line = samples.AppendLine(r.line[:0], sweep, value)
	if _, err := r.orderW.Write(r.line); err != nil {
		return fmt.Errorf("failed to write %s: %w", OrderParameterFile, err)
	}
	return nil
}

// WriteFile creates name inside the run directory and fills it with fn.
func (r *RunDir) WriteFile(name string, fn func(w io.Writer) error) error {
	f, err := os.Create(filepath.Join(r.path, name))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	return nil
}

// Close flushes buffered output and closes the open files. Calls after the
// first return nil.
func (r *RunDir) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error
	if err := r.orderW.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("failed to flush %s: %w", OrderParameterFile, err))
	}
	if err := r.order.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := r.lattice.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
