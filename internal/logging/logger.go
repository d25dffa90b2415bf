// Package logging provides leveled logging and sweep tracing for voter.
// It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A Tracer for structured JSONL sweep traces (<output>/trace.jsonl)
package logging

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LevelTrace is a custom slog level below Debug for per-sweep logging.
const LevelTrace = slog.LevelDebug - 4

// TraceFile is the name of the JSONL trace written into the run directory.
const TraceFile = "trace.jsonl"

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Label the custom trace level
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// RunStart is the first record of a trace.
type RunStart struct {
	RunID    string `json:"-"`
	Rows     int    `json:"rows"`
	Cols     int    `json:"cols"`
	Sweeps   int    `json:"sweeps"`
	Stubborn int    `json:"stubborn"`
	Seed     string `json:"seed"`
	// InitialOrder is the order parameter before the first sweep.
	InitialOrder float64 `json:"initial_order"`
}

// RunFinish is the last record of a trace.
type RunFinish struct {
	SweepsCompleted int     `json:"sweeps_completed"`
	FinalOrder      float64 `json:"final_order"`
	Mean            float64 `json:"mean"`
	Interrupted     bool    `json:"interrupted"`
	ElapsedMillis   int64   `json:"elapsed_ms"`
}

// record is one JSONL line: a header shared by all events plus the
// event's own fields.
type record struct {
	Event string `json:"event"`
	RunID string `json:"run_id,omitempty"`
	Time  string `json:"time"`
	*RunStart
	*RunFinish
	Sweep *int     `json:"sweep,omitempty"`
	Order *float64 `json:"order,omitempty"`
}

// Tracer records the life of one run as JSONL: a "start" record, one
// "sweep" record per completed sweep and a "finish" record. Every record
// carries the run ID given to Start. Records are buffered and reach the file
// on Close.
//
// A nil Tracer is valid and discards everything.
type Tracer struct {
	mu    sync.Mutex
	file  *os.File
	w     *bufio.Writer
	runID string
	now   func() time.Time
}

// NewTracer creates dir/trace.jsonl and returns a tracer writing to it.
// Below debug level, or when the file cannot be created, it returns nil.
func NewTracer(dir string, level string) *Tracer {
	if ParseLevel(level) > slog.LevelDebug {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil
	}
	f, err := os.OpenFile(filepath.Join(dir, TraceFile), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil
	}
	return &Tracer{file: f, w: bufio.NewWriter(f), now: time.Now}
}

// Start writes the start record and remembers its run ID for the records
// that follow.
func (t *Tracer) Start(ev RunStart) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.runID = ev.RunID
	t.write(record{Event: "start", RunStart: &ev})
}

// Sweep records the order parameter observed after a sweep.
func (t *Tracer) Sweep(sweep int, order float64) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.write(record{Event: "sweep", Sweep: &sweep, Order: &order})
}

// Finish writes the finish record.
func (t *Tracer) Finish(ev RunFinish) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.write(record{Event: "finish", RunFinish: &ev})
}

func (t *Tracer) write(rec record) {
	if t.w == nil {
		return
	}
	rec.RunID = t.runID
	rec.Time = t.now().UTC().Format(time.RFC3339Nano)

	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	_, _ = t.w.Write(append(data, '\n'))
}

// Close flushes buffered records and closes the file. Records written after
// Close are dropped.
func (t *Tracer) Close() error {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.w == nil {
		return nil
	}
	err := errors.Join(t.w.Flush(), t.file.Close())
	t.w, t.file = nil, nil
	return err
}
