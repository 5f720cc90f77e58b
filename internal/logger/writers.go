package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// RunIDField tags every event of an audit run. Human-readable output drops it,
// the run directory already carries the ID.
const RunIDField = "run_id"

// WriterStrategy wraps a sink with the encoding for one LogFormat.
// plain disables ANSI colour.
type WriterStrategy interface {
	CreateWriter(output io.Writer, plain bool) io.Writer
}

// jsonStrategy passes zerolog's native JSON straight through.
type jsonStrategy struct{}

func (jsonStrategy) CreateWriter(output io.Writer, _ bool) io.Writer {
	return output
}

// lineStrategy renders one human-readable line per event.
type lineStrategy struct {
	timeFormat  string
	alwaysPlain bool
}

func (s lineStrategy) CreateWriter(output io.Writer, plain bool) io.Writer {
	return zerolog.ConsoleWriter{
		Out:           output,
		TimeFormat:    s.timeFormat,
		NoColor:       plain || s.alwaysPlain,
		FieldsExclude: []string{RunIDField},
	}
}

var (
	// terminal lines only need the wall clock; the run ID dates the run
	terminalLines = lineStrategy{timeFormat: time.TimeOnly}
	terminalText  = lineStrategy{timeFormat: time.TimeOnly, alwaysPlain: true}
	// files outlive the run, keep full timestamps and never colour
	fileLines = lineStrategy{timeFormat: time.RFC3339, alwaysPlain: true}
)
