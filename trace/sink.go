package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bgdev/bashview/config"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Sink is the append-only diagnostic stream. Nothing is written unless the
// trace toggle is on, and every write is flushed before returning.
type Sink struct {
	w       *bufio.Writer
	closer  io.Closer
	flags   *config.Flags
	sol     bool
	Session string
}

// New wraps w. A nil w gives a sink that never writes.
func New(w io.Writer, flags *config.Flags) *Sink {
	s := &Sink{
		flags:   flags,
		sol:     true,
		Session: uuid.NewString(),
	}
	if w != nil {
		s.w = bufio.NewWriter(w)
	}
	return s
}

// Open appends to flags.TraceFile. When the file can't be opened the sink is
// still usable but stays silent.
func Open(flags *config.Flags) *Sink {
	f, err := os.OpenFile(flags.TraceFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Warn().Err(err).Str("path", flags.TraceFile).Msg("trace file unavailable, tracing disabled")
		return New(nil, flags)
	}
	s := New(f, flags)
	s.closer = f
	s.Write(fmt.Sprintf("=== trace session %s (pid %d) ===\n", s.Session, os.Getpid()), 0)
	return s
}

func (s *Sink) Enabled() bool {
	return s != nil && s.w != nil && s.flags.TraceOn()
}

func (s *Sink) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	if s.w != nil {
		s.w.Flush()
	}
	return s.closer.Close()
}

// Write emits msg at the given indent level. Indentation only applies when
// the sink is at the start of a line; continuation lines inside msg are
// marked with a '+' one column to the left of the indent.
func (s *Sink) Write(msg string, indent int) {
	if !s.Enabled() {
		return
	}
	if indent == 0 || !s.sol {
		s.w.WriteString(msg)
	} else {
		s.w.WriteString(strings.Repeat(" ", indent*3))
		s.w.WriteString(continueLines(msg, indent))
	}
	s.sol = strings.HasSuffix(msg, "\n")
	s.w.Flush()
}

func continueLines(msg string, indent int) string {
	if !strings.Contains(msg, "\n") {
		return msg
	}
	prefix := strings.Repeat(" ", indent*3-1) + "+"
	var b strings.Builder
	for i := 0; i < len(msg); i++ {
		b.WriteByte(msg[i])
		if msg[i] == '\n' && i+1 < len(msg) && msg[i+1] != '\n' {
			b.WriteString(prefix)
		}
	}
	return b.String()
}

// AtLineStart reports whether the last write ended a line.
func (s *Sink) AtLineStart() bool {
	return s.sol
}
