package internal

import (
	"os"

	"github.com/sirupsen/logrus"
)

// trace is the stage-level debug logger shared by the lexer, parser
// and machine. Silent unless the driver raises the level.
var trace = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	return l
}()

// SetTrace switches debug tracing of every token, emitted instruction
// and machine step.
func SetTrace(enabled bool) {
	if enabled {
		trace.SetLevel(logrus.DebugLevel)
	} else {
		trace.SetLevel(logrus.WarnLevel)
	}
}
