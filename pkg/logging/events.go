package logging

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/doccov/pkg/coverage"
)

// Skip logs a passed-over file or construct. Whole-file skips log at warn,
// construct skips (those with a line) at debug.
func Skip(logger *zerolog.Logger, s coverage.Skip) {
	event := logger.Warn()
	if s.Line > 0 {
		event = logger.Debug().Int("line", s.Line)
	}
	event.Str("skip_file", s.File).Str("kind", string(s.Kind)).Msg(s.Reason)
}

// Warning logs a structural warning at warn.
func Warning(logger *zerolog.Logger, w coverage.Warning) {
	event := logger.Warn().
		Str("kind", string(w.Kind)).
		Str("location", w.Location.String())
	if len(w.Routers) > 0 {
		event = event.Strs("routers", w.Routers)
	}
	event.Msg(w.Message)
}
