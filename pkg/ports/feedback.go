package ports

import "github.com/aretw0/modassist/pkg/domain"

// Reporter is the host's status-message facility.
// The orchestrator calls it exactly once per invocation.
type Reporter interface {
	Report(level domain.Level, message string)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(level domain.Level, message string)

// Report calls f(level, message).
func (f ReporterFunc) Report(level domain.Level, message string) { f(level, message) }

// NopReporter discards every report.
var NopReporter Reporter = ReporterFunc(func(domain.Level, string) {})
