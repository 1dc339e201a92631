// Package feedback defines the acknowledgment surface the engine drives.
// Rendering and audio playback belong to the presentation collaborator; the
// engine only emits these fire-and-forget signals.
package feedback

import (
	"log"

	"github.com/mashaer-transit/kiosk/internal/kiosk/types"
)

// Sink receives presentation side effects from the engine. Implementations
// must not block: a slow display must never stall the tick loop.
type Sink interface {
	EmitOutcome(kind types.OutcomeKind)
	RequestScene(scene types.Scene)
	ShowStatus(message string, severity types.Severity)
}

// LogSink writes feedback signals to the kiosk log. It is the default sink
// for headless dev rigs and doubles as a trace of the operator-visible flow.
type LogSink struct {
	Logger *log.Logger
}

func NewLogSink(logger *log.Logger) *LogSink {
	return &LogSink{Logger: logger}
}

func (s *LogSink) EmitOutcome(kind types.OutcomeKind) {
	s.Logger.Printf("feedback: outcome %s", kind)
}

func (s *LogSink) RequestScene(scene types.Scene) {
	s.Logger.Printf("feedback: scene -> %s", scene)
}

func (s *LogSink) ShowStatus(message string, severity types.Severity) {
	s.Logger.Printf("feedback: status [%s] %s", severity, message)
}
