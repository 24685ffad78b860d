package engine

import (
	"time"

	"github.com/verte-zerg/tejas/internal/clock"
	"github.com/verte-zerg/tejas/internal/model"
	"github.com/verte-zerg/tejas/internal/stats"
)

// Phase is the lifecycle stage of a session. Phases only move forward.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Tick is one countdown step addressed to a specific session.
type Tick struct {
	SessionID uint64
}

type session struct {
	id          uint64
	source      []rune
	typed       []rune
	phase       Phase
	duration    int
	remaining   int
	elapsed     int
	timeline    []model.TimelinePoint
	startedAt   time.Time
	completedAt time.Time
	timer       clock.Timer
}

func (s *session) metrics() stats.Metrics {
	return stats.Calculate(s.source, s.typed, s.elapsed)
}

func (s *session) cancelTimer() {
	if s.timer == nil {
		return
	}
	s.timer.Stop()
	s.timer = nil
}

// Snapshot is a read-only copy of the current session.
type Snapshot struct {
	SessionID        uint64
	SourceText       string
	TypedText        string
	Phase            Phase
	DurationSeconds  int
	RemainingSeconds int
	ElapsedSeconds   int
	Metrics          stats.Metrics
	Timeline         []model.TimelinePoint
	StartedAt        time.Time
	CompletedAt      time.Time
}

// Progress is the share of the source text typed, from 0 to 100.
func (s Snapshot) Progress() int {
	total := len([]rune(s.SourceText))
	if total == 0 {
		return 0
	}
	return len([]rune(s.TypedText)) * 100 / total
}
