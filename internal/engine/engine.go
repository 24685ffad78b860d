// Package engine runs a typing test session: it generates the text, tracks input
// against it, drives the one-second countdown, and derives live metrics.
//
// An Engine is confined to one goroutine. Timer callbacks never touch the engine
// directly; they hand a Tick to Options.Dispatch, and the owner feeds it back
// through HandleTick on the engine's goroutine.
package engine

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/tejas/internal/clock"
	"github.com/verte-zerg/tejas/internal/generator"
	"github.com/verte-zerg/tejas/internal/model"
	"github.com/verte-zerg/tejas/internal/stats"
)

// TickInterval is the countdown resolution.
const TickInterval = time.Second

// Presets are the selectable test durations in seconds.
var Presets = []int{15, 30, 60, 120}

var (
	ErrInvalidDuration = errors.New("duration must be greater than 0")
	ErrNoWords         = errors.New("vocabulary is empty")
	ErrNoScheduler     = errors.New("scheduler is required")
)

// Options configures an Engine.
type Options struct {
	Words           []string
	DurationSeconds int
	Generator       *generator.Generator
	Scheduler       clock.Scheduler
	// Dispatch receives ticks from the scheduler. When nil, ticks are handled
	// inline, which is only safe with a scheduler that fires on the engine's goroutine.
	Dispatch func(Tick)
	Now      func() time.Time
	Logger   *zap.Logger
}

// Engine owns the current session.
type Engine struct {
	words    []string
	duration int
	gen      *generator.Generator
	sched    clock.Scheduler
	dispatch func(Tick)
	now      func() time.Time
	log      *zap.Logger

	lastID  uint64
	current *session
}

// New validates opts and returns an engine holding a fresh idle session.
func New(opts Options) (*Engine, error) {
	if len(opts.Words) == 0 {
		return nil, ErrNoWords
	}
	if opts.DurationSeconds <= 0 {
		return nil, ErrInvalidDuration
	}
	if opts.Scheduler == nil {
		return nil, ErrNoScheduler
	}
	e := &Engine{
		words:    append([]string(nil), opts.Words...),
		duration: opts.DurationSeconds,
		gen:      opts.Generator,
		sched:    opts.Scheduler,
		dispatch: opts.Dispatch,
		now:      opts.Now,
		log:      opts.Logger,
	}
	if e.gen == nil {
		e.gen = generator.New()
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.dispatch == nil {
		e.dispatch = func(t Tick) { e.HandleTick(t) }
	}
	e.Restart()
	return e, nil
}

// Configure sets the duration used by this and later sessions and restarts.
func (e *Engine) Configure(durationSeconds int) error {
	if durationSeconds <= 0 {
		return ErrInvalidDuration
	}
	e.duration = durationSeconds
	e.Restart()
	return nil
}

// Duration returns the configured duration in seconds.
func (e *Engine) Duration() int {
	return e.duration
}

// Restart cancels any running countdown and replaces the session with a new idle
// one. Ticks addressed to the old session are ignored from here on.
func (e *Engine) Restart() {
	if e.current != nil {
		e.current.cancelTimer()
	}
	e.lastID++
	text := e.gen.Generate(e.words, generator.WordCountFor(e.duration, e.words))
	e.current = &session{
		id:        e.lastID,
		source:    []rune(text),
		phase:     PhaseIdle,
		duration:  e.duration,
		remaining: e.duration,
	}
}

// Close stops the countdown. The engine must not be used afterwards.
func (e *Engine) Close() {
	if e.current != nil {
		e.current.cancelTimer()
	}
}

// Submit replaces the typed text with the sanitized raw value. It reports whether
// the value was accepted; completed sessions and values longer than the source
// text are rejected without changing anything.
func (e *Engine) Submit(raw string) bool {
	s := e.current
	if s.phase == PhaseComplete {
		return false
	}
	typed := []rune(Sanitize(raw))
	if len(typed) > len(s.source) {
		return false
	}
	if s.phase == PhaseIdle && len(typed) > 0 {
		e.start(s)
	}
	s.typed = typed
	if s.phase == PhaseRunning && len(s.typed) == len(s.source) {
		e.complete(s)
	}
	return true
}

// HandleTick advances the countdown by one second. Ticks for another session or
// for a session that is not running are ignored; the return value reports
// whether the tick was applied.
func (e *Engine) HandleTick(t Tick) bool {
	s := e.current
	if s == nil || t.SessionID != s.id || s.phase != PhaseRunning {
		return false
	}
	s.elapsed++
	s.remaining--
	m := s.metrics()
	s.timeline = append(s.timeline, model.TimelinePoint{
		Second: s.elapsed,
		WPM:    m.WPM,
		RawWPM: m.RawWPM,
		Errors: m.Errors,
	})
	if s.remaining <= 0 {
		s.remaining = 0
		e.complete(s)
	}
	return true
}

// Snapshot returns a copy of the current session state with live metrics.
func (e *Engine) Snapshot() Snapshot {
	s := e.current
	return Snapshot{
		SessionID:        s.id,
		SourceText:       string(s.source),
		TypedText:        string(s.typed),
		Phase:            s.phase,
		DurationSeconds:  s.duration,
		RemainingSeconds: s.remaining,
		ElapsedSeconds:   s.elapsed,
		Metrics:          s.metrics(),
		Timeline:         append([]model.TimelinePoint(nil), s.timeline...),
		StartedAt:        s.startedAt,
		CompletedAt:      s.completedAt,
	}
}

// Result returns the final result of a completed session.
func (e *Engine) Result() (model.Result, bool) {
	s := e.current
	if s.phase != PhaseComplete {
		return model.Result{}, false
	}
	m := s.metrics()
	return model.Result{
		WPM:             m.WPM,
		RawWPM:          m.RawWPM,
		Accuracy:        m.Accuracy,
		Errors:          m.Errors,
		Consistency:     stats.Consistency(s.timeline),
		Chars:           m.Chars,
		TotalTyped:      m.Typed,
		DurationSeconds: s.duration,
		ElapsedSeconds:  s.elapsed,
		Timeline:        append([]model.TimelinePoint(nil), s.timeline...),
		CompletedAt:     s.completedAt,
	}, true
}

func (e *Engine) start(s *session) {
	s.phase = PhaseRunning
	s.startedAt = e.now()
	id := s.id
	s.timer = e.sched.Every(TickInterval, func() { e.dispatch(Tick{SessionID: id}) })
	e.log.Debug("session started", zap.Uint64("session", id), zap.Int("duration", s.duration))
}

func (e *Engine) complete(s *session) {
	s.phase = PhaseComplete
	s.completedAt = e.now()
	s.cancelTimer()
	e.log.Debug("session complete",
		zap.Uint64("session", s.id),
		zap.Int("elapsed", s.elapsed),
		zap.Int("typed", len(s.typed)))
}
