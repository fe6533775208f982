// Package session runs a timed multiple-choice quiz.
package session

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/certquiz/internal/history"
	"github.com/abhisek/certquiz/internal/question"
	"github.com/abhisek/certquiz/internal/scoring"
)

// QuestionSource supplies the active pool at start time.
type QuestionSource interface {
	Questions() []question.Question
}

// Recorder persists finished quizzes.
type Recorder interface {
	Append(ctx context.Context, e history.Entry) error
}

// Session is the quiz state machine: setup, active, finished. All methods
// are safe for concurrent use; the countdown runs on its own goroutine.
type Session struct {
	mu sync.Mutex

	id        string
	phase     Phase
	cfg       Config
	selected  []question.Question
	answers   []scoring.Answer
	index     int
	remaining int
	outcome   *Outcome

	task Task
	// gen invalidates ticks from a countdown that has already been stopped.
	gen uint64

	source   QuestionSource
	recorder Recorder
	sched    Scheduler
	intn     func(int) int
	now      func() time.Time
	logger   zerolog.Logger
	onFinish func(Outcome)
}

// Option configures a Session.
type Option func(*Session)

// WithScheduler replaces the ticker-based countdown.
func WithScheduler(s Scheduler) Option { return func(x *Session) { x.sched = s } }

// WithRand sets the random source used to draw questions.
func WithRand(r *rand.Rand) Option { return func(x *Session) { x.intn = r.IntN } }

// WithRecorder sets where finished quizzes are saved.
func WithRecorder(r Recorder) Option { return func(x *Session) { x.recorder = r } }

// WithClock overrides time.Now for history timestamps.
func WithClock(now func() time.Time) Option { return func(x *Session) { x.now = now } }

// WithLogger sets the session logger.
func WithLogger(l zerolog.Logger) Option { return func(x *Session) { x.logger = l } }

// WithOnFinish registers a callback run after every finish, outside the
// session lock.
func WithOnFinish(fn func(Outcome)) Option { return func(x *Session) { x.onFinish = fn } }

// New creates a Session in the setup phase.
func New(source QuestionSource, opts ...Option) *Session {
	s := &Session{
		source: source,
		sched:  TickerScheduler{},
		intn:   rand.IntN,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start validates cfg against the current pool, draws the questions and
// starts the countdown.
func (s *Session) Start(cfg Config) error {
	pool := s.source.Questions()
	if len(pool) == 0 {
		return ErrNoQuestionsLoaded
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseSetup {
		return ErrNotSetup
	}
	if err := cfg.Validate(len(pool)); err != nil {
		return err
	}

	s.id = uuid.New().String()
	s.cfg = cfg
	s.selected = draw(s.intn, pool, cfg.Count)
	s.answers = make([]scoring.Answer, cfg.Count)
	for i := range s.answers {
		s.answers[i] = scoring.Unanswered
	}
	s.index = 0
	s.remaining = cfg.Minutes * 60
	s.outcome = nil
	s.phase = PhaseActive

	s.gen++
	gen := s.gen
	s.task = s.sched.Every(TickPeriod, func() { s.tick(gen) })

	s.logger.Info().
		Str("session_id", s.id).
		Int("questions", cfg.Count).
		Int("minutes", cfg.Minutes).
		Msg("quiz started")
	return nil
}

// Select records option i as the answer to the current question,
// replacing any earlier answer.
func (s *Session) Select(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseActive {
		return ErrNotActive
	}
	if i < 0 || i >= len(s.selected[s.index].Options) {
		return ErrOptionOutOfRange
	}
	s.answers[s.index] = scoring.Answer(i)
	return nil
}

// Next moves to the following question. On the last question it finishes
// the quiz and returns the outcome; otherwise the outcome is nil.
func (s *Session) Next(ctx context.Context) (*Outcome, error) {
	s.mu.Lock()
	if s.phase != PhaseActive {
		s.mu.Unlock()
		return nil, ErrNotActive
	}
	if s.index < len(s.selected)-1 {
		s.index++
		s.mu.Unlock()
		return nil, nil
	}
	out := s.finishLocked(false)
	s.mu.Unlock()
	return s.record(ctx, out), nil
}

// Previous moves to the preceding question; a no-op on the first one.
func (s *Session) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseActive {
		return ErrNotActive
	}
	if s.index > 0 {
		s.index--
	}
	return nil
}

// Finish ends the quiz early, scores it and records history.
func (s *Session) Finish(ctx context.Context) (*Outcome, error) {
	s.mu.Lock()
	if s.phase != PhaseActive {
		s.mu.Unlock()
		return nil, ErrNotActive
	}
	out := s.finishLocked(false)
	s.mu.Unlock()
	return s.record(ctx, out), nil
}

// Reset returns a finished quiz to setup. The pool is not touched.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseFinished {
		return ErrNotFinished
	}
	s.clearLocked()
	return nil
}

// Close stops the countdown and abandons any quiz in progress without
// recording it.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseActive {
		s.logger.Info().Str("session_id", s.id).Msg("quiz abandoned")
	}
	s.clearLocked()
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:        s.id,
		Phase:     s.phase,
		Config:    s.cfg,
		Index:     s.index,
		Total:     len(s.selected),
		Questions: question.CloneAll(s.selected),
		Answers:   slices.Clone(s.answers),
		Remaining: s.remaining,
	}
	if s.outcome != nil {
		o := *s.outcome
		snap.Outcome = &o
	}
	return snap
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) tick(gen uint64) {
	s.mu.Lock()
	if s.phase != PhaseActive || gen != s.gen {
		s.mu.Unlock()
		return
	}
	if s.remaining > 1 {
		s.remaining--
		s.mu.Unlock()
		return
	}
	s.remaining = 0
	out := s.finishLocked(true)
	s.mu.Unlock()
	s.record(context.Background(), out)
}

// finishLocked moves to finished and scores. Caller holds mu and has
// checked the phase.
func (s *Session) finishLocked(expired bool) Outcome {
	s.stopLocked()
	s.phase = PhaseFinished

	limit := s.cfg.Minutes * 60
	res := scoring.Score(s.selected, s.answers)
	res.TimeUsed = limit - s.remaining

	out := Outcome{
		SessionID: s.id,
		Result:    res,
		Breakdown: scoring.Breakdown(s.selected, s.answers),
		Entry:     history.NewEntry(res, s.now()),
		TimeLimit: limit,
		Expired:   expired,
	}
	s.outcome = &out

	s.logger.Info().
		Str("session_id", s.id).
		Int("correct", res.Correct).
		Int("total", res.Total).
		Int("score", res.Score).
		Bool("expired", expired).
		Msg("quiz finished")
	return out
}

// record saves the entry outside the lock and reports the save result on
// the stored outcome.
func (s *Session) record(ctx context.Context, out Outcome) *Outcome {
	if s.recorder != nil {
		if err := s.recorder.Append(ctx, out.Entry); err != nil {
			s.logger.Warn().Err(err).Str("session_id", out.SessionID).Msg("could not save quiz history")
			out.SaveErr = err
			s.mu.Lock()
			if s.outcome != nil && s.outcome.SessionID == out.SessionID {
				s.outcome.SaveErr = err
			}
			s.mu.Unlock()
		}
	}
	if s.onFinish != nil {
		s.onFinish(out)
	}
	return &out
}

func (s *Session) stopLocked() {
	if s.task != nil {
		s.task.Stop()
		s.task = nil
	}
	s.gen++
}

func (s *Session) clearLocked() {
	s.stopLocked()
	s.phase = PhaseSetup
	s.selected = nil
	s.answers = nil
	s.index = 0
	s.remaining = 0
	s.outcome = nil
}

// draw picks n questions without replacement using a partial
// Fisher-Yates shuffle over indices.
func draw(intn func(int) int, pool []question.Question, n int) []question.Question {
	idx := make([]int, len(pool))
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < n; i++ {
		j := i + intn(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	out := make([]question.Question, n)
	for i := range out {
		out[i] = pool[idx[i]].Clone()
	}
	return out
}
