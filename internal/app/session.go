package app

import (
	"context"
	"sync"
	"time"

	"cultural-quiz-service/internal/domain"
	"cultural-quiz-service/internal/platform/logger"
)

// Status is the top-level state of a quiz session.
type Status string

const (
	StatusAwaitingData Status = "awaiting_data"
	StatusLoading      Status = "loading"
	StatusActive       Status = "active"
	StatusComplete     Status = "complete"
	StatusNoData       Status = "no_data"
	StatusExited       Status = "exited"
)

// SessionRepository abstracts where live quiz sessions are registered (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// QuestionProvider supplies the ordered question set for a subject key.
type QuestionProvider interface {
	FetchQuestions(ctx context.Context, subjectKey string) ([]domain.Question, error)
}

// QuestionView is the current question as shown to a player; the answer is withheld.
type QuestionView struct {
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
}

// Snapshot is a copy of the observable session state.
type Snapshot struct {
	SubjectKey     string        `json:"subjectKey"`
	Status         Status        `json:"status"`
	CurrentIndex   int           `json:"currentIndex"`
	Total          int           `json:"total"`
	Score          int           `json:"score"`
	Answered       int           `json:"answered"`
	Question       *QuestionView `json:"question,omitempty"`
	HasSelection   bool          `json:"hasSelection"`
	SelectedOption string        `json:"selectedOption,omitempty"`
	Evaluation     Evaluation    `json:"evaluation"`
	CorrectAnswer  string        `json:"correctAnswer,omitempty"`
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithAdvanceDelay overrides the pause between an answer and the next question.
func WithAdvanceDelay(d time.Duration) SessionOption {
	return func(s *Session) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithAfterFunc swaps the timer source, for deterministic tests.
func WithAfterFunc(f AfterFunc) SessionOption {
	return func(s *Session) {
		s.scheduler = NewScheduler(f)
	}
}

// WithLogger sets the logger; the session id is attached to every entry.
func WithLogger(log *logger.Logger) SessionOption {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// Session owns all mutable state of one quiz attempt and is the only thing
// allowed to change it. Answers are evaluated synchronously; advancing to the
// next question only ever happens when the scheduler fires.
type Session struct {
	id        string
	provider  QuestionProvider
	delay     time.Duration
	scheduler *Scheduler
	log       *logger.Logger

	mu           sync.Mutex
	subjectKey   string
	questions    []domain.Question
	status       Status
	index        int
	score        Score
	answered     int
	hasSelection bool
	selected     string
	evaluation   Evaluation
	// generation changes on every advance, restart and exit so a stale timer
	// callback can tell it no longer applies.
	generation    uint64
	cancelFetch   context.CancelFunc
	cancelAdvance func()
	subscribers   map[chan Snapshot]struct{}
}

// NewSession builds a session in AwaitingData; call Start to load questions.
func NewSession(id string, provider QuestionProvider, opts ...SessionOption) *Session {
	s := &Session{
		id:          id,
		provider:    provider,
		delay:       time.Second,
		log:         logger.NewNop(),
		status:      StatusAwaitingData,
		evaluation:  Unevaluated,
		subscribers: make(map[chan Snapshot]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.scheduler == nil {
		s.scheduler = NewScheduler(nil)
	}
	s.log = s.log.With("session_id", id)
	return s
}

// ID returns the identifier the session was created with.
func (s *Session) ID() string {
	return s.id
}

// Start requests the question set for subjectKey and blocks until the provider
// answers. Empty sets and provider failures both land in NoData; the returned
// error only reports misuse (already started or exited).
func (s *Session) Start(ctx context.Context, subjectKey string) error {
	s.mu.Lock()
	switch s.status {
	case StatusAwaitingData:
	case StatusExited:
		s.mu.Unlock()
		return domain.ErrSessionClosed
	default:
		s.mu.Unlock()
		return domain.ErrSessionStarted
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	s.subjectKey = subjectKey
	s.status = StatusLoading
	s.cancelFetch = cancel
	s.broadcastLocked()
	s.mu.Unlock()

	questions, err := s.provider.FetchQuestions(fetchCtx, subjectKey)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelFetch = nil
	if s.status != StatusLoading {
		// Exited while the fetch was in flight.
		return nil
	}
	switch {
	case err != nil:
		s.log.Warn("quiz data unavailable", "subject", subjectKey, "error", err)
		s.status = StatusNoData
	case len(questions) == 0:
		s.log.Info("no quiz data for subject", "subject", subjectKey)
		s.status = StatusNoData
	default:
		s.questions = append([]domain.Question(nil), questions...)
		s.resetLocked()
		s.status = StatusActive
		s.log.Debug("quiz session active", "subject", subjectKey, "questions", len(questions))
	}
	s.broadcastLocked()
	return nil
}

// SelectOption records the answer for the current question. It reports false
// and changes nothing unless the session is Active and the question is still
// unanswered.
func (s *Session) SelectOption(option string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusActive || s.hasSelection {
		return false
	}

	s.hasSelection = true
	s.selected = option
	s.evaluation = Evaluate(s.questions[s.index], option)
	s.answered++
	if s.evaluation == Correct {
		s.score.Increment()
	}

	gen := s.generation
	s.cancelAdvance = s.scheduler.Arm(s.delay, func() { s.advance(gen) })
	s.broadcastLocked()
	return true
}

// Restart begins a new attempt over the same questions. Only valid from Complete.
func (s *Session) Restart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusComplete {
		return false
	}
	s.generation++
	s.resetLocked()
	s.status = StatusActive
	s.broadcastLocked()
	return true
}

// Exit tears the session down. A pending advance or an in-flight fetch can no
// longer change state once Exit returns. Subscriber channels are closed.
func (s *Session) Exit() {
	s.mu.Lock()
	if s.status == StatusExited {
		s.mu.Unlock()
		return
	}
	s.status = StatusExited
	s.generation++
	cancelFetch, cancelAdvance := s.cancelFetch, s.cancelAdvance
	s.cancelFetch, s.cancelAdvance = nil, nil
	s.broadcastLocked()
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
	s.mu.Unlock()

	if cancelAdvance != nil {
		cancelAdvance()
	}
	if cancelFetch != nil {
		cancelFetch()
	}
}

func (s *Session) advance(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusActive || s.generation != gen || !s.hasSelection {
		return
	}
	s.generation++
	s.cancelAdvance = nil
	s.clearSelectionLocked()
	if s.index+1 < len(s.questions) {
		s.index++
	} else {
		s.status = StatusComplete
		s.log.Debug("quiz session complete", "score", s.score.Total(), "total", len(s.questions))
	}
	s.broadcastLocked()
}

func (s *Session) resetLocked() {
	s.index = 0
	s.score = Score{}
	s.answered = 0
	s.clearSelectionLocked()
}

func (s *Session) clearSelectionLocked() {
	s.hasSelection = false
	s.selected = ""
	s.evaluation = Unevaluated
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Status returns the current top-level status.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Questions returns a copy of the loaded question set.
func (s *Session) Questions() []domain.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Question(nil), s.questions...)
}

// Subscribe returns a channel that receives a snapshot after every state change,
// starting with the current one. The caller must invoke the returned cancel
// function to avoid leaks; Exit closes the channel.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	s.mu.Lock()
	ch <- s.snapshotLocked()
	if s.status == StatusExited {
		close(ch)
		s.mu.Unlock()
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Slow reader: drop the oldest snapshot, the newest one supersedes it.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		SubjectKey:   s.subjectKey,
		Status:       s.status,
		CurrentIndex: s.index,
		Total:        len(s.questions),
		Score:        s.score.Total(),
		Answered:     s.answered,
		Evaluation:   s.evaluation,
	}
	if s.status != StatusActive {
		return snap
	}
	q := s.questions[s.index]
	snap.Question = &QuestionView{
		Prompt:  q.Prompt,
		Options: append([]string(nil), q.Options...),
	}
	if s.hasSelection {
		snap.HasSelection = true
		snap.SelectedOption = s.selected
		snap.CorrectAnswer = q.Answer
	}
	return snap
}
