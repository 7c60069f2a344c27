package app

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"capitals-quiz-service/internal/domain"
	"github.com/google/uuid"
)

// SessionRepository abstracts how quiz sessions are stored (in-memory, Redis-marked, etc).
// Get signals absence through its second return; deletion is unconditional.
type SessionRepository interface {
	Put(sessionID string, session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// CountryRepository loads the reference country bank (from cache/backing store).
type CountryRepository interface {
	Countries(ctx context.Context) ([]domain.Country, error)
}

// QuizService contains the quiz session use cases: creation, question
// delivery, answer scoring, hint consumption, and result disposal.
type QuizService struct {
	sessions SessionRepository
	bank     CountryRepository
	now      func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewQuizService(store SessionRepository, bank CountryRepository) *QuizService {
	return NewQuizServiceWithClock(store, bank, rand.New(rand.NewSource(time.Now().UnixNano())), time.Now)
}

// NewQuizServiceWithClock is test-only for deterministic randomness and timestamps.
func NewQuizServiceWithClock(store SessionRepository, bank CountryRepository, rng *rand.Rand, now func() time.Time) *QuizService {
	return &QuizService{
		sessions: store,
		bank:     bank,
		now:      now,
		rng:      rng,
	}
}

// CreateSession validates the configuration, generates the question sequence,
// and stores a fresh session under a random identifier.
func (s *QuizService) CreateSession(ctx context.Context, difficulty domain.Difficulty, questionCount int) (domain.Config, error) {
	if !difficulty.Valid() {
		return domain.Config{}, fmt.Errorf("%w: difficulty %q", domain.ErrInvalidParameter, difficulty)
	}
	if !domain.ValidQuestionCount(questionCount) {
		return domain.Config{}, fmt.Errorf("%w: question count %d", domain.ErrInvalidParameter, questionCount)
	}

	countries, err := s.bank.Countries(ctx)
	if err != nil {
		return domain.Config{}, err
	}

	s.rngMu.Lock()
	questions, err := generateQuestions(countries, difficulty, questionCount, s.rng)
	s.rngMu.Unlock()
	if err != nil {
		return domain.Config{}, err
	}

	config := domain.Config{
		SessionID:      uuid.NewString(),
		Difficulty:     difficulty,
		QuestionCount:  questionCount,
		HintsRemaining: startingHints,
	}
	s.sessions.Put(config.SessionID, newSession(config, questions))
	return config, nil
}

// CurrentQuestion returns the next unanswered question with its fact withheld.
func (s *QuizService) CurrentQuestion(_ context.Context, sessionID string) (domain.Question, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Question{}, domain.ErrSessionNotFound
	}
	return session.currentQuestion()
}

// SubmitAnswer scores the selection against the active question and advances
// the session cursor. Matching is exact: no trimming, no case folding.
func (s *QuizService) SubmitAnswer(_ context.Context, sessionID, selected string) (domain.Answer, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Answer{}, domain.ErrSessionNotFound
	}
	return session.submit(selected)
}

// RequestHint spends one hint on the active question.
func (s *QuizService) RequestHint(_ context.Context, sessionID string, kind domain.HintKind) (domain.Hint, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Hint{}, domain.ErrSessionNotFound
	}
	return session.useHint(kind, s.intn)
}

// GetResult computes the final summary of a completed session and disposes
// it; the result can be fetched exactly once.
func (s *QuizService) GetResult(_ context.Context, sessionID string) (domain.Result, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Result{}, domain.ErrSessionNotFound
	}

	result, err := session.result(s.now())
	if err != nil {
		return domain.Result{}, err
	}

	s.sessions.Delete(sessionID)
	return result, nil
}

// intn draws from the shared source; sessions may race on it, the sessions'
// own locks do not cover the service RNG.
func (s *QuizService) intn(n int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Intn(n)
}
