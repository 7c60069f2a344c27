package app

import (
	"fmt"
	"math"
	"sync"
	"time"

	"capitals-quiz-service/internal/domain"
)

const startingHints = 3

const (
	feedbackCorrect   = "Correct!"
	feedbackIncorrect = "Incorrect! The correct answer is: %s"
)

const (
	messageExcellent  = "Excellent"
	messageVeryGood   = "Very good"
	messageGood       = "Good job"
	messagePracticing = "Keep practicing"
)

// Session is the in-memory aggregate for one quiz attempt. The cursor marks
// the next unanswered question; it only ever moves forward, one accepted
// answer at a time, so a question can never be answered twice.
type Session struct {
	mu        sync.Mutex
	config    domain.Config
	questions []domain.Question
	cursor    int
	answers   []domain.Answer
	score     int
}

// NewSession is exported for infrastructure layers and tests that need to
// seed sessions directly.
func NewSession(config domain.Config, questions []domain.Question) *Session {
	return newSession(config, questions)
}

func newSession(config domain.Config, questions []domain.Question) *Session {
	return &Session{
		config:    config,
		questions: questions,
		answers:   make([]domain.Answer, 0, len(questions)),
	}
}

// Config returns a snapshot of the session configuration.
func (s *Session) Config() domain.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// currentQuestion returns a view of the active question with the fact
// withheld; the fact is only ever revealed through a hint.
func (s *Session) currentQuestion() (domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor >= len(s.questions) {
		return domain.Question{}, domain.ErrQuizCompleted
	}

	question := s.questions[s.cursor]
	question.Fact = ""
	question.Options = append([]string(nil), question.Options...)
	return question, nil
}

// submit scores the selected option against the active question. Appending
// the answer, adding points, and advancing the cursor happen as one unit
// under the lock.
func (s *Session) submit(selected string) (domain.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor >= len(s.questions) {
		return domain.Answer{}, domain.ErrQuizCompleted
	}

	question := s.questions[s.cursor]
	correct := selected == question.CorrectCapital
	points := 0
	feedback := fmt.Sprintf(feedbackIncorrect, question.CorrectCapital)
	if correct {
		points = s.config.Difficulty.Points()
		feedback = feedbackCorrect
	}

	answer := domain.Answer{
		Selected: selected,
		Correct:  correct,
		Points:   points,
		Feedback: feedback,
	}

	s.answers = append(s.answers, answer)
	s.score += points
	s.cursor++
	return answer, nil
}

// useHint consumes one hint and applies its effect to the active question.
// The budget is spent before the kind is dispatched, so an unrecognized kind
// still costs a hint and yields an empty payload.
func (s *Session) useHint(kind domain.HintKind, intn func(int) int) (domain.Hint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.HintsRemaining <= 0 {
		return domain.Hint{}, domain.ErrNoHintsRemaining
	}
	if s.cursor >= len(s.questions) {
		return domain.Hint{}, domain.ErrQuizCompleted
	}

	question := &s.questions[s.cursor]
	s.config.HintsRemaining--

	switch kind {
	case domain.HintShowFact:
		fact := question.Fact
		return domain.Hint{Fact: &fact}, nil
	case domain.HintEliminateOption:
		incorrect := make([]string, 0, len(question.Options))
		for _, option := range question.Options {
			if option != question.CorrectCapital {
				incorrect = append(incorrect, option)
			}
		}
		if len(incorrect) == 0 {
			return domain.Hint{Options: append([]string(nil), question.Options...)}, nil
		}
		removed := incorrect[intn(len(incorrect))]

		remaining := make([]string, 0, len(question.Options)-1)
		for _, option := range question.Options {
			if option != removed {
				remaining = append(remaining, option)
			}
		}
		question.Options = remaining
		return domain.Hint{Options: append([]string(nil), remaining...)}, nil
	}

	return domain.Hint{}, nil
}

// result computes the final summary once every question is answered.
func (s *Session) result(completedAt time.Time) (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor < len(s.questions) {
		return domain.Result{}, domain.ErrQuizInProgress
	}

	correct := 0
	for _, answer := range s.answers {
		if answer.Correct {
			correct++
		}
	}

	accuracy := float64(correct) / float64(len(s.answers)) * 100

	return domain.Result{
		Score:           s.score,
		CorrectCount:    correct,
		IncorrectCount:  len(s.answers) - correct,
		AccuracyPercent: math.Round(accuracy*10) / 10,
		Message:         performanceMessage(accuracy),
		CompletedAt:     completedAt,
	}, nil
}

// performanceMessage picks the first matching band, evaluated high to low.
func performanceMessage(accuracy float64) string {
	switch {
	case accuracy >= 90:
		return messageExcellent
	case accuracy >= 70:
		return messageVeryGood
	case accuracy >= 50:
		return messageGood
	default:
		return messagePracticing
	}
}
