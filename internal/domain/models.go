package domain

import (
	"fmt"
	"time"
)

// Difficulty classifies countries and controls points per correct answer.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty validates a raw tier label at the boundary.
func ParseDifficulty(raw string) (Difficulty, error) {
	switch Difficulty(raw) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(raw), nil
	}
	return "", fmt.Errorf("%w: difficulty %q", ErrInvalidParameter, raw)
}

// Valid reports whether the tier is one of the three recognized values.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Points returns the fixed score value for a correct answer at this tier.
func (d Difficulty) Points() int {
	switch d {
	case DifficultyMedium:
		return 10
	case DifficultyHard:
		return 15
	default:
		return 5
	}
}

// HintKind selects the hint effect applied to the current question.
type HintKind string

const (
	HintEliminateOption HintKind = "eliminate_option"
	HintShowFact        HintKind = "show_fact"
)

// ParseHintKind validates a raw hint kind at the boundary.
func ParseHintKind(raw string) (HintKind, error) {
	switch HintKind(raw) {
	case HintEliminateOption, HintShowFact:
		return HintKind(raw), nil
	}
	return "", fmt.Errorf("%w: hint kind %q", ErrInvalidParameter, raw)
}

// QuestionCounts lists the accepted session sizes.
var QuestionCounts = []int{5, 10, 15, 20}

// ValidQuestionCount reports whether n is an accepted session size.
func ValidQuestionCount(n int) bool {
	for _, c := range QuestionCounts {
		if n == c {
			return true
		}
	}
	return false
}

// Country is one immutable record of the reference dataset.
type Country struct {
	Name       string     `json:"name"`
	Capital    string     `json:"capital"`
	Difficulty Difficulty `json:"difficulty"`
	FunFact    string     `json:"funFact"`
}

// Question is a generated multiple-choice question. Options hold the correct
// capital plus distractors in randomized display order; an elimination hint
// shrinks them to three.
type Question struct {
	Ordinal          int      `json:"ordinal"`
	Country          string   `json:"country"`
	CorrectCapital   string   `json:"correctCapital"`
	Options          []string `json:"options"`
	RemainingSeconds int      `json:"remainingSeconds"`
	Progress         string   `json:"progress"`
	Fact             string   `json:"fact,omitempty"`
}

// Config captures a session's creation parameters and its hint budget.
type Config struct {
	SessionID      string     `json:"sessionId"`
	Difficulty     Difficulty `json:"difficulty"`
	QuestionCount  int        `json:"questionCount"`
	HintsRemaining int        `json:"hintsRemaining"`
}

// Answer records the outcome of one submission.
type Answer struct {
	Selected string `json:"selected"`
	Correct  bool   `json:"correct"`
	Points   int    `json:"points"`
	Feedback string `json:"feedback"`
}

// Hint is the partial payload returned by RequestHint; only the field
// matching the requested kind is populated.
type Hint struct {
	Fact    *string  `json:"fact,omitempty"`
	Options []string `json:"options,omitempty"`
}

// Result summarizes a completed session.
type Result struct {
	Score           int       `json:"score"`
	CorrectCount    int       `json:"correctCount"`
	IncorrectCount  int       `json:"incorrectCount"`
	AccuracyPercent float64   `json:"accuracyPercent"`
	Message         string    `json:"message"`
	CompletedAt     time.Time `json:"completedAt"`
}
