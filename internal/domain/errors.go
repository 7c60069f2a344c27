package domain

import "errors"

var (
	// ErrInvalidParameter is returned when session creation receives an
	// unrecognized difficulty or question count.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrSessionNotFound is returned when a session id is unknown or already disposed.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrQuizCompleted indicates all questions have been answered already.
	ErrQuizCompleted = errors.New("quiz already completed")
	// ErrQuizInProgress indicates a result was requested before the last answer.
	ErrQuizInProgress = errors.New("quiz not completed yet")
	// ErrNoHintsRemaining indicates the session's hint budget is spent.
	ErrNoHintsRemaining = errors.New("no hints remaining")
	// ErrInsufficientData indicates the bank has fewer countries of a tier
	// than the requested question count.
	ErrInsufficientData = errors.New("not enough countries for difficulty")
)
