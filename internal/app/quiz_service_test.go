package app_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"capitals-quiz-service/internal/app"
	"capitals-quiz-service/internal/domain"
	"capitals-quiz-service/internal/infra/memory"
	"github.com/google/uuid"
)

func TestCreateSessionConfiguration(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	config, err := service.CreateSession(ctx, domain.DifficultyEasy, 5)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := uuid.Parse(config.SessionID); err != nil {
		t.Fatalf("expected uuid session id, got %q", config.SessionID)
	}
	if config.HintsRemaining != 3 || config.QuestionCount != 5 || config.Difficulty != domain.DifficultyEasy {
		t.Fatalf("unexpected config %+v", config)
	}

	question, err := service.CurrentQuestion(ctx, config.SessionID)
	if err != nil {
		t.Fatalf("current question: %v", err)
	}
	if question.Ordinal != 1 {
		t.Fatalf("expected ordinal 1, got %d", question.Ordinal)
	}
	if question.Progress != "1 of 5" {
		t.Fatalf("expected progress %q, got %q", "1 of 5", question.Progress)
	}
	if question.RemainingSeconds != 30 {
		t.Fatalf("expected 30 remaining seconds, got %d", question.RemainingSeconds)
	}
	if question.Fact != "" {
		t.Fatalf("expected fact withheld, got %q", question.Fact)
	}
	assertOptionIntegrity(t, question, 4)
}

func TestCreateSessionRejectsBadParameters(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	if _, err := service.CreateSession(ctx, domain.DifficultyEasy, 7); !errors.Is(err, domain.ErrInvalidParameter) {
		t.Fatalf("expected invalid parameter for count 7, got %v", err)
	}
	if _, err := service.CreateSession(ctx, domain.Difficulty("impossible"), 5); !errors.Is(err, domain.ErrInvalidParameter) {
		t.Fatalf("expected invalid parameter for bad difficulty, got %v", err)
	}
}

func TestCreateSessionInsufficientData(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()
	bank := memory.NewBankRepository(memory.NewStaticBankLoader(testBank()[:3]))
	service := app.NewQuizServiceWithClock(store, bank, rand.New(rand.NewSource(1)), time.Now)

	if _, err := service.CreateSession(ctx, domain.DifficultyEasy, 5); !errors.Is(err, domain.ErrInsufficientData) {
		t.Fatalf("expected insufficient data, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected no session stored on failure, got %d", store.Len())
	}
}

func TestSubmitAnswerScoring(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	config, err := service.CreateSession(ctx, domain.DifficultyMedium, 5)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	question, err := service.CurrentQuestion(ctx, config.SessionID)
	if err != nil {
		t.Fatalf("current question: %v", err)
	}

	answer, err := service.SubmitAnswer(ctx, config.SessionID, question.CorrectCapital)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !answer.Correct || answer.Points != 10 {
		t.Fatalf("expected correct medium answer worth 10, got %+v", answer)
	}
	if answer.Feedback != "Correct!" {
		t.Fatalf("unexpected feedback %q", answer.Feedback)
	}

	next, err := service.CurrentQuestion(ctx, config.SessionID)
	if err != nil {
		t.Fatalf("current question: %v", err)
	}
	if next.Ordinal != 2 {
		t.Fatalf("expected cursor to advance to ordinal 2, got %d", next.Ordinal)
	}

	wrong, err := service.SubmitAnswer(ctx, config.SessionID, "definitely not a capital")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if wrong.Correct || wrong.Points != 0 {
		t.Fatalf("expected incorrect answer worth 0, got %+v", wrong)
	}
	want := fmt.Sprintf("Incorrect! The correct answer is: %s", next.CorrectCapital)
	if wrong.Feedback != want {
		t.Fatalf("expected feedback %q, got %q", want, wrong.Feedback)
	}
}

func TestAnswerMatchingIsExact(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	config, _ := service.CreateSession(ctx, domain.DifficultyEasy, 5)
	question, _ := service.CurrentQuestion(ctx, config.SessionID)

	// No trimming or case folding.
	answer, err := service.SubmitAnswer(ctx, config.SessionID, " "+question.CorrectCapital)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if answer.Correct {
		t.Fatalf("expected padded answer to be rejected")
	}
}

func TestSubmitAfterCompletion(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	config, _ := service.CreateSession(ctx, domain.DifficultyEasy, 5)
	completeSession(t, service, config.SessionID, 5, 0)

	if _, err := service.SubmitAnswer(ctx, config.SessionID, "anything"); !errors.Is(err, domain.ErrQuizCompleted) {
		t.Fatalf("expected quiz completed, got %v", err)
	}
	if _, err := service.CurrentQuestion(ctx, config.SessionID); !errors.Is(err, domain.ErrQuizCompleted) {
		t.Fatalf("expected quiz completed, got %v", err)
	}
}

func TestUnknownSession(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)
	id := uuid.NewString()

	if _, err := service.CurrentQuestion(ctx, id); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := service.SubmitAnswer(ctx, id, "x"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := service.RequestHint(ctx, id, domain.HintShowFact); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := service.GetResult(ctx, id); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHintBudget(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	config, _ := service.CreateSession(ctx, domain.DifficultyEasy, 5)
	for i := 0; i < 3; i++ {
		if _, err := service.RequestHint(ctx, config.SessionID, domain.HintShowFact); err != nil {
			t.Fatalf("hint %d: %v", i+1, err)
		}
	}

	if _, err := service.RequestHint(ctx, config.SessionID, domain.HintShowFact); !errors.Is(err, domain.ErrNoHintsRemaining) {
		t.Fatalf("expected no hints remaining, got %v", err)
	}

	// Exhausted budget must not change question state.
	question, err := service.CurrentQuestion(ctx, config.SessionID)
	if err != nil {
		t.Fatalf("current question: %v", err)
	}
	assertOptionIntegrity(t, question, 4)
}

func TestUnrecognizedHintKindConsumesBudget(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	config, _ := service.CreateSession(ctx, domain.DifficultyEasy, 5)

	// The transport rejects unknown kinds, but the engine keeps the original
	// behavior for any other entry path: the hint is spent, the payload empty.
	hint, err := service.RequestHint(ctx, config.SessionID, domain.HintKind("phone_a_friend"))
	if err != nil {
		t.Fatalf("hint: %v", err)
	}
	if hint.Fact != nil || hint.Options != nil {
		t.Fatalf("expected empty hint payload, got %+v", hint)
	}

	// The wasted hint still counts against the budget: only two remain.
	for i := 0; i < 2; i++ {
		if _, err := service.RequestHint(ctx, config.SessionID, domain.HintShowFact); err != nil {
			t.Fatalf("hint %d: %v", i+2, err)
		}
	}
	if _, err := service.RequestHint(ctx, config.SessionID, domain.HintShowFact); !errors.Is(err, domain.ErrNoHintsRemaining) {
		t.Fatalf("expected no hints remaining after 2 recognized and 1 unrecognized, got %v", err)
	}
}

func TestShowFactHint(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	config, _ := service.CreateSession(ctx, domain.DifficultyHard, 5)
	question, _ := service.CurrentQuestion(ctx, config.SessionID)

	hint, err := service.RequestHint(ctx, config.SessionID, domain.HintShowFact)
	if err != nil {
		t.Fatalf("hint: %v", err)
	}
	if hint.Fact == nil {
		t.Fatalf("expected fact payload")
	}
	want := factFor(t, question.Country)
	if *hint.Fact != want {
		t.Fatalf("expected fact %q, got %q", want, *hint.Fact)
	}
	if hint.Options != nil {
		t.Fatalf("expected no options payload, got %v", hint.Options)
	}

	// The question view still withholds the fact after the hint.
	again, _ := service.CurrentQuestion(ctx, config.SessionID)
	if again.Fact != "" {
		t.Fatalf("expected fact still withheld, got %q", again.Fact)
	}
}

func TestEliminateOptionHint(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	config, _ := service.CreateSession(ctx, domain.DifficultyEasy, 5)
	before, _ := service.CurrentQuestion(ctx, config.SessionID)

	hint, err := service.RequestHint(ctx, config.SessionID, domain.HintEliminateOption)
	if err != nil {
		t.Fatalf("hint: %v", err)
	}
	if len(hint.Options) != 3 {
		t.Fatalf("expected 3 options after elimination, got %d", len(hint.Options))
	}
	if !contains(hint.Options, before.CorrectCapital) {
		t.Fatalf("elimination removed the correct capital %q: %v", before.CorrectCapital, hint.Options)
	}

	// The stored question mutates, not just the hint payload.
	after, _ := service.CurrentQuestion(ctx, config.SessionID)
	assertOptionIntegrity(t, after, 3)
}

func TestResultOneShot(t *testing.T) {
	ctx := context.Background()
	completedAt := time.Date(2025, 4, 12, 9, 30, 0, 0, time.UTC)
	store := memory.NewSessionStore()
	bank := memory.NewBankRepository(memory.NewStaticBankLoader(testBank()))
	service := app.NewQuizServiceWithClock(store, bank, rand.New(rand.NewSource(7)), func() time.Time { return completedAt })

	config, err := service.CreateSession(ctx, domain.DifficultyMedium, 10)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if _, err := service.GetResult(ctx, config.SessionID); !errors.Is(err, domain.ErrQuizInProgress) {
		t.Fatalf("expected quiz in progress, got %v", err)
	}
	if _, ok := store.Get(config.SessionID); !ok {
		t.Fatalf("expected session retained after premature result fetch")
	}

	completeSession(t, service, config.SessionID, 8, 2)

	result, err := service.GetResult(ctx, config.SessionID)
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	if result.Score != 80 || result.CorrectCount != 8 || result.IncorrectCount != 2 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.AccuracyPercent != 80.0 {
		t.Fatalf("expected accuracy 80.0, got %v", result.AccuracyPercent)
	}
	if result.Message != "Very good" {
		t.Fatalf("expected %q, got %q", "Very good", result.Message)
	}
	if !result.CompletedAt.Equal(completedAt) {
		t.Fatalf("expected completion stamped at %v, got %v", completedAt, result.CompletedAt)
	}

	// The result is a one-shot read: the session is gone afterwards.
	if _, err := service.GetResult(ctx, config.SessionID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected not found on second fetch, got %v", err)
	}
	if _, err := service.CurrentQuestion(ctx, config.SessionID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected not found after disposal, got %v", err)
	}
}

func TestResultAccuracyRoundsToOneDecimal(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	config, err := service.CreateSession(ctx, domain.DifficultyEasy, 15)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	completeSession(t, service, config.SessionID, 8, 7)

	result, err := service.GetResult(ctx, config.SessionID)
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	// 8/15 is 53.333...%, rounded to one decimal.
	if result.AccuracyPercent != 53.3 {
		t.Fatalf("expected accuracy 53.3, got %v", result.AccuracyPercent)
	}
	if result.Score != 40 || result.CorrectCount != 8 || result.IncorrectCount != 7 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Message != "Good job" {
		t.Fatalf("expected %q, got %q", "Good job", result.Message)
	}
}

func TestPerformanceMessages(t *testing.T) {
	cases := []struct {
		correct, wrong int
		message        string
	}{
		{5, 0, "Excellent"},
		{4, 1, "Very good"},
		{3, 2, "Good job"},
		{2, 3, "Keep practicing"},
	}

	for _, tc := range cases {
		service, _ := newTestService(t)
		config, err := service.CreateSession(context.Background(), domain.DifficultyEasy, 5)
		if err != nil {
			t.Fatalf("create session: %v", err)
		}
		completeSession(t, service, config.SessionID, tc.correct, tc.wrong)

		result, err := service.GetResult(context.Background(), config.SessionID)
		if err != nil {
			t.Fatalf("get result: %v", err)
		}
		if result.Message != tc.message {
			t.Fatalf("%d/%d correct: expected %q, got %q", tc.correct, tc.correct+tc.wrong, tc.message, result.Message)
		}
	}
}

func newTestService(t *testing.T) (*app.QuizService, *memory.SessionStore) {
	t.Helper()
	store := memory.NewSessionStore()
	bank := memory.NewBankRepository(memory.NewStaticBankLoader(testBank()))
	return app.NewQuizServiceWithClock(store, bank, rand.New(rand.NewSource(42)), time.Now), store
}

// completeSession answers correct questions first, then wrong ones.
func completeSession(t *testing.T, service *app.QuizService, sessionID string, correct, wrong int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < correct+wrong; i++ {
		question, err := service.CurrentQuestion(ctx, sessionID)
		if err != nil {
			t.Fatalf("question %d: %v", i+1, err)
		}
		selected := question.CorrectCapital
		if i >= correct {
			selected = "not " + question.CorrectCapital
		}
		if _, err := service.SubmitAnswer(ctx, sessionID, selected); err != nil {
			t.Fatalf("submit %d: %v", i+1, err)
		}
	}
}

func assertOptionIntegrity(t *testing.T, question domain.Question, want int) {
	t.Helper()
	if len(question.Options) != want {
		t.Fatalf("expected %d options, got %d: %v", want, len(question.Options), question.Options)
	}
	seen := make(map[string]bool, len(question.Options))
	for _, option := range question.Options {
		if seen[option] {
			t.Fatalf("duplicate option %q in %v", option, question.Options)
		}
		seen[option] = true
	}
	if !seen[question.CorrectCapital] {
		t.Fatalf("options %v missing correct capital %q", question.Options, question.CorrectCapital)
	}
}

func factFor(t *testing.T, country string) string {
	t.Helper()
	for _, c := range testBank() {
		if c.Name == country {
			return c.FunFact
		}
	}
	t.Fatalf("unknown country %q", country)
	return ""
}

func contains(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}

// testBank is a fixed slice with enough countries per tier for 15-question
// sessions; capitals are distinct bank-wide.
func testBank() []domain.Country {
	tiers := []domain.Difficulty{domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard}
	countries := make([]domain.Country, 0, 48)
	for _, tier := range tiers {
		for i := 1; i <= 16; i++ {
			countries = append(countries, domain.Country{
				Name:       fmt.Sprintf("%s land %d", tier, i),
				Capital:    fmt.Sprintf("%s city %d", tier, i),
				Difficulty: tier,
				FunFact:    fmt.Sprintf("Fact about %s land %d.", tier, i),
			})
		}
	}
	return countries
}
