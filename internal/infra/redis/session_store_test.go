package redis

import (
	"testing"
	"time"

	"capitals-quiz-service/internal/app"
	"capitals-quiz-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)

	session := app.NewSession(domain.Config{SessionID: "s1", HintsRemaining: 3}, nil)
	store.Put("s1", session)
	if !mr.Exists("quiz:session:s1") {
		t.Fatalf("expected redis liveness key to be set")
	}
	if got, ok := store.Get("s1"); !ok || got != session {
		t.Fatalf("expected local session back, got %v ok=%v", got, ok)
	}

	store.Delete("s1")
	if mr.Exists("quiz:session:s1") {
		t.Fatalf("expected redis key removed")
	}
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("expected session removed")
	}
}
