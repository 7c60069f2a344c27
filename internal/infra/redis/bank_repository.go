package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"capitals-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// BankLoader fetches the country bank from a backing store (embedded dataset, Postgres).
type BankLoader interface {
	LoadCountries(ctx context.Context) ([]domain.Country, error)
}

// BankRepository caches the serialized country bank in Redis and falls back
// to a loader on cache miss.
// Stored as: SET quiz:bank:countries {json} with TTL.
type BankRepository struct {
	client *redis.Client
	loader BankLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewBankRepository(client *redis.Client, loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

const bankKey = "quiz:bank:countries"

func (r *BankRepository) Countries(ctx context.Context) ([]domain.Country, error) {
	raw, err := r.client.Get(ctx, bankKey).Bytes()
	if err == nil && len(raw) > 0 {
		return decodeBank(raw)
	}

	result, err, _ := r.sf.Do(bankKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		raw, err := r.client.Get(ctx, bankKey).Bytes()
		if err == nil && len(raw) > 0 {
			return decodeBank(raw)
		}

		countries, err := r.loader.LoadCountries(ctx)
		if err != nil {
			return nil, err
		}

		encoded, err := json.Marshal(countries)
		if err != nil {
			return nil, fmt.Errorf("encode country bank: %w", err)
		}
		_ = r.client.Set(ctx, bankKey, encoded, r.ttlWithJitter()).Err()

		return countries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Country), nil
}

func decodeBank(raw []byte) ([]domain.Country, error) {
	var countries []domain.Country
	if err := json.Unmarshal(raw, &countries); err != nil {
		return nil, fmt.Errorf("decode country bank: %w", err)
	}
	return countries, nil
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
