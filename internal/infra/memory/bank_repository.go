package memory

import (
	"context"
	"sync"

	"capitals-quiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// BankLoader fetches the country bank from a backing store (embedded dataset, Postgres).
type BankLoader interface {
	LoadCountries(ctx context.Context) ([]domain.Country, error)
}

// BankRepository memoizes the country bank after the first successful load.
// The reference data is immutable for the process lifetime, so there is no
// expiry; concurrent first loads collapse into one loader call.
type BankRepository struct {
	loader BankLoader
	sf     singleflight.Group

	mu        sync.RWMutex
	countries []domain.Country
}

func NewBankRepository(loader BankLoader) *BankRepository {
	return &BankRepository{loader: loader}
}

func (r *BankRepository) Countries(ctx context.Context) ([]domain.Country, error) {
	r.mu.RLock()
	if r.countries != nil {
		countries := r.countries
		r.mu.RUnlock()
		return countries, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("bank", func() (interface{}, error) {
		r.mu.RLock()
		if r.countries != nil {
			countries := r.countries
			r.mu.RUnlock()
			return countries, nil
		}
		r.mu.RUnlock()

		countries, err := r.loader.LoadCountries(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.countries = countries
		r.mu.Unlock()
		return countries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Country), nil
}

// StaticBankLoader is a simple loader backed by an in-memory slice (useful for tests/demos).
type StaticBankLoader struct {
	countries []domain.Country
}

func NewStaticBankLoader(countries []domain.Country) *StaticBankLoader {
	return &StaticBankLoader{countries: countries}
}

func (l *StaticBankLoader) LoadCountries(_ context.Context) ([]domain.Country, error) {
	return l.countries, nil
}
