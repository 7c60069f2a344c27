package postgres

import (
	"context"
	"fmt"

	"capitals-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// BankLoader loads the country reference rows from Postgres.
type BankLoader struct {
	pool *pgxpool.Pool
}

func NewBankLoader(pool *pgxpool.Pool) *BankLoader {
	return &BankLoader{pool: pool}
}

func (l *BankLoader) LoadCountries(ctx context.Context) ([]domain.Country, error) {
	rows, err := l.pool.Query(ctx, `SELECT name, capital, difficulty, fun_fact FROM countries ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("load countries: %w", err)
	}
	defer rows.Close()

	var countries []domain.Country
	for rows.Next() {
		var country domain.Country
		var difficulty string
		if err := rows.Scan(&country.Name, &country.Capital, &difficulty, &country.FunFact); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		country.Difficulty = domain.Difficulty(difficulty)
		if !country.Difficulty.Valid() {
			return nil, fmt.Errorf("country %s: unknown difficulty %q", country.Name, difficulty)
		}
		countries = append(countries, country)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load countries: %w", err)
	}
	if len(countries) == 0 {
		return nil, fmt.Errorf("countries table is empty")
	}
	return countries, nil
}
