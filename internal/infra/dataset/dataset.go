package dataset

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"capitals-quiz-service/internal/domain"
)

//go:embed countries.json
var countriesJSON []byte

// Load parses the embedded reference dataset. Capitals must be distinct
// bank-wide; distractor sampling excludes by capital value, so a duplicate
// would corrupt generated options. Any defect here is a startup failure, not
// a per-request one.
func Load() ([]domain.Country, error) {
	var countries []domain.Country
	if err := json.Unmarshal(countriesJSON, &countries); err != nil {
		return nil, fmt.Errorf("parse countries dataset: %w", err)
	}
	if len(countries) == 0 {
		return nil, fmt.Errorf("countries dataset is empty")
	}

	capitals := make(map[string]string, len(countries))
	for _, country := range countries {
		if country.Name == "" || country.Capital == "" {
			return nil, fmt.Errorf("countries dataset: incomplete record %+v", country)
		}
		if !country.Difficulty.Valid() {
			return nil, fmt.Errorf("countries dataset: %s has unknown difficulty %q", country.Name, country.Difficulty)
		}
		if other, ok := capitals[country.Capital]; ok {
			return nil, fmt.Errorf("countries dataset: capital %q shared by %s and %s", country.Capital, other, country.Name)
		}
		capitals[country.Capital] = country.Name
	}
	return countries, nil
}

// Loader serves the embedded dataset as a country bank source.
type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

func (l *Loader) LoadCountries(_ context.Context) ([]domain.Country, error) {
	return Load()
}
