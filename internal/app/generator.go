package app

import (
	"fmt"
	"math/rand"

	"capitals-quiz-service/internal/domain"
)

// questionSeconds is advisory countdown metadata; the server never enforces it.
const questionSeconds = 30

const distractorCount = 3

// generateQuestions builds count multiple-choice questions for one tier.
// Countries are selected without repetition by an unbiased shuffle-and-take;
// the three distractor capitals are sampled from the whole bank, not just the
// requested tier. Pure given the bank and the random source.
func generateQuestions(bank []domain.Country, difficulty domain.Difficulty, count int, rng *rand.Rand) ([]domain.Question, error) {
	matching := make([]domain.Country, 0, len(bank))
	for _, country := range bank {
		if country.Difficulty == difficulty {
			matching = append(matching, country)
		}
	}
	if len(matching) < count {
		return nil, fmt.Errorf("%w: %s has %d, requested %d", domain.ErrInsufficientData, difficulty, len(matching), count)
	}

	rng.Shuffle(len(matching), func(i, j int) {
		matching[i], matching[j] = matching[j], matching[i]
	})
	selected := matching[:count]

	questions := make([]domain.Question, 0, count)
	for i, country := range selected {
		distractors := make([]string, 0, len(bank))
		for _, other := range bank {
			if other.Capital != country.Capital {
				distractors = append(distractors, other.Capital)
			}
		}
		if len(distractors) < distractorCount {
			return nil, fmt.Errorf("%w: bank has only %d distractor capitals", domain.ErrInsufficientData, len(distractors))
		}
		rng.Shuffle(len(distractors), func(i, j int) {
			distractors[i], distractors[j] = distractors[j], distractors[i]
		})

		options := append([]string{country.Capital}, distractors[:distractorCount]...)
		rng.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})

		questions = append(questions, domain.Question{
			Ordinal:          i + 1,
			Country:          country.Name,
			CorrectCapital:   country.Capital,
			Options:          options,
			RemainingSeconds: questionSeconds,
			Progress:         fmt.Sprintf("%d of %d", i+1, count),
			Fact:             country.FunFact,
		})
	}

	return questions, nil
}
