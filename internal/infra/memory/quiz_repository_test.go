package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"cultural-quiz-service/internal/domain"
	"cultural-quiz-service/internal/infra/seed"
)

func TestQuizRepositoryCaches(t *testing.T) {
	loader := &countingLoader{QuestionLoader: NewStaticCatalog(sampleEntries())}
	repo := NewQuizRepository(loader, time.Minute)

	if _, err := repo.GetQuestions(context.Background(), "Japan"); err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	qs, err := repo.GetQuestions(context.Background(), "Japan")
	if err != nil {
		t.Fatalf("get questions 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}

	// Mutating the returned copy must not leak into the cache.
	qs[0].Options[0] = "tampered"
	again, _ := repo.GetQuestions(context.Background(), "Japan")
	if again[0].Options[0] != "Hi" {
		t.Fatalf("cache was mutated through returned slice: %v", again[0].Options)
	}
}

func TestQuizRepositoryExpires(t *testing.T) {
	loader := &countingLoader{QuestionLoader: NewStaticCatalog(sampleEntries())}
	repo := NewQuizRepository(loader, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetQuestions(context.Background(), "Japan")
	now = now.Add(2 * time.Minute)
	_, _ = repo.GetQuestions(context.Background(), "Japan")
	if loader.calls != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.calls)
	}
}

func TestQuizRepositoryPropagatesLoaderError(t *testing.T) {
	repo := NewQuizRepository(NewStaticCatalog(sampleEntries()), time.Minute)
	if _, err := repo.GetQuestions(context.Background(), "Atlantis"); !errors.Is(err, domain.ErrCountryNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

type countingLoader struct {
	QuestionLoader
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context, country string) ([]domain.Question, error) {
	l.calls++
	return l.QuestionLoader.LoadQuestions(ctx, country)
}

func sampleEntries() []seed.Entry {
	return []seed.Entry{
		{
			Country: domain.Country{ID: 1, Name: "Japan", Language: "Japanese"},
			Details: []domain.CulturalDetail{
				{Category: "GREETING", Topic: "Bowing", Description: "Bow to greet.", IsStrict: true},
			},
			Questions: []domain.Question{
				{Prompt: "Greeting word?", Options: []string{"Hi", "Bonjour", "Konnichiwa"}, Answer: "Konnichiwa"},
			},
		},
		{
			Country: domain.Country{ID: 2, Name: "Antigua and Barbuda", Language: "English"},
		},
	}
}
