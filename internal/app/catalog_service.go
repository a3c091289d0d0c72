package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cultural-quiz-service/internal/domain"
)

// CatalogRepository looks up countries and their etiquette guides.
type CatalogRepository interface {
	ListCountries(ctx context.Context) ([]domain.Country, error)
	// FindCountry matches the exact name first, then falls back to a case-insensitive match.
	FindCountry(ctx context.Context, name string) (domain.Country, error)
	GuideDetails(ctx context.Context, countryID int64) ([]domain.CulturalDetail, error)
}

// QuizRepository loads quiz question sets (from cache/backing store) by canonical country name.
type QuizRepository interface {
	GetQuestions(ctx context.Context, country string) ([]domain.Question, error)
}

var countryAliases = map[string]string{
	"usa":     "United States",
	"us":      "United States",
	"america": "United States",
	"uk":      "United Kingdom",
	"uae":     "United Arab Emirates",
}

// NormalizeCountryName trims the input and resolves common aliases. Casing is
// otherwise left alone; names like "Antigua and Barbuda" must not be title-cased.
func NormalizeCountryName(raw string) string {
	name := strings.TrimSpace(raw)
	if alias, ok := countryAliases[strings.ToLower(name)]; ok {
		return alias
	}
	return name
}

// CatalogService serves countries, guides and question sets. It is also the
// in-process QuestionProvider for server-side quiz sessions.
type CatalogService struct {
	catalog CatalogRepository
	quizzes QuizRepository
}

func NewCatalogService(catalog CatalogRepository, quizzes QuizRepository) *CatalogService {
	return &CatalogService{catalog: catalog, quizzes: quizzes}
}

func (s *CatalogService) Countries(ctx context.Context) ([]domain.Country, error) {
	return s.catalog.ListCountries(ctx)
}

// Guide returns the etiquette guide for a country or domain.ErrCountryNotFound.
func (s *CatalogService) Guide(ctx context.Context, name string) (domain.Guide, error) {
	country, err := s.catalog.FindCountry(ctx, NormalizeCountryName(name))
	if err != nil {
		return domain.Guide{}, err
	}
	details, err := s.catalog.GuideDetails(ctx, country.ID)
	if err != nil {
		return domain.Guide{}, fmt.Errorf("load guide for %s: %w", country.Name, err)
	}
	if details == nil {
		details = []domain.CulturalDetail{}
	}
	return domain.Guide{Country: country.Name, Language: country.Language, Details: details}, nil
}

// Questions returns the question set for a country. Unknown countries yield an
// empty set rather than an error.
func (s *CatalogService) Questions(ctx context.Context, name string) ([]domain.Question, error) {
	country, err := s.catalog.FindCountry(ctx, NormalizeCountryName(name))
	if errors.Is(err, domain.ErrCountryNotFound) {
		return []domain.Question{}, nil
	}
	if err != nil {
		return nil, err
	}
	questions, err := s.quizzes.GetQuestions(ctx, country.Name)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateQuestions(questions); err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	return questions, nil
}

// FetchQuestions implements QuestionProvider. Any lookup failure surfaces as
// domain.ErrDataUnavailable, except malformed data which keeps its own error.
func (s *CatalogService) FetchQuestions(ctx context.Context, subjectKey string) ([]domain.Question, error) {
	questions, err := s.Questions(ctx, subjectKey)
	if err == nil {
		return questions, nil
	}
	if errors.Is(err, domain.ErrMalformedQuestion) {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
}
