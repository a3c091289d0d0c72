package memory

import (
	"context"
	"strings"

	"cultural-quiz-service/internal/domain"
	"cultural-quiz-service/internal/infra/seed"
)

// StaticCatalog is a read-only catalog backed by in-memory seed entries (useful for tests/demos).
// It serves both as an app.CatalogRepository and as a QuestionLoader.
type StaticCatalog struct {
	entries []seed.Entry
	byName  map[string]int
	byID    map[int64]int
}

func NewStaticCatalog(entries []seed.Entry) *StaticCatalog {
	c := &StaticCatalog{
		entries: entries,
		byName:  make(map[string]int, len(entries)),
		byID:    make(map[int64]int, len(entries)),
	}
	for i, e := range entries {
		c.byName[e.Country.Name] = i
		c.byID[e.Country.ID] = i
	}
	return c
}

func (c *StaticCatalog) ListCountries(_ context.Context) ([]domain.Country, error) {
	out := make([]domain.Country, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.Country)
	}
	return out, nil
}

func (c *StaticCatalog) FindCountry(_ context.Context, name string) (domain.Country, error) {
	if i, ok := c.byName[name]; ok {
		return c.entries[i].Country, nil
	}
	for _, e := range c.entries {
		if strings.EqualFold(e.Country.Name, name) {
			return e.Country, nil
		}
	}
	return domain.Country{}, domain.ErrCountryNotFound
}

func (c *StaticCatalog) GuideDetails(_ context.Context, countryID int64) ([]domain.CulturalDetail, error) {
	i, ok := c.byID[countryID]
	if !ok {
		return nil, domain.ErrCountryNotFound
	}
	return append([]domain.CulturalDetail(nil), c.entries[i].Details...), nil
}

func (c *StaticCatalog) LoadQuestions(_ context.Context, country string) ([]domain.Question, error) {
	i, ok := c.byName[country]
	if !ok {
		return nil, domain.ErrCountryNotFound
	}
	return cloneQuestions(c.entries[i].Questions), nil
}

func cloneQuestions(in []domain.Question) []domain.Question {
	out := make([]domain.Question, len(in))
	for i, q := range in {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}
