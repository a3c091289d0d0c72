package postgres

import (
	"context"
	"errors"
	"fmt"

	"cultural-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// CatalogLoader reads countries, guides and quiz questions from Postgres.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) ListCountries(ctx context.Context) ([]domain.Country, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, name, COALESCE(language, ''), COALESCE(region, '') FROM countries ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	defer rows.Close()

	countries := []domain.Country{}
	for rows.Next() {
		var c domain.Country
		if err := rows.Scan(&c.ID, &c.Name, &c.Language, &c.Region); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		countries = append(countries, c)
	}
	return countries, rows.Err()
}

// FindCountry tries an exact name match, then a case-insensitive one.
func (l *CatalogLoader) FindCountry(ctx context.Context, name string) (domain.Country, error) {
	const base = `SELECT id, name, COALESCE(language, ''), COALESCE(region, '') FROM countries `
	queries := []string{
		base + `WHERE name = $1`,
		base + `WHERE lower(name) = lower($1) ORDER BY id LIMIT 1`,
	}
	for _, q := range queries {
		var c domain.Country
		err := l.pool.QueryRow(ctx, q, name).Scan(&c.ID, &c.Name, &c.Language, &c.Region)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return domain.Country{}, fmt.Errorf("find country: %w", err)
		}
	}
	return domain.Country{}, domain.ErrCountryNotFound
}

func (l *CatalogLoader) GuideDetails(ctx context.Context, countryID int64) ([]domain.CulturalDetail, error) {
	rows, err := l.pool.Query(ctx, `SELECT category, topic, description, is_strict FROM cultural_details WHERE country_id = $1 ORDER BY id`, countryID)
	if err != nil {
		return nil, fmt.Errorf("load guide: %w", err)
	}
	defer rows.Close()

	details := []domain.CulturalDetail{}
	for rows.Next() {
		var d domain.CulturalDetail
		if err := rows.Scan(&d.Category, &d.Topic, &d.Description, &d.IsStrict); err != nil {
			return nil, fmt.Errorf("scan detail: %w", err)
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// LoadQuestions returns the ordered question set for a country by its canonical name.
func (l *CatalogLoader) LoadQuestions(ctx context.Context, country string) ([]domain.Question, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT q.id, q.question, q.options, q.answer
		FROM quiz_questions q
		JOIN countries c ON c.id = q.country_id
		WHERE c.name = $1
		ORDER BY q.position, q.id`, country)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	questions := []domain.Question{}
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.Prompt, &q.Options, &q.Answer); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
