package postgres

import (
	"context"
	"fmt"

	"cultural-quiz-service/internal/infra/seed"
	"github.com/uptrace/bun"
)

type countryModel struct {
	bun.BaseModel `bun:"table:countries"`

	ID       int64  `bun:"id,pk,autoincrement"`
	Name     string `bun:"name,notnull"`
	Language string `bun:"language"`
	Region   string `bun:"region"`
}

type detailModel struct {
	bun.BaseModel `bun:"table:cultural_details"`

	ID          int64  `bun:"id,pk,autoincrement"`
	CountryID   int64  `bun:"country_id,notnull"`
	Category    string `bun:"category,notnull"`
	Topic       string `bun:"topic,notnull"`
	Description string `bun:"description,notnull"`
	IsStrict    bool   `bun:"is_strict,notnull"`
}

type questionModel struct {
	bun.BaseModel `bun:"table:quiz_questions"`

	ID        int64    `bun:"id,pk,autoincrement"`
	CountryID int64    `bun:"country_id,notnull"`
	Position  int      `bun:"position,notnull"`
	Question  string   `bun:"question,notnull"`
	Options   []string `bun:"options,array"`
	Answer    string   `bun:"answer,notnull"`
}

// Seeder upserts catalog entries. Reseeding a country replaces its guide and quiz.
type Seeder struct {
	db *bun.DB
}

func NewSeeder(db *bun.DB) *Seeder {
	return &Seeder{db: db}
}

// Seed writes all entries in one transaction and returns how many countries were written.
func (s *Seeder) Seed(ctx context.Context, entries []seed.Entry) (int, error) {
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, entry := range entries {
			if err := seedEntry(ctx, tx, entry); err != nil {
				return fmt.Errorf("seed %s: %w", entry.Country.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

func seedEntry(ctx context.Context, tx bun.Tx, entry seed.Entry) error {
	country := &countryModel{
		Name:     entry.Country.Name,
		Language: entry.Country.Language,
		Region:   entry.Country.Region,
	}
	if _, err := tx.NewInsert().
		Model(country).
		On("CONFLICT (name) DO UPDATE").
		Set("language = EXCLUDED.language").
		Set("region = EXCLUDED.region").
		Returning("id").
		Exec(ctx); err != nil {
		return err
	}

	if _, err := tx.NewDelete().Model((*detailModel)(nil)).Where("country_id = ?", country.ID).Exec(ctx); err != nil {
		return err
	}
	if _, err := tx.NewDelete().Model((*questionModel)(nil)).Where("country_id = ?", country.ID).Exec(ctx); err != nil {
		return err
	}

	if len(entry.Details) > 0 {
		details := make([]detailModel, 0, len(entry.Details))
		for _, d := range entry.Details {
			details = append(details, detailModel{
				CountryID:   country.ID,
				Category:    d.Category,
				Topic:       d.Topic,
				Description: d.Description,
				IsStrict:    d.IsStrict,
			})
		}
		if _, err := tx.NewInsert().Model(&details).Exec(ctx); err != nil {
			return err
		}
	}

	if len(entry.Questions) > 0 {
		questions := make([]questionModel, 0, len(entry.Questions))
		for i, q := range entry.Questions {
			questions = append(questions, questionModel{
				CountryID: country.ID,
				Position:  i,
				Question:  q.Prompt,
				Options:   q.Options,
				Answer:    q.Answer,
			})
		}
		if _, err := tx.NewInsert().Model(&questions).Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
