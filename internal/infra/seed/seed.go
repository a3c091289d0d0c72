package seed

import (
	_ "embed"
	"fmt"

	"cultural-quiz-service/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed dataset.yaml
var bundled []byte

type Detail struct {
	Category    string `yaml:"category"`
	Topic       string `yaml:"topic"`
	Description string `yaml:"description"`
	Strict      bool   `yaml:"strict"`
}

type Question struct {
	Question string   `yaml:"question"`
	Options  []string `yaml:"options"`
	Answer   string   `yaml:"answer"`
}

// Region carries the defaults for countries that have no content of their own.
type Region struct {
	Language string     `yaml:"language"`
	Details  []Detail   `yaml:"details"`
	Quiz     []Question `yaml:"quiz"`
}

type Country struct {
	Name     string     `yaml:"name"`
	Language string     `yaml:"language"`
	Region   string     `yaml:"region"`
	Details  []Detail   `yaml:"details"`
	Quiz     []Question `yaml:"quiz"`
}

type Dataset struct {
	Regions   map[string]Region `yaml:"regions"`
	Countries []Country         `yaml:"countries"`
}

// Entry is one country fully resolved against its region defaults.
type Entry struct {
	Country   domain.Country
	Details   []domain.CulturalDetail
	Questions []domain.Question
}

// Load parses the dataset bundled with the binary.
func Load() (Dataset, error) {
	return Parse(bundled)
}

// Parse decodes a YAML dataset and checks every question against the data contract.
func Parse(data []byte) (Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return Dataset{}, fmt.Errorf("parse seed dataset: %w", err)
	}
	for _, entry := range ds.Entries() {
		if err := domain.ValidateQuestions(entry.Questions); err != nil {
			return Dataset{}, fmt.Errorf("seed country %s: %w", entry.Country.Name, err)
		}
	}
	return ds, nil
}

// Entries resolves each country in file order. IDs are assigned from 1.
// A country without its own guide or quiz falls back to its region's.
func (d Dataset) Entries() []Entry {
	entries := make([]Entry, 0, len(d.Countries))
	for i, c := range d.Countries {
		region := d.Regions[c.Region]

		language := c.Language
		if language == "" {
			language = region.Language
		}
		details := c.Details
		if len(details) == 0 {
			details = region.Details
		}
		quiz := c.Quiz
		if len(quiz) == 0 {
			quiz = region.Quiz
		}

		entry := Entry{
			Country: domain.Country{
				ID:       int64(i + 1),
				Name:     c.Name,
				Language: language,
				Region:   c.Region,
			},
			Details:   make([]domain.CulturalDetail, 0, len(details)),
			Questions: make([]domain.Question, 0, len(quiz)),
		}
		for _, det := range details {
			entry.Details = append(entry.Details, domain.CulturalDetail{
				Category:    det.Category,
				Topic:       det.Topic,
				Description: det.Description,
				IsStrict:    det.Strict,
			})
		}
		for _, q := range quiz {
			entry.Questions = append(entry.Questions, domain.Question{
				Prompt:  q.Question,
				Options: append([]string(nil), q.Options...),
				Answer:  q.Answer,
			})
		}
		entries = append(entries, entry)
	}
	return entries
}
