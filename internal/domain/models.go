package domain

import "fmt"

// Country is a catalog entry that guides and quizzes hang off.
type Country struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language,omitempty"`
	Region   string `json:"-"`
}

// CulturalDetail is one etiquette rule in a country guide.
type CulturalDetail struct {
	Category    string `json:"category"`
	Topic       string `json:"topic"`
	Description string `json:"description"`
	IsStrict    bool   `json:"is_strict"`
}

// Guide is the etiquette guide served for a single country.
type Guide struct {
	Country  string           `json:"country"`
	Language string           `json:"language"`
	Details  []CulturalDetail `json:"details"`
}

// Question models a multiple-choice question whose answer is matched by option text.
type Question struct {
	ID      int64    `json:"id,omitempty"`
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

// Validate enforces the data contract: at least two options and an answer that is one of them.
func (q Question) Validate() error {
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: %q has %d options", ErrMalformedQuestion, q.Prompt, len(q.Options))
	}
	for _, opt := range q.Options {
		if opt == q.Answer {
			return nil
		}
	}
	return fmt.Errorf("%w: answer of %q is not among its options", ErrMalformedQuestion, q.Prompt)
}

// ValidateQuestions stops at the first malformed question.
func ValidateQuestions(questions []Question) error {
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return err
		}
	}
	return nil
}
