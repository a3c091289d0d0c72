package app

import "cultural-quiz-service/internal/domain"

// Evaluation is the tri-state outcome recorded for the current question.
type Evaluation string

const (
	Unevaluated Evaluation = "unevaluated"
	Correct     Evaluation = "correct"
	Incorrect   Evaluation = "incorrect"
)

// Evaluate compares the selected option to the canonical answer. Matching is an
// exact, ordinal string comparison with no case or whitespace folding.
func Evaluate(question domain.Question, selected string) Evaluation {
	if selected == question.Answer {
		return Correct
	}
	return Incorrect
}
