package app

// Score is the running tally of correct answers in one attempt.
// It only moves up by one; a restart replaces it with a fresh zero value.
type Score struct {
	total int
}

func (s *Score) Increment() {
	s.total++
}

func (s *Score) Total() int {
	return s.total
}
