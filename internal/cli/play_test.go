package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"cultural-quiz-service/internal/app"
	"cultural-quiz-service/internal/domain"
)

type scriptedProvider struct {
	questions []domain.Question
}

func (p scriptedProvider) FetchQuestions(ctx context.Context, subjectKey string) ([]domain.Question, error) {
	return p.questions, nil
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitForOutput(t *testing.T, out *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(out.String(), want) {
		if time.Now().After(deadline) {
			t.Fatalf("output never contained %q; got:\n%s", want, out.String())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPlayQuizRoundTrip(t *testing.T) {
	provider := scriptedProvider{questions: []domain.Question{
		{Prompt: "Greeting word?", Options: []string{"Hi", "Bonjour", "Konnichiwa"}, Answer: "Konnichiwa"},
		{Prompt: "Tip in Tokyo?", Options: []string{"Yes", "No"}, Answer: "No"},
	}}
	session := app.NewSession("cli", provider, app.WithAdvanceDelay(0))

	in, feed := io.Pipe()
	defer feed.Close()
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() { done <- playQuiz(context.Background(), session, "Japan", in, out) }()

	waitForOutput(t, out, "Question 1/2: Greeting word?")
	waitForOutput(t, out, "3) Konnichiwa")

	_, _ = io.WriteString(feed, "7\n")
	waitForOutput(t, out, "Pick a number between 1 and 3.")

	_, _ = io.WriteString(feed, "3\n")
	waitForOutput(t, out, "Correct!")
	waitForOutput(t, out, "Question 2/2: Tip in Tokyo?")

	_, _ = io.WriteString(feed, "1\n")
	waitForOutput(t, out, "Incorrect. The answer was No.")
	waitForOutput(t, out, "You scored 1/2.")

	_, _ = io.WriteString(feed, "q\n")
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("play returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("play did not return after quit")
	}
	if session.Status() != app.StatusExited {
		t.Fatalf("expected exited session, got %s", session.Status())
	}
}

func TestPlayQuizNoData(t *testing.T) {
	session := app.NewSession("cli", scriptedProvider{})
	in, feed := io.Pipe()
	defer feed.Close()
	out := &syncBuffer{}

	if err := playQuiz(context.Background(), session, "Atlantis", in, out); err != nil {
		t.Fatalf("play returned %v", err)
	}
	if !strings.Contains(out.String(), "No quiz available for Atlantis.") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestForwardLinesStopsWhenNobodyListens(t *testing.T) {
	out := make(chan string)
	done := make(chan struct{})
	close(done)

	finished := make(chan struct{})
	go func() {
		forwardLines(strings.NewReader("1\n2\nq\n"), out, done)
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatalf("reader stayed blocked after the quiz ended")
	}
}

func TestPlayQuizNoDataWithPendingInput(t *testing.T) {
	session := app.NewSession("cli", scriptedProvider{})
	out := &syncBuffer{}

	finished := make(chan error, 1)
	go func() {
		finished <- playQuiz(context.Background(), session, "Atlantis", strings.NewReader("1\n2\n3\n"), out)
	}()
	select {
	case err := <-finished:
		if err != nil {
			t.Fatalf("play returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("play did not return")
	}
}
