package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cultural-quiz-service/internal/app"
	"cultural-quiz-service/internal/config"
	"cultural-quiz-service/internal/provider/httpprovider"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewPlayCmd runs a quiz in the terminal against a remote quiz API.
func NewPlayCmd(configPath *string) *cobra.Command {
	var server string
	cmd := &cobra.Command{
		Use:   "play <country>",
		Short: "Take a country quiz in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			baseURL := server
			if baseURL == "" {
				baseURL = cfg.Provider.BaseURL
			}
			if baseURL == "" {
				baseURL = "http://localhost:8080"
			}
			provider := httpprovider.New(baseURL, config.TTLDuration(cfg.Provider.Timeout, 0))
			session := app.NewSession(uuid.NewString(), provider,
				app.WithAdvanceDelay(cfg.AdvanceDelay()),
				app.WithLogger(log),
			)
			return playQuiz(cmd.Context(), session, args[0], cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "quiz API base URL (overrides provider.base_url)")
	return cmd
}

// playQuiz renders session snapshots to out and feeds lines from in back as
// commands: an option number, r to restart, q to quit.
func playQuiz(ctx context.Context, session *app.Session, country string, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	updates, cancel := session.Subscribe()
	defer cancel()
	defer session.Exit()

	go func() {
		_ = session.Start(ctx, country)
	}()

	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(lines)
		forwardLines(in, lines, done)
	}()

	var current app.Snapshot
	lastView := ""
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap, ok := <-updates:
			if !ok {
				return nil
			}
			current = snap
			if view := viewKey(snap); view != lastView {
				lastView = view
				render(out, snap)
			}
			if snap.Status == app.StatusNoData {
				return nil
			}
		case line, ok := <-lines:
			if !ok || line == "q" {
				fmt.Fprintln(out, "Bye!")
				return nil
			}
			handleInput(out, session, current, line)
		}
	}
}

// forwardLines sends trimmed lines from in to out until in is exhausted or
// done is closed.
func forwardLines(in io.Reader, out chan<- string, done <-chan struct{}) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case out <- strings.TrimSpace(scanner.Text()):
		case <-done:
			return
		}
	}
}

func handleInput(out io.Writer, session *app.Session, snap app.Snapshot, line string) {
	switch {
	case line == "r":
		if !session.Restart() {
			fmt.Fprintln(out, "Nothing to restart yet.")
		}
	case snap.Status == app.StatusActive && snap.Question != nil && !snap.HasSelection:
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(snap.Question.Options) {
			fmt.Fprintf(out, "Pick a number between 1 and %d.\n", len(snap.Question.Options))
			return
		}
		session.SelectOption(snap.Question.Options[n-1])
	}
}

func viewKey(snap app.Snapshot) string {
	return fmt.Sprintf("%s/%d/%t", snap.Status, snap.CurrentIndex, snap.HasSelection)
}

func render(out io.Writer, snap app.Snapshot) {
	switch snap.Status {
	case app.StatusLoading:
		fmt.Fprintf(out, "Loading quiz for %s...\n", snap.SubjectKey)
	case app.StatusNoData:
		fmt.Fprintf(out, "No quiz available for %s.\n", snap.SubjectKey)
	case app.StatusActive:
		if snap.HasSelection {
			if snap.Evaluation == app.Correct {
				fmt.Fprintln(out, "Correct!")
			} else {
				fmt.Fprintf(out, "Incorrect. The answer was %s.\n", snap.CorrectAnswer)
			}
			return
		}
		fmt.Fprintf(out, "\nQuestion %d/%d: %s\n", snap.CurrentIndex+1, snap.Total, snap.Question.Prompt)
		for i, option := range snap.Question.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, option)
		}
	case app.StatusComplete:
		fmt.Fprintf(out, "\nQuiz complete! You scored %d/%d.\n", snap.Score, snap.Total)
		fmt.Fprintln(out, "Type r to try again or q to quit.")
	}
}
