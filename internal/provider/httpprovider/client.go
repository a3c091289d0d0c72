package httpprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cultural-quiz-service/internal/domain"
)

// Client fetches question sets from a remote quiz API: GET {baseURL}/api/quiz/{subject}.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New builds a client for baseURL. A non-positive timeout means 10s.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchQuestions implements app.QuestionProvider. Transport errors, non-2xx
// responses and undecodable bodies all wrap domain.ErrDataUnavailable; a body
// that decodes but breaks the answer-in-options contract wraps
// domain.ErrMalformedQuestion.
func (c *Client) FetchQuestions(ctx context.Context, subjectKey string) ([]domain.Question, error) {
	endpoint := c.baseURL + "/api/quiz/" + url.PathEscape(subjectKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrDataUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %s returned %d", domain.ErrDataUnavailable, endpoint, resp.StatusCode)
	}

	var questions []domain.Question
	if err := json.NewDecoder(resp.Body).Decode(&questions); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrDataUnavailable, err)
	}
	if err := domain.ValidateQuestions(questions); err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	return questions, nil
}
