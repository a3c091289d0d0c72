package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"cultural-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches a country's question set from a backing store.
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, country string) ([]domain.Question, error)
}

// QuizRepository caches question sets in Redis and falls back to a loader on cache miss.
// Each set is stored as a JSON array: SET quiz:{country}:questions <json> EX <ttl>
type QuizRepository struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewQuizRepository(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuizRepository) GetQuestions(ctx context.Context, country string) ([]domain.Question, error) {
	key := r.questionsKey(country)

	if qs, ok := r.cached(ctx, key); ok {
		return qs, nil
	}

	result, err, _ := r.sf.Do(country, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if qs, ok := r.cached(ctx, key); ok {
			return qs, nil
		}

		qs, err := r.loader.LoadQuestions(ctx, country)
		if err != nil {
			return nil, err
		}

		raw, err := json.Marshal(qs)
		if err == nil {
			// best-effort fill; a cache write failure must not fail the read
			_ = r.client.Set(ctx, key, raw, r.ttlWithJitter()).Err()
		}
		return qs, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

// Invalidate drops the cached set for a country, e.g. after reseeding.
func (r *QuizRepository) Invalidate(ctx context.Context, country string) error {
	return r.client.Del(ctx, r.questionsKey(country)).Err()
}

func (r *QuizRepository) cached(ctx context.Context, key string) ([]domain.Question, bool) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil on a miss; any other error degrades to the loader
		return nil, false
	}
	var qs []domain.Question
	if err := json.Unmarshal(raw, &qs); err != nil {
		return nil, false
	}
	return qs, true
}

func (r *QuizRepository) questionsKey(country string) string {
	return "quiz:" + country + ":questions"
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
