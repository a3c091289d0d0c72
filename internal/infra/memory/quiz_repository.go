package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"cultural-quiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches a country's question set from a backing store.
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, country string) ([]domain.Question, error)
}

// QuizRepository caches question sets with TTL to avoid repeated DB hits.
type QuizRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedQuestions
}

type cachedQuestions struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuizRepository(loader QuestionLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuestions),
	}
}

// GetQuestions returns a copy of the cached set so callers can never mutate the cache.
func (r *QuizRepository) GetQuestions(ctx context.Context, country string) ([]domain.Question, error) {
	if qs, ok := r.lookup(country); ok {
		return cloneQuestions(qs), nil
	}

	result, err, _ := r.sf.Do(country, func() (interface{}, error) {
		if qs, ok := r.lookup(country); ok {
			return qs, nil
		}

		qs, err := r.loader.LoadQuestions(ctx, country)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[country] = cachedQuestions{
			questions: qs,
			expiresAt: r.clock().Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return qs, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneQuestions(result.([]domain.Question)), nil
}

func (r *QuizRepository) lookup(country string) ([]domain.Question, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[country]
	if !ok || !entry.expiresAt.After(now) {
		return nil, false
	}
	return entry.questions, true
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
