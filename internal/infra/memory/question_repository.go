package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"tebak-kode-bot/internal/domain"
)

// QuestionLoader fetches a question from a backing store (e.g., Postgres).
type QuestionLoader interface {
	LoadQuestion(ctx context.Context, number int) (domain.Question, error)
}

// QuestionRepository caches questions with TTL to avoid repeated DB hits.
type QuestionRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[int]cachedQuestion
}

type cachedQuestion struct {
	question  domain.Question
	expiresAt time.Time
}

func NewQuestionRepository(loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[int]cachedQuestion),
	}
}

func (r *QuestionRepository) GetQuestion(ctx context.Context, number int) (domain.Question, error) {
	if q, ok := r.cached(number); ok {
		return q, nil
	}

	result, err, _ := r.sf.Do(strconv.Itoa(number), func() (interface{}, error) {
		if q, ok := r.cached(number); ok {
			return q, nil
		}

		q, err := r.loader.LoadQuestion(ctx, number)
		if err != nil {
			return domain.Question{}, err
		}

		r.mu.Lock()
		r.cache[number] = cachedQuestion{
			question:  q,
			expiresAt: r.clock().Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return q, nil
	})
	if err != nil {
		return domain.Question{}, err
	}
	return result.(domain.Question), nil
}

func (r *QuestionRepository) IsAnswerCorrect(ctx context.Context, number int, answer string) (bool, error) {
	q, err := r.GetQuestion(ctx, number)
	if err != nil {
		return false, err
	}
	return q.IsCorrect(answer), nil
}

func (r *QuestionRepository) cached(number int) (domain.Question, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.cache[number]; ok && entry.expiresAt.After(now) {
		return entry.question, true
	}
	return domain.Question{}, false
}

// ttlWithJitter must be called with r.mu held; rand.Rand is not safe for concurrent use.
func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticQuestionLoader serves a fixed question set, e.g. the seed file when no
// database is configured.
type StaticQuestionLoader struct {
	questions map[int]domain.Question
}

func NewStaticQuestionLoader(questions map[int]domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{questions: questions}
}

func (l *StaticQuestionLoader) LoadQuestion(_ context.Context, number int) (domain.Question, error) {
	if q, ok := l.questions[number]; ok {
		return q, nil
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

func (l *StaticQuestionLoader) GetQuestion(ctx context.Context, number int) (domain.Question, error) {
	return l.LoadQuestion(ctx, number)
}

func (l *StaticQuestionLoader) IsAnswerCorrect(ctx context.Context, number int, answer string) (bool, error) {
	q, err := l.LoadQuestion(ctx, number)
	if err != nil {
		return false, err
	}
	return q.IsCorrect(answer), nil
}
