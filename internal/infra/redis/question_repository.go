package redis

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"tebak-kode-bot/internal/domain"
)

// QuestionLoader fetches a question from a backing store (e.g., Postgres).
type QuestionLoader interface {
	LoadQuestion(ctx context.Context, number int) (domain.Question, error)
}

// QuestionRepository caches questions in Redis (hash per question) and falls back
// to a loader on cache miss. Questions are stored as:
// HSET quiz:question:{number} text .. image .. option_a .. option_d .. answer ..
type QuestionRepository struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) GetQuestion(ctx context.Context, number int) (domain.Question, error) {
	key := questionKey(number)

	fields, err := r.client.HGetAll(ctx, key).Result()
	if err == nil && len(fields) > 0 {
		return questionFromHash(number, fields), nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		fields, err := r.client.HGetAll(ctx, key).Result()
		if err == nil && len(fields) > 0 {
			return questionFromHash(number, fields), nil
		}

		q, err := r.loader.LoadQuestion(ctx, number)
		if err != nil {
			return domain.Question{}, err
		}

		pipe := r.client.Pipeline()
		pipe.HSet(ctx, key, questionHash(q))
		if ttl := r.ttlWithJitter(); ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		_, _ = pipe.Exec(ctx)

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

func questionKey(number int) string {
	return "quiz:question:" + strconv.Itoa(number)
}

func questionHash(q domain.Question) map[string]interface{} {
	return map[string]interface{}{
		"text":     q.Text,
		"image":    q.Image,
		"option_a": q.OptionA,
		"option_b": q.OptionB,
		"option_c": q.OptionC,
		"option_d": q.OptionD,
		"answer":   q.Answer,
	}
}

func questionFromHash(number int, fields map[string]string) domain.Question {
	return domain.Question{
		Number:  number,
		Text:    fields["text"],
		Image:   fields["image"],
		OptionA: fields["option_a"],
		OptionB: fields["option_b"],
		OptionC: fields["option_c"],
		OptionD: fields["option_d"],
		Answer:  fields["answer"],
	}
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
