package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"quizflare/internal/domain"
	"quizflare/internal/util"
	"sync"
	"time"
)

// Storage keys. Each holds one JSON document.
const (
	QuizzesKey     = "quizflare_quizzes"
	LeaderboardKey = "quizflare_leaderboard"
	GuestIDKey     = "quizflare_guestId"
)

// KVRepository is the persistence gateway: quizzes, leaderboard entries and
// the creator identity, each stored as a whole document under a fixed key.
// Read-modify-write cycles are serialized within the process; across
// processes the last write wins.
type KVRepository struct {
	store domain.KeyValueStore
	mu    sync.Mutex
	now   func() time.Time
}

func NewKVRepository(store domain.KeyValueStore) *KVRepository {
	return &KVRepository{store: store, now: time.Now}
}

var (
	_ domain.QuizRepository        = (*KVRepository)(nil)
	_ domain.LeaderboardRepository = (*KVRepository)(nil)
	_ domain.IdentityRepository    = (*KVRepository)(nil)
)

func readList[T any](ctx context.Context, store domain.KeyValueStore, key string) ([]T, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, domain.NewInternalError(fmt.Sprintf("failed to read %s", key), err)
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, domain.NewInternalError(fmt.Sprintf("corrupt document under %s", key), err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func writeList[T any](ctx context.Context, store domain.KeyValueStore, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return domain.NewInternalError(fmt.Sprintf("failed to encode %s", key), err)
	}
	if err := store.Put(ctx, key, string(data)); err != nil {
		return domain.NewInternalError(fmt.Sprintf("failed to write %s", key), err)
	}
	return nil
}

func (r *KVRepository) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	return readList[domain.Quiz](ctx, r.store, QuizzesKey)
}

func (r *KVRepository) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	quizzes, err := r.ListQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range quizzes {
		if quizzes[i].ID == id {
			return &quizzes[i], nil
		}
	}
	return nil, domain.NewQuizNotFoundError(id)
}

func (r *KVRepository) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveQuizLocked(ctx, quiz)
}

func (r *KVRepository) saveQuizLocked(ctx context.Context, quiz *domain.Quiz) error {
	quizzes, err := r.ListQuizzes(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range quizzes {
		if quizzes[i].ID == quiz.ID {
			quizzes[i] = *quiz
			replaced = true
			break
		}
	}
	if !replaced {
		quizzes = append(quizzes, *quiz)
	}
	return writeList(ctx, r.store, QuizzesKey, quizzes)
}

func (r *KVRepository) DeleteQuiz(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	quizzes, err := r.ListQuizzes(ctx)
	if err != nil {
		return err
	}
	kept := quizzes[:0]
	for _, q := range quizzes {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	return writeList(ctx, r.store, QuizzesKey, kept)
}

func (r *KVRepository) IncrementParticipation(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	quiz, err := r.GetQuizByID(ctx, id)
	if err != nil {
		if errors.Is(err, &domain.DomainError{Code: domain.CodeQuizNotFound}) {
			return nil
		}
		return err
	}
	quiz.ParticipationCount++
	return r.saveQuizLocked(ctx, quiz)
}

func (r *KVRepository) ListEntries(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	return readList[domain.LeaderboardEntry](ctx, r.store, LeaderboardKey)
}

func (r *KVRepository) AppendEntry(ctx context.Context, entry domain.LeaderboardEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.ListEntries(ctx)
	if err != nil {
		return err
	}
	return writeList(ctx, r.store, LeaderboardKey, append(entries, entry))
}

func (r *KVRepository) GetCreatorID(ctx context.Context) (string, bool, error) {
	id, err := r.store.Get(ctx, GuestIDKey)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, domain.NewInternalError("failed to read creator identity", err)
	}
	return id, id != "", nil
}

func (r *KVRepository) GetOrCreateCreatorID(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok, err := r.GetCreatorID(ctx)
	if err != nil {
		return "", err
	}
	if ok {
		return id, nil
	}
	id = util.NewGuestID(r.now())
	if err := r.store.Put(ctx, GuestIDKey, id); err != nil {
		return "", domain.NewInternalError("failed to store creator identity", err)
	}
	return id, nil
}
