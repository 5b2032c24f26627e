package service

import (
	"context"
	"fmt"
	"sort"

	"quizflare/internal/domain"
	"quizflare/internal/logger"

	"go.uber.org/zap"
)

// QuizKind filters quizzes by the question types they contain.
type QuizKind string

const (
	QuizKindAll         QuizKind = "All"
	QuizKindMCQ         QuizKind = "MCQ"
	QuizKindShortAnswer QuizKind = "Short Questions"
	QuizKindMixed       QuizKind = "Mixed"
)

// QuizSort orders the quiz listing.
type QuizSort string

const (
	SortNewest  QuizSort = "Newest First"
	SortOldest  QuizSort = "Oldest First"
	SortPopular QuizSort = "Most Popular"
)

// AllSubjects disables the subject filter.
const AllSubjects = "All"

// QuizFilter selects and orders the home listing. Zero values mean all
// subjects, all kinds, newest first.
type QuizFilter struct {
	Subject string
	Kind    QuizKind
	Sort    QuizSort
}

// QuizService serves the read side of the quiz catalogue and the leaderboard.
type QuizService interface {
	ListQuizzes(ctx context.Context, filter QuizFilter) ([]domain.Quiz, error)
	GetQuiz(ctx context.Context, id string) (*domain.Quiz, error)
	ListSubjects(ctx context.Context) ([]string, error)
	Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error)
}

type quizService struct {
	repo        domain.QuizRepository
	leaderboard domain.LeaderboardRepository
}

func NewQuizService(repo domain.QuizRepository, leaderboard domain.LeaderboardRepository) QuizService {
	return &quizService{repo: repo, leaderboard: leaderboard}
}

func (f QuizFilter) normalize() (QuizFilter, error) {
	if f.Subject == "" {
		f.Subject = AllSubjects
	}
	switch f.Kind {
	case "":
		f.Kind = QuizKindAll
	case QuizKindAll, QuizKindMCQ, QuizKindShortAnswer, QuizKindMixed:
	default:
		return f, domain.NewInvalidInputError(fmt.Sprintf("unknown quiz type filter %q", f.Kind))
	}
	switch f.Sort {
	case "":
		f.Sort = SortNewest
	case SortNewest, SortOldest, SortPopular:
	default:
		return f, domain.NewInvalidInputError(fmt.Sprintf("unknown sort order %q", f.Sort))
	}
	return f, nil
}

func (k QuizKind) matches(q *domain.Quiz) bool {
	hasMCQ, hasShort := q.HasMCQ(), q.HasShortAnswer()
	switch k {
	case QuizKindMCQ:
		return hasMCQ && !hasShort
	case QuizKindShortAnswer:
		return !hasMCQ && hasShort
	case QuizKindMixed:
		return hasMCQ && hasShort
	}
	return true
}

func (s *quizService) ListQuizzes(ctx context.Context, filter QuizFilter) ([]domain.Quiz, error) {
	filter, err := filter.normalize()
	if err != nil {
		return nil, err
	}

	quizzes, err := s.repo.ListQuizzes(ctx)
	if err != nil {
		logger.Get().Error("QuizService: failed to list quizzes", zap.Error(err))
		return nil, err
	}

	result := make([]domain.Quiz, 0, len(quizzes))
	for i := range quizzes {
		q := &quizzes[i]
		if filter.Subject != AllSubjects && q.Subject != filter.Subject {
			continue
		}
		if !filter.Kind.matches(q) {
			continue
		}
		result = append(result, *q)
	}

	switch filter.Sort {
	case SortOldest:
		sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt < result[j].CreatedAt })
	case SortPopular:
		sort.SliceStable(result, func(i, j int) bool { return result[i].ParticipationCount > result[j].ParticipationCount })
	default:
		sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt > result[j].CreatedAt })
	}
	return result, nil
}

func (s *quizService) GetQuiz(ctx context.Context, id string) (*domain.Quiz, error) {
	if id == "" {
		return nil, domain.NewInvalidInputError("quiz id is required")
	}
	return s.repo.GetQuizByID(ctx, id)
}

// ListSubjects returns the distinct subjects in storage order.
func (s *quizService) ListSubjects(ctx context.Context) ([]string, error) {
	quizzes, err := s.repo.ListQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(quizzes))
	subjects := make([]string, 0, len(quizzes))
	for _, q := range quizzes {
		if _, ok := seen[q.Subject]; ok {
			continue
		}
		seen[q.Subject] = struct{}{}
		subjects = append(subjects, q.Subject)
	}
	return subjects, nil
}

// Leaderboard ranks entries by accuracy, then score, both descending. Ties
// keep their append order.
func (s *quizService) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	entries, err := s.leaderboard.ListEntries(ctx)
	if err != nil {
		logger.Get().Error("QuizService: failed to list leaderboard", zap.Error(err))
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Accuracy != entries[j].Accuracy {
			return entries[i].Accuracy > entries[j].Accuracy
		}
		return entries[i].Score > entries[j].Score
	})
	return entries, nil
}
