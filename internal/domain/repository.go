package domain

import "context"

// QuizRepository persists authored quizzes.
type QuizRepository interface {
	ListQuizzes(ctx context.Context) ([]Quiz, error)

	// GetQuizByID returns a QUIZ_NOT_FOUND DomainError for unknown ids.
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)

	// SaveQuiz inserts the quiz or replaces the stored quiz with the same id.
	SaveQuiz(ctx context.Context, quiz *Quiz) error

	// DeleteQuiz is a no-op for unknown ids.
	DeleteQuiz(ctx context.Context, id string) error

	// IncrementParticipation bumps the counter of an existing quiz and
	// ignores unknown ids.
	IncrementParticipation(ctx context.Context, id string) error
}

// LeaderboardRepository stores completed-session entries. It never edits or
// removes an entry.
type LeaderboardRepository interface {
	ListEntries(ctx context.Context) ([]LeaderboardEntry, error)
	AppendEntry(ctx context.Context, entry LeaderboardEntry) error
}

// IdentityRepository holds the device's creator identity.
type IdentityRepository interface {
	// GetCreatorID reports false when no identity has been created yet.
	GetCreatorID(ctx context.Context) (string, bool, error)

	// GetOrCreateCreatorID creates and stores an identity on first use.
	GetOrCreateCreatorID(ctx context.Context) (string, error)
}
