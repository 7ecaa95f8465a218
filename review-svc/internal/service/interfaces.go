package service

import (
	"context"
	"iter"

	"github.com/ZYL1107/next-platform-starter/review-svc/internal/domain"
)

type ReviewServiceInterface interface {
	SubmitReview(ctx context.Context, input SubmitReviewInput) (*domain.Review, error)
	GetGameReviews(ctx context.Context, gameID string, limit int) []domain.Review
	HasUserRated(ctx context.Context, gameID, userID string) bool
}

type StatsServiceInterface interface {
	GetGameStats(ctx context.Context, gameID string) domain.GameStats
}

// ContentStore is the persistence primitive both services read and write.
type ContentStore interface {
	Set(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	List(ctx context.Context, prefix string) iter.Seq2[string, error]
}

type ReviewPublisher interface {
	PublishReview(ctx context.Context, event domain.ReviewEvent) error
}

// ReviewLister is the part of the review service the aggregator needs.
type ReviewLister interface {
	GetGameReviews(ctx context.Context, gameID string, limit int) []domain.Review
}

type ShareCodeGenerator interface {
	Generate(gameID string) ([]byte, error)
}

var (
	_ ReviewServiceInterface = (*ReviewService)(nil)
	_ StatsServiceInterface  = (*StatsService)(nil)
	_ ShareCodeGenerator     = DefaultShareCodeGenerator{}
)
