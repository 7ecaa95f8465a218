package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ZYL1107/next-platform-starter/review-svc/internal/apperrors"
	"github.com/ZYL1107/next-platform-starter/review-svc/internal/domain"
	"github.com/ZYL1107/next-platform-starter/review-svc/internal/gate"
	"github.com/ZYL1107/next-platform-starter/review-svc/internal/metrics"
)

// DefaultReviewLimit applies when a caller passes a negative limit.
const DefaultReviewLimit = 50

const (
	msgBackendUnavailable = "reviews are not available in this environment; deploy with a durable backend enabled"
	msgSubmitFailed       = "failed to submit review, please try again later"
)

type SubmitReviewInput struct {
	GameID   string
	UserName string
	Rating   int
	Comment  string
}

// ReviewService stores and reads review records. It holds no state between
// calls; the content store is authoritative.
type ReviewService struct {
	store     ContentStore
	gate      gate.Gate
	publisher ReviewPublisher
	logger    zerolog.Logger
	metrics   *metrics.Metrics

	now   func() time.Time
	newID func() string
}

// NewReviewService wires the repository. publisher may be nil.
func NewReviewService(store ContentStore, availability gate.Gate, publisher ReviewPublisher, logger zerolog.Logger, m *metrics.Metrics) *ReviewService {
	return &ReviewService{
		store:     store,
		gate:      availability,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *ReviewService) SubmitReview(ctx context.Context, input SubmitReviewInput) (*domain.Review, error) {
	if err := validateSubmission(input); err != nil {
		s.metrics.Submission("validation")
		return nil, err
	}

	if !s.gate.IsAvailable() {
		s.metrics.Submission("unavailable")
		return nil, apperrors.BackendUnavailable(msgBackendUnavailable)
	}

	timestamp := s.now().UTC().Truncate(time.Millisecond)
	userID := s.newID()
	review := domain.Review{
		ID:        fmt.Sprintf("%d-%s", timestamp.UnixMilli(), s.newID()),
		GameID:    input.GameID,
		UserID:    userID,
		UserName:  input.UserName,
		Rating:    input.Rating,
		Comment:   input.Comment,
		Timestamp: timestamp,
		Likes:     0,
	}
	rating := domain.Rating{
		GameID:    input.GameID,
		UserID:    userID,
		Rating:    input.Rating,
		Timestamp: timestamp,
	}

	reviewKey := domain.ReviewKey(review.GameID, review.ID)
	if err := s.put(ctx, reviewKey, review); err != nil {
		s.storeFailure("submit_review", review.GameID, reviewKey, err)
		s.metrics.Submission("store")
		return nil, apperrors.Store(msgSubmitFailed, err)
	}

	// The review is already visible at this point; a failed rating write is
	// reported but the review is kept.
	ratingKey := domain.RatingKey(rating.GameID, rating.UserID)
	if err := s.put(ctx, ratingKey, rating); err != nil {
		s.storeFailure("submit_rating", rating.GameID, ratingKey, err)
		s.metrics.Submission("store")
		return nil, apperrors.Store(msgSubmitFailed, err)
	}

	s.publish(ctx, review)
	s.metrics.Submission("ok")
	s.logger.Info().
		Str("game_id", review.GameID).
		Str("review_id", review.ID).
		Int("rating", review.Rating).
		Msg("review submitted")

	return &review, nil
}

// GetGameReviews returns at most limit reviews of a game, newest first. The
// subset is whichever records the store enumerates first, not necessarily the
// newest ones. Store failures yield an empty slice.
func (s *ReviewService) GetGameReviews(ctx context.Context, gameID string, limit int) []domain.Review {
	if limit < 0 {
		limit = DefaultReviewLimit
	}
	reviews := []domain.Review{}
	if !s.gate.IsAvailable() || limit == 0 {
		return reviews
	}

	for key, err := range s.store.List(ctx, domain.ReviewPrefix(gameID)) {
		if err != nil {
			s.storeFailure("get_game_reviews", gameID, "", err)
			return []domain.Review{}
		}

		data, found, err := s.store.Get(ctx, key)
		if err != nil {
			s.storeFailure("get_game_reviews", gameID, key, err)
			return []domain.Review{}
		}
		if !found {
			continue
		}

		var review domain.Review
		if err := json.Unmarshal(data, &review); err != nil {
			s.logger.Debug().Err(err).Str("key", key).Msg("skipping undecodable review")
			continue
		}
		reviews = append(reviews, review)
		if len(reviews) >= limit {
			break
		}
	}

	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].Timestamp.After(reviews[j].Timestamp)
	})
	return reviews
}

func (s *ReviewService) HasUserRated(ctx context.Context, gameID, userID string) bool {
	if !s.gate.IsAvailable() {
		return false
	}

	key := domain.RatingKey(gameID, userID)
	_, found, err := s.store.Get(ctx, key)
	if err != nil {
		s.storeFailure("has_user_rated", gameID, key, err)
		return false
	}
	return found
}

func (s *ReviewService) put(ctx context.Context, key string, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.store.Set(ctx, key, data)
}

func (s *ReviewService) publish(ctx context.Context, review domain.Review) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishReview(ctx, domain.ReviewEvent{
		Type:      domain.EventReviewSubmitted,
		GameID:    review.GameID,
		ReviewID:  review.ID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Timestamp: review.Timestamp,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("review_id", review.ID).Msg("failed to publish review event")
	}
}

func (s *ReviewService) storeFailure(operation, gameID, key string, err error) {
	s.metrics.StoreError(operation)
	s.logger.Error().
		Err(err).
		Str("operation", operation).
		Str("game_id", gameID).
		Str("key", key).
		Msg("content store failure")
}
