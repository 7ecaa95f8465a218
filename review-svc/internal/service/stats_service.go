package service

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/ZYL1107/next-platform-starter/review-svc/internal/domain"
	"github.com/ZYL1107/next-platform-starter/review-svc/internal/gate"
	"github.com/ZYL1107/next-platform-starter/review-svc/internal/metrics"
)

// StatsReviewLimit caps TotalReviews; TotalRatings has no cap.
const StatsReviewLimit = 1000

// StatsService recomputes rating statistics from a full prefix scan on every
// call. No counters are maintained.
type StatsService struct {
	store   ContentStore
	gate    gate.Gate
	reviews ReviewLister
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

func NewStatsService(store ContentStore, availability gate.Gate, reviews ReviewLister, logger zerolog.Logger, m *metrics.Metrics) *StatsService {
	return &StatsService{
		store:   store,
		gate:    availability,
		reviews: reviews,
		logger:  logger,
		metrics: m,
	}
}

func (s *StatsService) GetGameStats(ctx context.Context, gameID string) domain.GameStats {
	if !s.gate.IsAvailable() {
		return domain.EmptyStats()
	}

	distribution := domain.EmptyDistribution()
	sum, count := 0, 0

	for key, err := range s.store.List(ctx, domain.RatingPrefix(gameID)) {
		if err != nil {
			s.storeFailure(gameID, "", err)
			return domain.EmptyStats()
		}

		data, found, err := s.store.Get(ctx, key)
		if err != nil {
			s.storeFailure(gameID, key, err)
			return domain.EmptyStats()
		}
		if !found {
			continue
		}

		var rating domain.Rating
		if err := json.Unmarshal(data, &rating); err != nil {
			s.logger.Debug().Err(err).Str("key", key).Msg("skipping undecodable rating")
			continue
		}
		if rating.Rating < domain.MinRating || rating.Rating > domain.MaxRating {
			s.logger.Debug().Int("rating", rating.Rating).Str("key", key).Msg("skipping out of range rating")
			continue
		}

		distribution[rating.Rating]++
		sum += rating.Rating
		count++
	}

	stats := domain.GameStats{
		TotalRatings:       count,
		RatingDistribution: distribution,
	}
	if count > 0 {
		stats.AverageRating = meanToTenth(sum, count)
	}
	stats.TotalReviews = len(s.reviews.GetGameReviews(ctx, gameID, StatsReviewLimit))

	return stats
}

// meanToTenth rounds sum/count half up to one decimal in integer arithmetic,
// so exact halves such as 29/20 always round up.
func meanToTenth(sum, count int) float64 {
	tenths := (20*sum + count) / (2 * count)
	return float64(tenths) / 10
}

func (s *StatsService) storeFailure(gameID, key string, err error) {
	s.metrics.StoreError("get_game_stats")
	s.logger.Error().
		Err(err).
		Str("operation", "get_game_stats").
		Str("game_id", gameID).
		Str("key", key).
		Msg("content store failure")
}
