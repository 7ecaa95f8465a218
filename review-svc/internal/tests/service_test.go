package tests

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ZYL1107/next-platform-starter/review-svc/internal/apperrors"
	"github.com/ZYL1107/next-platform-starter/review-svc/internal/domain"
	"github.com/ZYL1107/next-platform-starter/review-svc/internal/gate"
	"github.com/ZYL1107/next-platform-starter/review-svc/internal/metrics"
	"github.com/ZYL1107/next-platform-starter/review-svc/internal/mocks"
	"github.com/ZYL1107/next-platform-starter/review-svc/internal/service"
	"github.com/ZYL1107/next-platform-starter/review-svc/internal/storage"
)

func keySeq(keys ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, key := range keys {
			if !yield(key, nil) {
				return
			}
		}
	}
}

func failingSeq(err error) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		yield("", err)
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func validInput() service.SubmitReviewInput {
	return service.SubmitReviewInput{
		GameID:   "snake",
		UserName: "ana",
		Rating:   4,
		Comment:  "solid game",
	}
}

func TestReviewService_SubmitReview_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *service.SubmitReviewInput)
		message string
	}{
		{
			name:    "missing_game_id",
			mutate:  func(in *service.SubmitReviewInput) { in.GameID = "" },
			message: "gameId, userName, rating and comment are all required",
		},
		{
			name:    "blank_user_name",
			mutate:  func(in *service.SubmitReviewInput) { in.UserName = "   " },
			message: "gameId, userName, rating and comment are all required",
		},
		{
			name:    "zero_rating",
			mutate:  func(in *service.SubmitReviewInput) { in.Rating = 0 },
			message: "gameId, userName, rating and comment are all required",
		},
		{
			name:    "missing_comment",
			mutate:  func(in *service.SubmitReviewInput) { in.Comment = "" },
			message: "gameId, userName, rating and comment are all required",
		},
		{
			name:    "rating_above_range",
			mutate:  func(in *service.SubmitReviewInput) { in.Rating = 6 },
			message: "rating must be between 1 and 5",
		},
		{
			name:    "negative_rating",
			mutate:  func(in *service.SubmitReviewInput) { in.Rating = -1 },
			message: "rating must be between 1 and 5",
		},
		{
			name:    "comment_too_short",
			mutate:  func(in *service.SubmitReviewInput) { in.Comment = "good" },
			message: "comment must be between 5 and 500 characters",
		},
		{
			name:    "comment_too_long",
			mutate:  func(in *service.SubmitReviewInput) { in.Comment = strings.Repeat("a", 501) },
			message: "comment must be between 5 and 500 characters",
		},
		{
			name:    "user_name_too_long",
			mutate:  func(in *service.SubmitReviewInput) { in.UserName = strings.Repeat("n", 21) },
			message: "userName must be at most 20 characters",
		},
		{
			name: "rating_checked_before_comment",
			mutate: func(in *service.SubmitReviewInput) {
				in.Rating = 9
				in.Comment = "bad"
			},
			message: "rating must be between 1 and 5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewContentStore(t)
			m := metrics.New()
			svc := service.NewReviewService(store, gate.Static(true), nil, zerolog.Nop(), m)

			input := validInput()
			tt.mutate(&input)

			review, err := svc.SubmitReview(context.Background(), input)
			assert.Nil(t, review)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Equal(t, tt.message, apperrors.PublicMessage(err))
			store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestReviewService_SubmitReview_LengthsCountCodePoints(t *testing.T) {
	store := mocks.NewContentStore(t)
	svc := service.NewReviewService(store, gate.Static(true), nil, zerolog.Nop(), nil)

	store.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()

	input := validInput()
	input.Comment = strings.Repeat("é", 500)
	input.UserName = strings.Repeat("ü", 20)

	review, err := svc.SubmitReview(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, input.Comment, review.Comment)
}

func TestReviewService_SubmitReview_ValidationBeforeGate(t *testing.T) {
	store := mocks.NewContentStore(t)
	svc := service.NewReviewService(store, gate.Static(false), nil, zerolog.Nop(), nil)

	input := validInput()
	input.Rating = 7

	_, err := svc.SubmitReview(context.Background(), input)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestReviewService_SubmitReview_GateClosed(t *testing.T) {
	store := mocks.NewContentStore(t)
	publisher := mocks.NewReviewPublisher(t)
	svc := service.NewReviewService(store, gate.Static(false), publisher, zerolog.Nop(), nil)

	review, err := svc.SubmitReview(context.Background(), validInput())
	assert.Nil(t, review)
	assert.ErrorIs(t, err, apperrors.ErrBackendUnavailable)
	assert.Equal(t, apperrors.KindBackendUnavailable, apperrors.KindOf(err))
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "PublishReview", mock.Anything, mock.Anything)
}

func TestReviewService_SubmitReview_Success(t *testing.T) {
	store := mocks.NewContentStore(t)
	publisher := mocks.NewReviewPublisher(t)
	svc := service.NewReviewService(store, gate.Static(true), publisher, zerolog.Nop(), nil)

	var reviewKey, ratingKey string
	var storedReview domain.Review
	var storedRating domain.Rating

	store.On("Set", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "reviews:snake:")
	}), mock.Anything).Run(func(args mock.Arguments) {
		reviewKey = args.String(1)
		require.NoError(t, json.Unmarshal(args.Get(2).([]byte), &storedReview))
	}).Return(nil).Once()
	store.On("Set", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "ratings:snake:")
	}), mock.Anything).Run(func(args mock.Arguments) {
		ratingKey = args.String(1)
		require.NoError(t, json.Unmarshal(args.Get(2).([]byte), &storedRating))
	}).Return(nil).Once()
	publisher.On("PublishReview", mock.Anything, mock.MatchedBy(func(event domain.ReviewEvent) bool {
		return event.Type == domain.EventReviewSubmitted && event.GameID == "snake" && event.Rating == 4
	})).Return(nil).Once()

	before := time.Now().Add(-time.Second)
	review, err := svc.SubmitReview(context.Background(), validInput())
	require.NoError(t, err)
	require.NotNil(t, review)

	assert.Equal(t, "snake", review.GameID)
	assert.Equal(t, "ana", review.UserName)
	assert.Equal(t, 4, review.Rating)
	assert.Equal(t, "solid game", review.Comment)
	assert.Equal(t, 0, review.Likes)
	assert.NotEmpty(t, review.UserID)
	assert.True(t, review.Timestamp.After(before))
	assert.True(t, strings.HasPrefix(review.ID, fmt.Sprintf("%d-", review.Timestamp.UnixMilli())))

	assert.Equal(t, domain.ReviewKey("snake", review.ID), reviewKey)
	assert.Equal(t, domain.RatingKey("snake", review.UserID), ratingKey)
	assert.Equal(t, *review, storedReview)
	assert.Equal(t, domain.Rating{
		GameID:    "snake",
		UserID:    review.UserID,
		Rating:    4,
		Timestamp: review.Timestamp,
	}, storedRating)
}

func TestReviewService_SubmitReview_FreshIdentityPerCall(t *testing.T) {
	store := mocks.NewContentStore(t)
	svc := service.NewReviewService(store, gate.Static(true), nil, zerolog.Nop(), nil)

	store.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil).Times(4)

	first, err := svc.SubmitReview(context.Background(), validInput())
	require.NoError(t, err)
	second, err := svc.SubmitReview(context.Background(), validInput())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.UserID, second.UserID)
}

func TestReviewService_SubmitReview_ReviewWriteFails(t *testing.T) {
	store := mocks.NewContentStore(t)
	publisher := mocks.NewReviewPublisher(t)
	m := metrics.New()
	svc := service.NewReviewService(store, gate.Static(true), publisher, zerolog.Nop(), m)

	store.On("Set", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "reviews:")
	}), mock.Anything).Return(storage.ErrIO).Once()

	review, err := svc.SubmitReview(context.Background(), validInput())
	assert.Nil(t, review)
	assert.ErrorIs(t, err, apperrors.ErrStore)
	assert.ErrorIs(t, err, storage.ErrIO)
	assert.Equal(t, "failed to submit review, please try again later", apperrors.PublicMessage(err))
	store.AssertNumberOfCalls(t, "Set", 1)
	publisher.AssertNotCalled(t, "PublishReview", mock.Anything, mock.Anything)
}

func TestReviewService_SubmitReview_RatingWriteFails(t *testing.T) {
	store := mocks.NewContentStore(t)
	svc := service.NewReviewService(store, gate.Static(true), nil, zerolog.Nop(), nil)

	store.On("Set", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "reviews:")
	}), mock.Anything).Return(nil).Once()
	store.On("Set", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "ratings:")
	}), mock.Anything).Return(storage.ErrUnavailable).Once()

	review, err := svc.SubmitReview(context.Background(), validInput())
	assert.Nil(t, review)
	assert.ErrorIs(t, err, apperrors.ErrStore)
}

func TestReviewService_SubmitReview_PublishErrorIgnored(t *testing.T) {
	store := mocks.NewContentStore(t)
	publisher := mocks.NewReviewPublisher(t)
	svc := service.NewReviewService(store, gate.Static(true), publisher, zerolog.Nop(), nil)

	store.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()
	publisher.On("PublishReview", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	review, err := svc.SubmitReview(context.Background(), validInput())
	require.NoError(t, err)
	assert.NotNil(t, review)
}

func TestReviewService_GetGameReviews(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	review := func(id string, offset time.Duration) domain.Review {
		return domain.Review{
			ID:        id,
			GameID:    "snake",
			UserID:    "u-" + id,
			UserName:  "player",
			Rating:    5,
			Comment:   "great fun",
			Timestamp: base.Add(offset),
		}
	}

	t.Run("sorted_newest_first", func(t *testing.T) {
		store := mocks.NewContentStore(t)
		svc := service.NewReviewService(store, gate.Static(true), nil, zerolog.Nop(), nil)

		store.On("List", mock.Anything, "reviews:snake:").
			Return(keySeq("reviews:snake:a", "reviews:snake:b", "reviews:snake:c")).Once()
		store.On("Get", mock.Anything, "reviews:snake:a").Return(mustJSON(t, review("a", time.Minute)), true, nil).Once()
		store.On("Get", mock.Anything, "reviews:snake:b").Return(mustJSON(t, review("b", time.Hour)), true, nil).Once()
		store.On("Get", mock.Anything, "reviews:snake:c").Return(mustJSON(t, review("c", 0)), true, nil).Once()

		got := svc.GetGameReviews(ctx, "snake", 10)
		require.Len(t, got, 3)
		assert.Equal(t, []string{"b", "a", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})
	})

	t.Run("limit_stops_reading", func(t *testing.T) {
		store := mocks.NewContentStore(t)
		svc := service.NewReviewService(store, gate.Static(true), nil, zerolog.Nop(), nil)

		store.On("List", mock.Anything, "reviews:snake:").
			Return(keySeq("reviews:snake:a", "reviews:snake:b", "reviews:snake:c")).Once()
		store.On("Get", mock.Anything, "reviews:snake:a").Return(mustJSON(t, review("a", 0)), true, nil).Once()
		store.On("Get", mock.Anything, "reviews:snake:b").Return(mustJSON(t, review("b", time.Hour)), true, nil).Once()

		got := svc.GetGameReviews(ctx, "snake", 2)
		require.Len(t, got, 2)
		assert.Equal(t, "b", got[0].ID)
		store.AssertNotCalled(t, "Get", mock.Anything, "reviews:snake:c")
	})

	t.Run("zero_limit_is_empty", func(t *testing.T) {
		store := mocks.NewContentStore(t)
		svc := service.NewReviewService(store, gate.Static(true), nil, zerolog.Nop(), nil)

		got := svc.GetGameReviews(ctx, "snake", 0)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		store.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("negative_limit_uses_default", func(t *testing.T) {
		store := mocks.NewContentStore(t)
		svc := service.NewReviewService(store, gate.Static(true), nil, zerolog.Nop(), nil)

		keys := make([]string, 0, 60)
		for i := 0; i < 60; i++ {
			key := fmt.Sprintf("reviews:snake:%02d", i)
			keys = append(keys, key)
			store.On("Get", mock.Anything, key).Return(mustJSON(t, review(key, time.Duration(i)*time.Second)), true, nil).Maybe()
		}
		store.On("List", mock.Anything, "reviews:snake:").Return(keySeq(keys...)).Once()

		got := svc.GetGameReviews(ctx, "snake", -1)
		assert.Len(t, got, service.DefaultReviewLimit)
	})

	t.Run("skips_missing_and_undecodable", func(t *testing.T) {
		store := mocks.NewContentStore(t)
		svc := service.NewReviewService(store, gate.Static(true), nil, zerolog.Nop(), nil)

		store.On("List", mock.Anything, "reviews:snake:").
			Return(keySeq("reviews:snake:gone", "reviews:snake:junk", "reviews:snake:ok")).Once()
		store.On("Get", mock.Anything, "reviews:snake:gone").Return(nil, false, nil).Once()
		store.On("Get", mock.Anything, "reviews:snake:junk").Return([]byte("{not json"), true, nil).Once()
		store.On("Get", mock.Anything, "reviews:snake:ok").Return(mustJSON(t, review("ok", 0)), true, nil).Once()

		got := svc.GetGameReviews(ctx, "snake", 10)
		require.Len(t, got, 1)
		assert.Equal(t, "ok", got[0].ID)
	})

	t.Run("list_error_is_empty", func(t *testing.T) {
		store := mocks.NewContentStore(t)
		m := metrics.New()
		svc := service.NewReviewService(store, gate.Static(true), nil, zerolog.Nop(), m)

		store.On("List", mock.Anything, "reviews:snake:").Return(failingSeq(storage.ErrUnavailable)).Once()

		got := svc.GetGameReviews(ctx, "snake", 10)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("get_error_discards_partial_results", func(t *testing.T) {
		store := mocks.NewContentStore(t)
		svc := service.NewReviewService(store, gate.Static(true), nil, zerolog.Nop(), nil)

		store.On("List", mock.Anything, "reviews:snake:").
			Return(keySeq("reviews:snake:a", "reviews:snake:b")).Once()
		store.On("Get", mock.Anything, "reviews:snake:a").Return(mustJSON(t, review("a", 0)), true, nil).Once()
		store.On("Get", mock.Anything, "reviews:snake:b").Return(nil, false, storage.ErrIO).Once()

		assert.Empty(t, svc.GetGameReviews(ctx, "snake", 10))
	})

	t.Run("gate_closed_is_empty", func(t *testing.T) {
		store := mocks.NewContentStore(t)
		svc := service.NewReviewService(store, gate.Static(false), nil, zerolog.Nop(), nil)

		got := svc.GetGameReviews(ctx, "snake", 10)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		store.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})
}

func TestReviewService_HasUserRated(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		available    bool
		prepareMocks func(store *mocks.ContentStore)
		expected     bool
	}{
		{
			name:      "rated",
			available: true,
			prepareMocks: func(store *mocks.ContentStore) {
				store.On("Get", mock.Anything, "ratings:snake:u1").Return([]byte(`{}`), true, nil).Once()
			},
			expected: true,
		},
		{
			name:      "not_rated",
			available: true,
			prepareMocks: func(store *mocks.ContentStore) {
				store.On("Get", mock.Anything, "ratings:snake:u1").Return(nil, false, nil).Once()
			},
			expected: false,
		},
		{
			name:      "store_error",
			available: true,
			prepareMocks: func(store *mocks.ContentStore) {
				store.On("Get", mock.Anything, "ratings:snake:u1").Return(nil, false, storage.ErrUnavailable).Once()
			},
			expected: false,
		},
		{
			name:         "gate_closed",
			available:    false,
			prepareMocks: func(store *mocks.ContentStore) {},
			expected:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewContentStore(t)
			tt.prepareMocks(store)
			svc := service.NewReviewService(store, gate.Static(tt.available), nil, zerolog.Nop(), nil)

			assert.Equal(t, tt.expected, svc.HasUserRated(ctx, "snake", "u1"))
		})
	}
}

func TestReviewService_RedisRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := storage.NewRedisStore(client)
	svc := service.NewReviewService(store, gate.Static(true), nil, zerolog.Nop(), nil)
	stats := service.NewStatsService(store, gate.Static(true), svc, zerolog.Nop(), nil)
	ctx := context.Background()

	submitted, err := svc.SubmitReview(ctx, validInput())
	require.NoError(t, err)

	other := validInput()
	other.GameID = "tetris"
	_, err = svc.SubmitReview(ctx, other)
	require.NoError(t, err)

	reviews := svc.GetGameReviews(ctx, "snake", 50)
	require.Len(t, reviews, 1)
	assert.Equal(t, *submitted, reviews[0])
	assert.Equal(t, 0, reviews[0].Likes)

	assert.True(t, svc.HasUserRated(ctx, "snake", submitted.UserID))
	assert.False(t, svc.HasUserRated(ctx, "tetris", submitted.UserID))
	assert.False(t, svc.HasUserRated(ctx, "snake", "someone-else"))

	got := stats.GetGameStats(ctx, "snake")
	assert.Equal(t, 4.0, got.AverageRating)
	assert.Equal(t, 1, got.TotalRatings)
	assert.Equal(t, 1, got.TotalReviews)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 1, 5: 0}, got.RatingDistribution)
}
