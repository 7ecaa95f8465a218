package mocks

import (
	"context"

	"github.com/ZYL1107/next-platform-starter/review-svc/internal/domain"
	"github.com/ZYL1107/next-platform-starter/review-svc/internal/service"
	mock "github.com/stretchr/testify/mock"
)

// ReviewServiceInterface is a mock type for the ReviewServiceInterface type
type ReviewServiceInterface struct {
	mock.Mock
}

// GetGameReviews provides a mock function with given fields: ctx, gameID, limit
func (_m *ReviewServiceInterface) GetGameReviews(ctx context.Context, gameID string, limit int) []domain.Review {
	ret := _m.Called(ctx, gameID, limit)

	if rf, ok := ret.Get(0).(func(context.Context, string, int) []domain.Review); ok {
		return rf(ctx, gameID, limit)
	}

	var r0 []domain.Review
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Review)
	}
	return r0
}

// HasUserRated provides a mock function with given fields: ctx, gameID, userID
func (_m *ReviewServiceInterface) HasUserRated(ctx context.Context, gameID string, userID string) bool {
	ret := _m.Called(ctx, gameID, userID)

	if rf, ok := ret.Get(0).(func(context.Context, string, string) bool); ok {
		return rf(ctx, gameID, userID)
	}
	return ret.Bool(0)
}

// SubmitReview provides a mock function with given fields: ctx, input
func (_m *ReviewServiceInterface) SubmitReview(ctx context.Context, input service.SubmitReviewInput) (*domain.Review, error) {
	ret := _m.Called(ctx, input)

	if rf, ok := ret.Get(0).(func(context.Context, service.SubmitReviewInput) (*domain.Review, error)); ok {
		return rf(ctx, input)
	}

	var r0 *domain.Review
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Review)
	}
	return r0, ret.Error(1)
}

// NewReviewServiceInterface creates a new instance of ReviewServiceInterface. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewReviewServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *ReviewServiceInterface {
	m := &ReviewServiceInterface{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
