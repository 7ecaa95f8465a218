package mocks

import (
	"context"

	"github.com/ZYL1107/next-platform-starter/review-svc/internal/domain"
	mock "github.com/stretchr/testify/mock"
)

// StatsServiceInterface is a mock type for the StatsServiceInterface type
type StatsServiceInterface struct {
	mock.Mock
}

// GetGameStats provides a mock function with given fields: ctx, gameID
func (_m *StatsServiceInterface) GetGameStats(ctx context.Context, gameID string) domain.GameStats {
	ret := _m.Called(ctx, gameID)

	if rf, ok := ret.Get(0).(func(context.Context, string) domain.GameStats); ok {
		return rf(ctx, gameID)
	}
	return ret.Get(0).(domain.GameStats)
}

// NewStatsServiceInterface creates a new instance of StatsServiceInterface. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewStatsServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *StatsServiceInterface {
	m := &StatsServiceInterface{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
