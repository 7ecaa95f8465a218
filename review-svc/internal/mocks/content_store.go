package mocks

import (
	"context"
	"iter"

	mock "github.com/stretchr/testify/mock"
)

// ContentStore is a mock type for the ContentStore type
type ContentStore struct {
	mock.Mock
}

// Get provides a mock function with given fields: ctx, key
func (_m *ContentStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ret := _m.Called(ctx, key)

	if rf, ok := ret.Get(0).(func(context.Context, string) ([]byte, bool, error)); ok {
		return rf(ctx, key)
	}

	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	return r0, ret.Bool(1), ret.Error(2)
}

// List provides a mock function with given fields: ctx, prefix
func (_m *ContentStore) List(ctx context.Context, prefix string) iter.Seq2[string, error] {
	ret := _m.Called(ctx, prefix)

	if rf, ok := ret.Get(0).(func(context.Context, string) iter.Seq2[string, error]); ok {
		return rf(ctx, prefix)
	}

	var r0 iter.Seq2[string, error]
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(iter.Seq2[string, error])
	}
	return r0
}

// Set provides a mock function with given fields: ctx, key, value
func (_m *ContentStore) Set(ctx context.Context, key string, value []byte) error {
	ret := _m.Called(ctx, key, value)

	if rf, ok := ret.Get(0).(func(context.Context, string, []byte) error); ok {
		return rf(ctx, key, value)
	}
	return ret.Error(0)
}

// NewContentStore creates a new instance of ContentStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewContentStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *ContentStore {
	m := &ContentStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
