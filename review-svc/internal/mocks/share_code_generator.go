package mocks

import mock "github.com/stretchr/testify/mock"

// ShareCodeGenerator is a mock type for the ShareCodeGenerator type
type ShareCodeGenerator struct {
	mock.Mock
}

// Generate provides a mock function with given fields: gameID
func (_m *ShareCodeGenerator) Generate(gameID string) ([]byte, error) {
	ret := _m.Called(gameID)

	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	return r0, ret.Error(1)
}

// NewShareCodeGenerator creates a new instance of ShareCodeGenerator. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewShareCodeGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *ShareCodeGenerator {
	m := &ShareCodeGenerator{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
