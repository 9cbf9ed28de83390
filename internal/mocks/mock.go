// Package mocks holds testify mocks of the service interfaces used by the HTTP layer.
package mocks

import "github.com/stretchr/testify/mock"

// TestingT is what a mock constructor needs from *testing.T.
type TestingT interface {
	mock.TestingT
	Cleanup(func())
}

func register(t TestingT, m *mock.Mock) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}
