package mocks

import (
	"context"

	"go-fooddelivery/models"

	"github.com/stretchr/testify/mock"
)

// ChangePublisher is a mock of services.ChangePublisher
type ChangePublisher struct {
	mock.Mock
}

func (m *ChangePublisher) Publish(ctx context.Context, event models.ChangeEvent) error {
	return m.Called(ctx, event).Error(0)
}

// NewChangePublisher creates a ChangePublisher mock whose expectations are asserted when the test ends
func NewChangePublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *ChangePublisher {
	m := &ChangePublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
