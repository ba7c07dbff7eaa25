package controllers

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go-patient-caller/models"
)

// MockStateReader implements StateReader for testing.
type MockStateReader struct {
	mock.Mock
}

// State returns the snapshot configured with On("State", ...).
func (m *MockStateReader) State(ctx context.Context) (models.CurrentState, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.CurrentState), args.Error(1)
}
