package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipe-catalog/internal/client"
	"github.com/pageza/recipe-catalog/internal/model"
)

// MockStore is a mock implementation of the upstream recipe store
type MockStore struct {
	mock.Mock
}

// List mocks the List method
func (m *MockStore) List(ctx context.Context, q client.ListQuery) (*client.ListResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.ListResult), args.Error(1)
}

// Get mocks the Get method
func (m *MockStore) Get(ctx context.Context, id string) (*model.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

// Create mocks the Create method
func (m *MockStore) Create(ctx context.Context, in model.RecipeInput) (*model.Recipe, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

// Update mocks the Update method
func (m *MockStore) Update(ctx context.Context, id string, in model.RecipeInput) error {
	args := m.Called(ctx, id, in)
	return args.Error(0)
}

// Delete mocks the Delete method
func (m *MockStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ToggleFavorite mocks the ToggleFavorite method
func (m *MockStore) ToggleFavorite(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
