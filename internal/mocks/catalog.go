package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipe-catalog/internal/catalog"
	"github.com/pageza/recipe-catalog/internal/model"
)

// MockCatalogService is a mock implementation of the catalog service
type MockCatalogService struct {
	mock.Mock
}

// Refresh mocks the Refresh method
func (m *MockCatalogService) Refresh(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// View mocks the View method
func (m *MockCatalogService) View(state catalog.State) catalog.View {
	args := m.Called(state)
	return args.Get(0).(catalog.View)
}

// Matching mocks the Matching method
func (m *MockCatalogService) Matching(state catalog.State) []model.Recipe {
	args := m.Called(state)
	return args.Get(0).([]model.Recipe)
}

// Recipes mocks the Recipes method
func (m *MockCatalogService) Recipes() []model.Recipe {
	args := m.Called()
	return args.Get(0).([]model.Recipe)
}

// LastRefresh mocks the LastRefresh method
func (m *MockCatalogService) LastRefresh() time.Time {
	args := m.Called()
	return args.Get(0).(time.Time)
}

// Get mocks the Get method
func (m *MockCatalogService) Get(ctx context.Context, id string) (*model.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

// Create mocks the Create method
func (m *MockCatalogService) Create(ctx context.Context, in model.RecipeInput) (*model.Recipe, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

// Update mocks the Update method
func (m *MockCatalogService) Update(ctx context.Context, id string, in model.RecipeInput) error {
	args := m.Called(ctx, id, in)
	return args.Error(0)
}

// Delete mocks the Delete method
func (m *MockCatalogService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ToggleFavorite mocks the ToggleFavorite method
func (m *MockCatalogService) ToggleFavorite(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
