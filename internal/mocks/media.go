package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// MockImageStore is a mock implementation of the image store
type MockImageStore struct {
	mock.Mock
}

// Upload mocks the Upload method
func (m *MockImageStore) Upload(ctx context.Context, r io.Reader, filename string) (string, error) {
	args := m.Called(ctx, r, filename)
	return args.String(0), args.Error(1)
}
