package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/logilab/onyxia-composer/internal/domain"
)

// MockCatalogStore is a mock implementation of out.CatalogStore
type MockCatalogStore struct {
	mock.Mock
}

// NewMockCatalogStore creates a mock whose expectations are asserted on cleanup.
func NewMockCatalogStore(t *testing.T) *MockCatalogStore {
	m := &MockCatalogStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCatalogStore) Get(ctx context.Context, name string) (*domain.Service, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

func (m *MockCatalogStore) Upsert(ctx context.Context, svc *domain.Service) error {
	args := m.Called(ctx, svc)
	return args.Error(0)
}

func (m *MockCatalogStore) List(ctx context.Context) ([]domain.Service, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Service), args.Error(1)
}

func (m *MockCatalogStore) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// MockRepositoryCloner is a mock implementation of out.RepositoryCloner
type MockRepositoryCloner struct {
	mock.Mock
}

// NewMockRepositoryCloner creates a mock whose expectations are asserted on cleanup.
func NewMockRepositoryCloner(t *testing.T) *MockRepositoryCloner {
	m := &MockRepositoryCloner{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRepositoryCloner) Clone(ctx context.Context, repoURL, revision string) (string, error) {
	args := m.Called(ctx, repoURL, revision)
	return args.String(0), args.Error(1)
}
