package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/logilab/onyxia-composer/internal/domain"
)

// MockRegistry is a mock implementation of out.Registry
type MockRegistry struct {
	mock.Mock
}

// NewMockRegistry creates a mock whose expectations are asserted on cleanup.
func NewMockRegistry(t *testing.T) *MockRegistry {
	m := &MockRegistry{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRegistry) CheckName(ctx context.Context, name string) (domain.NameCheck, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(domain.NameCheck), args.Error(1)
}

func (m *MockRegistry) CheckVersion(ctx context.Context, name, version string) (domain.VersionCheck, error) {
	args := m.Called(ctx, name, version)
	return args.Get(0).(domain.VersionCheck), args.Error(1)
}

func (m *MockRegistry) Create(ctx context.Context, req domain.CreateRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockRegistry) Clone(ctx context.Context, repoURL string) (string, error) {
	args := m.Called(ctx, repoURL)
	return args.String(0), args.Error(1)
}

func (m *MockRegistry) Services(ctx context.Context) (map[string]domain.ServiceSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.ServiceSummary), args.Error(1)
}

func (m *MockRegistry) Delete(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}
