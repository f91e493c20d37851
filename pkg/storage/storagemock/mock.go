package storagemock

import (
	"context"

	"github.com/solarcast/solarcast/pkg/storage"
	"github.com/stretchr/testify/mock"
)

type MockProvider struct {
	mock.Mock
}

var _ storage.Provider = (*MockProvider)(nil)

func (m *MockProvider) Get(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(ctx, name)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *MockProvider) Put(ctx context.Context, name string, data []byte) error {
	args := m.Called(ctx, name, data)
	return args.Error(0)
}

func (m *MockProvider) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

func (m *MockProvider) Close() error {
	args := m.Called()
	return args.Error(0)
}
