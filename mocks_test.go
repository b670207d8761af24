package auth_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	auth "github.com/Carhuajulca/go-identity"
)

// MockPrincipalStore is a testify mock of the resolver's store seam.
type MockPrincipalStore struct {
	mock.Mock
}

func (m *MockPrincipalStore) GetByID(ctx context.Context, id int64) (*auth.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*auth.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPrincipalStore) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*auth.User), args.Error(1)
	}
	return nil, args.Error(1)
}
