package mocks

import (
	"context"

	"github.com/cradoe/remitflow/internal/directory"
	"github.com/stretchr/testify/mock"
)

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) VerifyAccount(ctx context.Context, routingCode, accountNumber string) (directory.AccountMatch, error) {
	args := m.Called(ctx, routingCode, accountNumber)
	return args.Get(0).(directory.AccountMatch), args.Error(1)
}

func (m *MockDirectory) VerifyDirectID(ctx context.Context, id string) (directory.Payee, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(directory.Payee), args.Error(1)
}
