package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockSender records OTP deliveries. LastCode returns the most recent code sent.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, contact, code string) error {
	args := m.Called(ctx, contact, code)
	return args.Error(0)
}

func (m *MockSender) LastCode() string {
	calls := m.Calls
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Method == "Send" {
			return calls[i].Arguments.String(2)
		}
	}
	return ""
}
