package mocks

import "github.com/stretchr/testify/mock"

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(recipient string, data any, patterns ...string) error {
	args := m.Called(recipient, data, patterns)
	return args.Error(0)
}

// LastData returns the template data passed to the most recent Send.
func (m *MockMailer) LastData() map[string]any {
	for i := len(m.Calls) - 1; i >= 0; i-- {
		if m.Calls[i].Method == "Send" {
			data, _ := m.Calls[i].Arguments.Get(1).(map[string]any)
			return data
		}
	}
	return nil
}
