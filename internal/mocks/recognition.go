package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/nutritrack/backend/internal/service"
)

// MockRecognizer is a mock implementation of service.Recognizer
type MockRecognizer struct {
	mock.Mock
}

func (m *MockRecognizer) Recognize(ctx context.Context, req service.RecognitionRequest) (*service.Recognition, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Recognition), args.Error(1)
}

var _ service.Recognizer = (*MockRecognizer)(nil)
