package mocks

import (
	"testing"

	"go.uber.org/mock/gomock"
)

// NewMockDelegationServiceForTest creates a new mock DelegationService for testing
func NewMockDelegationServiceForTest(t *testing.T) *MockDelegationService {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockDelegationService(ctrl)
}

// NewMockNativeCustodyServiceForTest creates a new mock NativeCustodyService for testing
func NewMockNativeCustodyServiceForTest(t *testing.T) *MockNativeCustodyService {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockNativeCustodyService(ctrl)
}

// NewMockTransferServiceForTest creates a new mock TransferService for testing
func NewMockTransferServiceForTest(t *testing.T) *MockTransferService {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockTransferService(ctrl)
}

// NewMockEventPublisherForTest creates a new mock EventPublisher for testing
func NewMockEventPublisherForTest(t *testing.T) *MockEventPublisher {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockEventPublisher(ctrl)
}

// NewMockEventReaderForTest creates a new mock EventReader for testing
func NewMockEventReaderForTest(t *testing.T) *MockEventReader {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockEventReader(ctrl)
}
