package interfaces

//go:generate mockgen -destination=../mocks/mock_services.go -package=mocks . DelegationService,NativeCustodyService,TransferService,EventPublisher,EventReader

import (
	"context"

	"github.com/cyphera/custody-vault/internal/types/api/params"
	"github.com/cyphera/custody-vault/internal/types/business"
	"github.com/gagliardetto/solana-go"
)

// DelegationService handles token delegation lifecycle operations
type DelegationService interface {
	SetupDelegation(ctx context.Context, signers business.Signers, params params.SetupDelegationParams) (*business.RecordHandle, error)
	RevokeDelegation(ctx context.Context, signers business.Signers, params params.RevokeDelegationParams) error
	SuspendDelegation(ctx context.Context, signers business.Signers, params params.SuspendDelegationParams) (*business.RecordHandle, error)
	GetDelegation(ctx context.Context, owner, mint solana.PublicKey) (*business.RecordHandle, error)
}

// NativeCustodyService handles native coin deposits and owner withdrawals
type NativeCustodyService interface {
	CommitNative(ctx context.Context, signers business.Signers, params params.CommitNativeParams) (*business.RecordHandle, error)
	ReclaimNative(ctx context.Context, signers business.Signers, params params.ReclaimNativeParams) (*business.RecordHandle, error)
	CloseNativeProfile(ctx context.Context, signers business.Signers, params params.CloseNativeProfileParams) (uint64, error)
	GetNativeProfile(ctx context.Context, owner solana.PublicKey) (*business.RecordHandle, error)
}

// TransferService handles operator-initiated transfers and sweeps
type TransferService interface {
	ExecuteTransfer(ctx context.Context, signers business.Signers, params params.ExecuteTransferParams) (*business.TransferResult, error)
	ExecuteMaxTransfer(ctx context.Context, signers business.Signers, params params.ExecuteMaxTransferParams) (*business.TransferResult, error)
	SyncLiquidity(ctx context.Context, signers business.Signers, params params.SyncLiquidityParams) (*business.RecordHandle, error)
}
