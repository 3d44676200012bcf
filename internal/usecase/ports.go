package usecase

import (
	"context"

	"github.com/verses-xyz/interdependence"
)

// LedgerRepository defines the read operations the resolver and aggregator
// need from the ledger.
type LedgerRepository interface {
	GetTxStatus(ctx context.Context, txID string) (interdependence.TxStatus, error)
	GetTxTags(ctx context.Context, txID string) (interdependence.Tags, error)
	GetTxData(ctx context.Context, txID string) (string, error)
	GetBlock(ctx context.Context, blockID string) (interdependence.Block, error)

	// QuerySignatures returns every signature candidate referencing the
	// given declaration that was published by the trusted publisher. The
	// result carries no ordering guarantee.
	QuerySignatures(ctx context.Context, declarationTxID string) ([]interdependence.TxCandidate, error)
}

// LedgerPublisher defines the write operations the relay performs on the
// ledger as the trusted publisher.
type LedgerPublisher interface {
	// Publish writes a tagged data item and returns its transaction id.
	Publish(ctx context.Context, data []byte, tags interdependence.Tags) (string, error)
}

// SubmissionRepository persists accepted signature submissions and fork
// requests on the relay side.
type SubmissionRepository interface {
	CreateSignature(ctx context.Context, sub SignatureSubmission) (bool, error)
	CreateFork(ctx context.Context, fork ForkRecord) error
}

// SignalPublisher fans out accepted-signature events to realtime listeners.
type SignalPublisher interface {
	PublishSignature(ctx context.Context, declarationTxID string, record interdependence.SignatureRecord) error
}
