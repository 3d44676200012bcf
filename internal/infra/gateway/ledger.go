package gateway

import (
	"context"

	"github.com/verses-xyz/interdependence"
	"github.com/verses-xyz/interdependence/client"
	"github.com/verses-xyz/interdependence/internal/usecase"
)

// LedgerGateway adapts the ledger read client to the usecase port, pinning
// the trusted publisher for signature queries.
type LedgerGateway struct {
	client    *client.Client
	publisher string
}

func NewLedgerGateway(cl *client.Client, publisher string) *LedgerGateway {
	if publisher == "" {
		publisher = interdependence.TrustedPublisher
	}
	return &LedgerGateway{
		client:    cl,
		publisher: publisher,
	}
}

func (g *LedgerGateway) GetTxStatus(ctx context.Context, txID string) (interdependence.TxStatus, error) {
	return g.client.GetTxStatus(ctx, txID)
}

func (g *LedgerGateway) GetTxTags(ctx context.Context, txID string) (interdependence.Tags, error) {
	return g.client.GetTxTags(ctx, txID)
}

func (g *LedgerGateway) GetTxData(ctx context.Context, txID string) (string, error) {
	return g.client.GetTxData(ctx, txID)
}

func (g *LedgerGateway) GetBlock(ctx context.Context, blockID string) (interdependence.Block, error) {
	return g.client.GetBlock(ctx, blockID)
}

func (g *LedgerGateway) QuerySignatures(ctx context.Context, declarationTxID string) ([]interdependence.TxCandidate, error) {
	return g.client.QueryTransactions(ctx, client.SignaturesOf(declarationTxID, g.publisher))
}

var _ usecase.LedgerRepository = (*LedgerGateway)(nil)
