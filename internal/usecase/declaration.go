package usecase

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/verses-xyz/interdependence"
	"github.com/verses-xyz/interdependence/internal/domain"
)

type DeclarationUsecase struct {
	ledger     LedgerRepository
	signatures *SignatureUsecase
}

func NewDeclarationUsecase(ledger LedgerRepository, signatures *SignatureUsecase) *DeclarationUsecase {
	return &DeclarationUsecase{
		ledger:     ledger,
		signatures: signatures,
	}
}

// Resolve reconstructs the full signed state of a declaration: payload,
// confirmation timestamp, and the verified signer list.
//
// The steps are strictly sequential and short-circuiting:
// unconfirmed ids pass the gateway status through, confirmed ids that are not
// tagged as declarations resolve to 404. Both are normal result states with
// empty data, not errors. Once an id is confirmed and correctly tagged, any
// failure to fetch or parse its payload is fatal to the resolution.
func (uc *DeclarationUsecase) Resolve(ctx context.Context, txID string) (interdependence.ResolvedDeclaration, error) {
	ctx, span := tracer.Start(ctx, "DeclarationUsecase.Resolve")
	defer span.End()
	span.SetAttributes(attribute.String("txId", txID))

	res := interdependence.NewResolvedDeclaration(txID)

	status, err := uc.ledger.GetTxStatus(ctx, txID)
	if err != nil {
		return res, errors.Wrap(err, "failed to query tx status")
	}
	if status.Status != http.StatusOK || status.Confirmed == nil {
		res.Status = status.Status
		return res, nil
	}

	tags, err := uc.ledger.GetTxTags(ctx, txID)
	if err != nil {
		return res, errors.Wrap(err, "failed to fetch tx tags")
	}
	if !tags.IsDeclaration() {
		return res, nil
	}

	block, err := uc.ledger.GetBlock(ctx, status.Confirmed.BlockIndepHash)
	if err != nil {
		return res, errors.Wrap(err, "failed to fetch block")
	}

	payload, err := uc.ledger.GetTxData(ctx, txID)
	if err != nil {
		return res, errors.Wrap(err, "failed to fetch declaration payload")
	}

	if err := json.Unmarshal([]byte(payload), &res.Data); err != nil {
		return res, domain.IntegrityError{TxID: txID, Reason: "declaration payload is not valid JSON"}
	}
	if res.Data == nil {
		res.Data = map[string]any{}
	}
	res.Data["timestamp"] = interdependence.FormatTimestamp(block.Timestamp)

	agg, err := uc.signatures.Collect(ctx, txID)
	if err != nil {
		return res, errors.Wrap(err, "failed to collect signatures")
	}
	res.Sigs = agg.Records
	res.SkippedSigs = agg.Skipped
	res.Status = http.StatusOK

	return res, nil
}
