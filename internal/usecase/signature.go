package usecase

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/verses-xyz/interdependence"
)

var tracer = otel.Tracer("usecase")

// SignatureAggregate is the deduplicated signer list for one declaration,
// plus a count of malformed candidates dropped along the way.
type SignatureAggregate struct {
	Records []interdependence.SignatureRecord
	Skipped int
}

type SignatureUsecase struct {
	ledger LedgerRepository
}

func NewSignatureUsecase(ledger LedgerRepository) *SignatureUsecase {
	return &SignatureUsecase{ledger: ledger}
}

// Collect queries the ledger for every signature referencing the declaration
// and normalizes the candidates into a canonical signer list.
//
// Deduplication is keyed on signer address; the first candidate seen in
// response order wins. The query interface guarantees no ordering upstream,
// so this tie-break is an accepted, documented nondeterminism. Candidates
// missing a required tag are skipped, not fatal. Zero candidates is an empty
// list, not an error; a failed query is an error, never an empty list.
func (uc *SignatureUsecase) Collect(ctx context.Context, declarationTxID string) (SignatureAggregate, error) {
	ctx, span := tracer.Start(ctx, "SignatureUsecase.Collect")
	defer span.End()

	candidates, err := uc.ledger.QuerySignatures(ctx, declarationTxID)
	if err != nil {
		return SignatureAggregate{}, errors.Wrap(err, "failed to query signatures")
	}

	agg := SignatureAggregate{
		Records: []interdependence.SignatureRecord{},
	}
	seen := map[string]bool{}

	for _, candidate := range candidates {
		record, ok := candidate.Tags.ParseSignature(candidate.ID)
		if !ok {
			agg.Skipped++
			continue
		}
		if seen[record.Address] {
			continue
		}
		seen[record.Address] = true
		agg.Records = append(agg.Records, record)
	}

	span.SetAttributes(
		attribute.String("declaration", declarationTxID),
		attribute.Int("candidates", len(candidates)),
		attribute.Int("skipped", agg.Skipped),
	)

	return agg, nil
}
