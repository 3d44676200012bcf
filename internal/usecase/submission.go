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

// SignatureSubmission is an accepted co-signature on its way to the ledger.
type SignatureSubmission struct {
	DeclarationTxID string
	Name            string
	Handle          string
	Address         string
	Signature       string
	Verified        bool
	LedgerTxID      string
}

// ForkRecord is an accepted fork request and the new declaration it produced.
type ForkRecord struct {
	OldTxID string
	NewTxID string
	Text    string
	Authors []string
}

// HandleVerifier reports whether a handle has a checked identity proof
// binding it to the given address.
type HandleVerifier interface {
	IsVerified(ctx context.Context, handle, address string) bool
}

// SubmissionUsecase is the relay-side write pipeline: it validates incoming
// sign and fork requests against the current ledger state and publishes the
// resulting records as the trusted publisher.
type SubmissionUsecase struct {
	declarations *DeclarationUsecase
	repo         SubmissionRepository
	publisher    LedgerPublisher
	signal       SignalPublisher
	verifier     HandleVerifier
}

func NewSubmissionUsecase(
	declarations *DeclarationUsecase,
	repo SubmissionRepository,
	publisher LedgerPublisher,
	signal SignalPublisher,
	verifier HandleVerifier,
) *SubmissionUsecase {
	return &SubmissionUsecase{
		declarations: declarations,
		repo:         repo,
		publisher:    publisher,
		signal:       signal,
		verifier:     verifier,
	}
}

// Sign validates a submitted co-signature and publishes it to the ledger.
//
// The signature must recover to the claimed address over the declaration's
// literal text; that binding is the only thing that makes a signer list
// trustworthy. Duplicate submissions from the same address are accepted
// idempotently but published only once.
func (uc *SubmissionUsecase) Sign(ctx context.Context, sub SignatureSubmission) (interdependence.SignatureRecord, error) {
	ctx, span := tracer.Start(ctx, "SubmissionUsecase.Sign")
	defer span.End()
	span.SetAttributes(attribute.String("declaration", sub.DeclarationTxID))

	view, err := uc.declarations.Resolve(ctx, sub.DeclarationTxID)
	if err != nil {
		return interdependence.SignatureRecord{}, errors.Wrap(err, "failed to resolve declaration")
	}
	if view.Status != http.StatusOK {
		return interdependence.SignatureRecord{}, domain.NotFoundError{Resource: "declaration"}
	}

	text, ok := view.Data["text"].(string)
	if !ok {
		return interdependence.SignatureRecord{}, domain.IntegrityError{
			TxID:   sub.DeclarationTxID,
			Reason: "declaration has no text body",
		}
	}

	recovered, err := interdependence.RecoverSigner([]byte(text), sub.Signature)
	if err != nil {
		return interdependence.SignatureRecord{}, errors.Wrap(err, "failed to recover signer")
	}
	if !interdependence.SameAddress(recovered, sub.Address) {
		return interdependence.SignatureRecord{}, domain.SignatureMismatchError{
			Claimed:   sub.Address,
			Recovered: recovered,
		}
	}

	if sub.Handle == "" {
		sub.Handle = interdependence.HandleNull
	}
	sub.Verified = uc.verifier.IsVerified(ctx, sub.Handle, sub.Address)

	created, err := uc.repo.CreateSignature(ctx, sub)
	if err != nil {
		return interdependence.SignatureRecord{}, errors.Wrap(err, "failed to persist submission")
	}

	record := interdependence.SignatureRecord{
		Address:  sub.Address,
		Name:     sub.Name,
		Handle:   interdependence.NormalizeHandle(sub.Handle),
		Verified: sub.Verified,
	}

	if !created {
		// Same address already signed this declaration. The ledger record
		// exists; do not publish a second one.
		return record, nil
	}

	tags := interdependence.Tags{
		interdependence.TagDocType:     interdependence.DocTypeSignature,
		interdependence.TagDocRef:      sub.DeclarationTxID,
		interdependence.TagSigName:     sub.Name,
		interdependence.TagSigHandle:   sub.Handle,
		interdependence.TagSigAddr:     sub.Address,
		interdependence.TagSigVerified: boolString(sub.Verified),
	}

	ledgerTxID, err := uc.publisher.Publish(ctx, []byte(sub.Signature), tags)
	if err != nil {
		return interdependence.SignatureRecord{}, errors.Wrap(err, "failed to publish signature")
	}
	record.ID = ledgerTxID

	if err := uc.signal.PublishSignature(ctx, sub.DeclarationTxID, record); err != nil {
		// Fan-out is best effort; the ledger write already happened.
		span.SetAttributes(attribute.String("signalError", err.Error()))
	}

	return record, nil
}

// Fork publishes a derivative declaration with new text and authors,
// back-referencing the original. Old and new coexist; a fork is a
// relationship, not a replacement.
func (uc *SubmissionUsecase) Fork(ctx context.Context, oldTxID, newText string, authors []string) (ForkRecord, error) {
	ctx, span := tracer.Start(ctx, "SubmissionUsecase.Fork")
	defer span.End()
	span.SetAttributes(attribute.String("origin", oldTxID))

	view, err := uc.declarations.Resolve(ctx, oldTxID)
	if err != nil {
		return ForkRecord{}, errors.Wrap(err, "failed to resolve origin declaration")
	}
	if view.Status != http.StatusOK {
		return ForkRecord{}, domain.NotFoundError{Resource: "origin declaration"}
	}

	payload, err := json.Marshal(map[string]any{
		"authors": authors,
		"text":    newText,
	})
	if err != nil {
		return ForkRecord{}, errors.Wrap(err, "failed to marshal declaration payload")
	}

	tags := interdependence.Tags{
		interdependence.TagDocType:   interdependence.DocTypeDeclaration,
		interdependence.TagDocOrigin: oldTxID,
	}

	newTxID, err := uc.publisher.Publish(ctx, payload, tags)
	if err != nil {
		return ForkRecord{}, errors.Wrap(err, "failed to publish declaration")
	}

	fork := ForkRecord{
		OldTxID: oldTxID,
		NewTxID: newTxID,
		Text:    newText,
		Authors: authors,
	}
	if err := uc.repo.CreateFork(ctx, fork); err != nil {
		return ForkRecord{}, errors.Wrap(err, "failed to persist fork")
	}

	return fork, nil
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
