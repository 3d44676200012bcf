package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/verses-xyz/interdependence"
	"github.com/verses-xyz/interdependence/internal/domain"
)

// --- mocks ---

type mockSubmissionRepo struct {
	signatures []SignatureSubmission
	forks      []ForkRecord
	duplicate  bool
}

func (m *mockSubmissionRepo) CreateSignature(ctx context.Context, sub SignatureSubmission) (bool, error) {
	if m.duplicate {
		return false, nil
	}
	m.signatures = append(m.signatures, sub)
	return true, nil
}

func (m *mockSubmissionRepo) CreateFork(ctx context.Context, fork ForkRecord) error {
	m.forks = append(m.forks, fork)
	return nil
}

type mockPublisher struct {
	published []interdependence.Tags
	data      [][]byte
	err       error
}

func (m *mockPublisher) Publish(ctx context.Context, data []byte, tags interdependence.Tags) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.published = append(m.published, tags)
	m.data = append(m.data, data)
	return "newtx", nil
}

type mockSignal struct {
	events []interdependence.SignatureRecord
}

func (m *mockSignal) PublishSignature(ctx context.Context, declarationTxID string, record interdependence.SignatureRecord) error {
	m.events = append(m.events, record)
	return nil
}

type mockVerifier struct {
	verified map[string]string
}

func (m *mockVerifier) IsVerified(ctx context.Context, handle, address string) bool {
	return m.verified[handle] == address
}

const submissionKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func declarationWithText(text string) *mockLedger {
	return &mockLedger{
		status: interdependence.TxStatus{
			Status:    200,
			Confirmed: &interdependence.TxConfirmation{BlockIndepHash: "blockhash"},
		},
		tags: interdependence.Tags{
			interdependence.TagDocType: interdependence.DocTypeDeclaration,
		},
		block: interdependence.Block{Timestamp: 1700000000},
		data:  `{"text":"` + text + `"}`,
	}
}

func newSubmissionUsecase(ledger LedgerRepository, repo SubmissionRepository, pub LedgerPublisher, sig SignalPublisher, ver HandleVerifier) *SubmissionUsecase {
	declarations := NewDeclarationUsecase(ledger, NewSignatureUsecase(ledger))
	return NewSubmissionUsecase(declarations, repo, pub, sig, ver)
}

// --- tests ---

func TestSignAcceptsValidSignature(t *testing.T) {
	wallet, err := interdependence.NewKeyWallet(submissionKey)
	if err != nil {
		t.Fatalf("wallet failed: %v", err)
	}
	signature, err := wallet.SignMessage([]byte("the declaration"))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	repo := &mockSubmissionRepo{}
	pub := &mockPublisher{}
	sig := &mockSignal{}
	ver := &mockVerifier{verified: map[string]string{"alice": wallet.Address()}}
	uc := newSubmissionUsecase(declarationWithText("the declaration"), repo, pub, sig, ver)

	record, err := uc.Sign(context.Background(), SignatureSubmission{
		DeclarationTxID: "decl",
		Name:            "Alice",
		Handle:          "alice",
		Address:         wallet.Address(),
		Signature:       signature,
	})
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if record.ID != "newtx" {
		t.Fatalf("expected published tx id on record, got %q", record.ID)
	}
	if !record.Verified {
		t.Fatalf("expected proof-checked handle to mark record verified")
	}
	if len(repo.signatures) != 1 {
		t.Fatalf("expected submission to be persisted")
	}
	if len(sig.events) != 1 {
		t.Fatalf("expected realtime event")
	}

	tags := pub.published[0]
	if tags[interdependence.TagDocType] != interdependence.DocTypeSignature {
		t.Fatalf("unexpected doc type tag: %q", tags[interdependence.TagDocType])
	}
	if tags[interdependence.TagDocRef] != "decl" {
		t.Fatalf("unexpected doc ref tag: %q", tags[interdependence.TagDocRef])
	}
	if tags[interdependence.TagSigVerified] != "true" {
		t.Fatalf("unexpected verified tag: %q", tags[interdependence.TagSigVerified])
	}
	if string(pub.data[0]) != signature {
		t.Fatalf("published data item must carry the signature")
	}
}

func TestSignRejectsMismatchedSignature(t *testing.T) {
	wallet, _ := interdependence.NewKeyWallet(submissionKey)
	signature, _ := wallet.SignMessage([]byte("some other text"))

	pub := &mockPublisher{}
	uc := newSubmissionUsecase(declarationWithText("the declaration"), &mockSubmissionRepo{}, pub, &mockSignal{}, &mockVerifier{})

	_, err := uc.Sign(context.Background(), SignatureSubmission{
		DeclarationTxID: "decl",
		Name:            "Mallory",
		Address:         wallet.Address(),
		Signature:       signature,
	})
	if !errors.Is(err, domain.ErrSignatureMismatch) {
		t.Fatalf("expected signature mismatch, got %v", err)
	}
	if len(pub.published) != 0 {
		t.Fatalf("rejected signature must never reach the ledger")
	}
}

func TestSignUnknownDeclaration(t *testing.T) {
	uc := newSubmissionUsecase(&mockLedger{status: interdependence.TxStatus{Status: 404}}, &mockSubmissionRepo{}, &mockPublisher{}, &mockSignal{}, &mockVerifier{})

	_, err := uc.Sign(context.Background(), SignatureSubmission{
		DeclarationTxID: "nope",
		Name:            "Alice",
		Address:         "0xAAA",
		Signature:       "0x00",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSignDuplicateDoesNotRepublish(t *testing.T) {
	wallet, _ := interdependence.NewKeyWallet(submissionKey)
	signature, _ := wallet.SignMessage([]byte("the declaration"))

	pub := &mockPublisher{}
	sig := &mockSignal{}
	repo := &mockSubmissionRepo{duplicate: true}
	uc := newSubmissionUsecase(declarationWithText("the declaration"), repo, pub, sig, &mockVerifier{})

	record, err := uc.Sign(context.Background(), SignatureSubmission{
		DeclarationTxID: "decl",
		Name:            "Alice",
		Address:         wallet.Address(),
		Signature:       signature,
	})
	if err != nil {
		t.Fatalf("duplicate submission must be accepted idempotently: %v", err)
	}
	if len(pub.published) != 0 {
		t.Fatalf("duplicate must not publish a second ledger record")
	}
	if len(sig.events) != 0 {
		t.Fatalf("duplicate must not emit a realtime event")
	}
	if record.Address != wallet.Address() {
		t.Fatalf("unexpected record: %+v", record)
	}
}

func TestSignNormalizesEmptyHandle(t *testing.T) {
	wallet, _ := interdependence.NewKeyWallet(submissionKey)
	signature, _ := wallet.SignMessage([]byte("the declaration"))

	pub := &mockPublisher{}
	uc := newSubmissionUsecase(declarationWithText("the declaration"), &mockSubmissionRepo{}, pub, &mockSignal{}, &mockVerifier{})

	record, err := uc.Sign(context.Background(), SignatureSubmission{
		DeclarationTxID: "decl",
		Name:            "Alice",
		Address:         wallet.Address(),
		Signature:       signature,
	})
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if record.Handle != interdependence.HandleUnsigned {
		t.Fatalf("outward-facing handle must be UNSIGNED, got %q", record.Handle)
	}
	if pub.published[0][interdependence.TagSigHandle] != interdependence.HandleNull {
		t.Fatalf("ledger tag must carry the null sentinel, got %q", pub.published[0][interdependence.TagSigHandle])
	}
}

func TestForkPublishesDerivativeDeclaration(t *testing.T) {
	repo := &mockSubmissionRepo{}
	pub := &mockPublisher{}
	uc := newSubmissionUsecase(declarationWithText("original"), repo, pub, &mockSignal{}, &mockVerifier{})

	fork, err := uc.Fork(context.Background(), "decl", "forked text", []string{"X", "Y"})
	if err != nil {
		t.Fatalf("fork failed: %v", err)
	}

	if fork.NewTxID != "newtx" || fork.OldTxID != "decl" {
		t.Fatalf("unexpected fork record: %+v", fork)
	}
	if len(repo.forks) != 1 {
		t.Fatalf("expected fork to be persisted")
	}

	tags := pub.published[0]
	if tags[interdependence.TagDocType] != interdependence.DocTypeDeclaration {
		t.Fatalf("fork must publish a declaration, got %q", tags[interdependence.TagDocType])
	}
	if tags[interdependence.TagDocOrigin] != "decl" {
		t.Fatalf("fork must back-reference its origin, got %q", tags[interdependence.TagDocOrigin])
	}
	if want := `{"authors":["X","Y"],"text":"forked text"}`; string(pub.data[0]) != want {
		t.Fatalf("unexpected payload: %s", pub.data[0])
	}
}

func TestForkUnknownOrigin(t *testing.T) {
	uc := newSubmissionUsecase(&mockLedger{status: interdependence.TxStatus{Status: 404}}, &mockSubmissionRepo{}, &mockPublisher{}, &mockSignal{}, &mockVerifier{})

	if _, err := uc.Fork(context.Background(), "nope", "text", nil); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
