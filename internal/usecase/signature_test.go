package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/verses-xyz/interdependence"
)

// --- mocks ---

type mockLedger struct {
	status     interdependence.TxStatus
	statusErr  error
	tags       interdependence.Tags
	tagsErr    error
	data       string
	dataErr    error
	block      interdependence.Block
	blockErr   error
	candidates []interdependence.TxCandidate
	queryErr   error
}

func (m *mockLedger) GetTxStatus(ctx context.Context, txID string) (interdependence.TxStatus, error) {
	return m.status, m.statusErr
}

func (m *mockLedger) GetTxTags(ctx context.Context, txID string) (interdependence.Tags, error) {
	return m.tags, m.tagsErr
}

func (m *mockLedger) GetTxData(ctx context.Context, txID string) (string, error) {
	return m.data, m.dataErr
}

func (m *mockLedger) GetBlock(ctx context.Context, blockID string) (interdependence.Block, error) {
	return m.block, m.blockErr
}

func (m *mockLedger) QuerySignatures(ctx context.Context, declarationTxID string) ([]interdependence.TxCandidate, error) {
	return m.candidates, m.queryErr
}

func sigCandidate(id, addr, name, handle, verified string) interdependence.TxCandidate {
	return interdependence.TxCandidate{
		ID: id,
		Tags: interdependence.Tags{
			interdependence.TagDocType:     interdependence.DocTypeSignature,
			interdependence.TagDocRef:      "decl",
			interdependence.TagSigAddr:     addr,
			interdependence.TagSigName:     name,
			interdependence.TagSigHandle:   handle,
			interdependence.TagSigVerified: verified,
		},
	}
}

// --- tests ---

func TestCollectDeduplicatesByAddress(t *testing.T) {
	ledger := &mockLedger{
		candidates: []interdependence.TxCandidate{
			sigCandidate("s1", "0xAAA", "Alice", "null", "false"),
			sigCandidate("s2", "0xBBB", "Bob", "bob", "true"),
			sigCandidate("s3", "0xAAA", "Alice again", "alice2", "true"),
		},
	}
	uc := NewSignatureUsecase(ledger)

	agg, err := uc.Collect(context.Background(), "decl")
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	if len(agg.Records) != 2 {
		t.Fatalf("expected 2 records after dedup, got %d", len(agg.Records))
	}

	// First-seen-in-response-order wins.
	if agg.Records[0].Address != "0xAAA" || agg.Records[0].Name != "Alice" {
		t.Fatalf("first record wrong: %+v", agg.Records[0])
	}
	if agg.Records[1].Address != "0xBBB" {
		t.Fatalf("second record wrong: %+v", agg.Records[1])
	}
}

func TestCollectNormalizesHandles(t *testing.T) {
	ledger := &mockLedger{
		candidates: []interdependence.TxCandidate{
			sigCandidate("s1", "0xAAA", "Alice", "null", "false"),
			sigCandidate("s2", "0xBBB", "Bob", "bob", "true"),
		},
	}
	uc := NewSignatureUsecase(ledger)

	agg, err := uc.Collect(context.Background(), "decl")
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	if agg.Records[0].Handle != interdependence.HandleUnsigned {
		t.Fatalf("expected UNSIGNED handle, got %q", agg.Records[0].Handle)
	}
	if agg.Records[1].Handle != "bob" {
		t.Fatalf("expected passthrough handle, got %q", agg.Records[1].Handle)
	}
}

func TestCollectSkipsMalformedCandidates(t *testing.T) {
	broken := sigCandidate("s2", "0xBBB", "Bob", "bob", "true")
	delete(broken.Tags, interdependence.TagSigAddr)

	ledger := &mockLedger{
		candidates: []interdependence.TxCandidate{
			sigCandidate("s1", "0xAAA", "Alice", "alice", "true"),
			broken,
		},
	}
	uc := NewSignatureUsecase(ledger)

	agg, err := uc.Collect(context.Background(), "decl")
	if err != nil {
		t.Fatalf("malformed candidate must not fail the batch: %v", err)
	}
	if len(agg.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(agg.Records))
	}
	if agg.Skipped != 1 {
		t.Fatalf("expected 1 skipped candidate, got %d", agg.Skipped)
	}
}

func TestCollectEmptyIsNotAnError(t *testing.T) {
	uc := NewSignatureUsecase(&mockLedger{})

	agg, err := uc.Collect(context.Background(), "decl")
	if err != nil {
		t.Fatalf("empty result must not error: %v", err)
	}
	if agg.Records == nil || len(agg.Records) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", agg.Records)
	}
}

func TestCollectQueryFailureIsAnError(t *testing.T) {
	uc := NewSignatureUsecase(&mockLedger{queryErr: errors.New("gateway down")})

	if _, err := uc.Collect(context.Background(), "decl"); err == nil {
		t.Fatalf("query failure must be distinct from an empty result")
	}
}

func TestCollectIsIdempotent(t *testing.T) {
	ledger := &mockLedger{
		candidates: []interdependence.TxCandidate{
			sigCandidate("s1", "0xAAA", "Alice", "null", "false"),
			sigCandidate("s2", "0xBBB", "Bob", "bob", "true"),
			sigCandidate("s3", "0xAAA", "Dup", "dup", "true"),
		},
	}
	uc := NewSignatureUsecase(ledger)

	first, err := uc.Collect(context.Background(), "decl")
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	second, err := uc.Collect(context.Background(), "decl")
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same ledger state must yield identical aggregates")
	}
}
