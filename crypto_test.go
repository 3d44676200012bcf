package interdependence

import (
	"strings"
	"testing"
)

const testKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func TestSignAndRecover(t *testing.T) {
	message := []byte("We hold these truths to be self-evident...")

	sig, err := SignPersonal(message, testKey)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if !strings.HasPrefix(sig, "0x") || len(sig) != 132 {
		t.Fatalf("unexpected signature shape: %s", sig)
	}

	wantAddr, err := AddrForKey(testKey)
	if err != nil {
		t.Fatalf("address derivation failed: %v", err)
	}

	gotAddr, err := RecoverSigner(message, sig)
	if err != nil {
		t.Fatalf("recover failed: %v", err)
	}
	if !SameAddress(gotAddr, wantAddr) {
		t.Fatalf("recovered %s, want %s", gotAddr, wantAddr)
	}
}

func TestRecoverSignerRejectsTamperedMessage(t *testing.T) {
	sig, err := SignPersonal([]byte("original text"), testKey)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	wantAddr, _ := AddrForKey(testKey)
	gotAddr, err := RecoverSigner([]byte("tampered text"), sig)
	if err == nil && SameAddress(gotAddr, wantAddr) {
		t.Fatalf("tampered message must not recover to the signer")
	}
}

func TestRecoverSignerBadInput(t *testing.T) {
	if _, err := RecoverSigner([]byte("x"), "not-hex"); err == nil {
		t.Fatalf("expected error for malformed hex")
	}
	if _, err := RecoverSigner([]byte("x"), "0xdeadbeef"); err == nil {
		t.Fatalf("expected error for truncated signature")
	}
}

func TestKeyWallet(t *testing.T) {
	wallet, err := NewKeyWallet(testKey)
	if err != nil {
		t.Fatalf("wallet construction failed: %v", err)
	}

	sig, err := wallet.SignMessage([]byte("declaration body"))
	if err != nil {
		t.Fatalf("wallet sign failed: %v", err)
	}

	recovered, err := RecoverSigner([]byte("declaration body"), sig)
	if err != nil {
		t.Fatalf("recover failed: %v", err)
	}
	if !SameAddress(recovered, wallet.Address()) {
		t.Fatalf("wallet signature recovers to %s, want %s", recovered, wallet.Address())
	}
}

func TestIsTxID(t *testing.T) {
	valid := "BHCXy9nBtTPGPuByypQJpGUpfHTQgkwGDWxTN9PQWbg"
	if !IsTxID(valid) {
		t.Fatalf("expected %q to be a valid tx id", valid)
	}
	for _, s := range []string{"", "short", valid + "x", strings.Replace(valid, "B", "!", 1)} {
		if IsTxID(s) {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	if got := FormatTimestamp(1700000000); got != "November 14, 2023" {
		t.Fatalf("expected \"November 14, 2023\", got %q", got)
	}
}
