package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"github.com/verses-xyz/interdependence"
	"github.com/verses-xyz/interdependence/internal/domain"
	"github.com/verses-xyz/interdependence/internal/usecase"
)

// ProofChecker looks up the address a handle's public identity proof claims.
type ProofChecker interface {
	Lookup(ctx context.Context, handle string) (string, error)
}

// VerificationStore persists checked handles.
type VerificationStore interface {
	Upsert(ctx context.Context, handle, address string) error
	Get(ctx context.Context, handle string) (string, bool, error)
}

// VerificationService checks and remembers identity proofs binding social
// handles to signer addresses.
type VerificationService struct {
	checker ProofChecker
	store   VerificationStore
	cache   *cache.Cache
}

func NewVerificationService(checker ProofChecker, store VerificationStore) *VerificationService {
	return &VerificationService{
		checker: checker,
		store:   store,
		cache:   cache.New(10*time.Minute, 15*time.Minute),
	}
}

// Verify checks the handle's proof against the claimed address and records
// the handle as verified when they match.
func (s *VerificationService) Verify(ctx context.Context, address, handle string) error {
	claimed, err := s.checker.Lookup(ctx, handle)
	if err != nil {
		return errors.Wrap(err, "failed to look up identity proof")
	}

	if !interdependence.SameAddress(claimed, address) {
		return domain.SignatureMismatchError{Claimed: address, Recovered: claimed}
	}

	if err := s.store.Upsert(ctx, handle, address); err != nil {
		return errors.Wrap(err, "failed to record verified handle")
	}
	s.cache.Set(handle, address, cache.DefaultExpiration)

	return nil
}

// IsVerified reports whether handle has a recorded proof for address.
// Unset handles are never verified.
func (s *VerificationService) IsVerified(ctx context.Context, handle, address string) bool {
	if handle == interdependence.HandleNull || handle == "" {
		return false
	}

	if cached, found := s.cache.Get(handle); found {
		return interdependence.SameAddress(cached.(string), address)
	}

	stored, found, err := s.store.Get(ctx, handle)
	if err != nil {
		slog.Error("failed to read verified handle",
			slog.String("handle", handle),
			slog.String("error", err.Error()),
		)
		return false
	}
	if !found {
		return false
	}

	s.cache.Set(handle, stored, cache.DefaultExpiration)
	return interdependence.SameAddress(stored, address)
}

var _ usecase.HandleVerifier = (*VerificationService)(nil)
