package domain

import "fmt"

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// IntegrityError represents ledger data that is confirmed and correctly
// tagged but fails to parse. This is corruption or schema drift, never a
// recoverable not-found state.
type IntegrityError struct {
	TxID   string
	Reason string
}

func (e IntegrityError) Error() string {
	return fmt.Sprintf("integrity violation on %s: %s", e.TxID, e.Reason)
}

func (e IntegrityError) Is(target error) bool {
	_, ok := target.(IntegrityError)
	if ok {
		return true
	}
	_, ok = target.(*IntegrityError)
	return ok
}

// ErrIntegrity is the sentinel error for integrity violations.
var ErrIntegrity = IntegrityError{}

// SignatureMismatchError represents a submitted signature that does not
// recover to the claimed signer address.
type SignatureMismatchError struct {
	Claimed   string
	Recovered string
}

func (e SignatureMismatchError) Error() string {
	return fmt.Sprintf("signature recovers to %s, not %s", e.Recovered, e.Claimed)
}

func (e SignatureMismatchError) Is(target error) bool {
	_, ok := target.(SignatureMismatchError)
	if ok {
		return true
	}
	_, ok = target.(*SignatureMismatchError)
	return ok
}

// ErrSignatureMismatch is the sentinel error for signature/address mismatches.
var ErrSignatureMismatch = SignatureMismatchError{}

// RateLimitError represents a mutation rejected by the relay's rate limiter.
type RateLimitError struct {
	Key string
}

func (e RateLimitError) Error() string {
	return "rate limit exceeded"
}

func (e RateLimitError) Is(target error) bool {
	_, ok := target.(RateLimitError)
	if ok {
		return true
	}
	_, ok = target.(*RateLimitError)
	return ok
}

// ErrRateLimited is the sentinel error for rate-limited requests.
var ErrRateLimited = RateLimitError{}
