package interdependence

// Ledger tag names. These are the wire schema: existing ledger data is tagged
// with exactly these literals, so they must never change.
const (
	TagDocType     = "interdependence_doc_type"
	TagDocOrigin   = "interdependence_doc_origin"
	TagDocRef      = "interdependence_doc_ref"
	TagSigName     = "interdependence_sig_name"
	TagSigHandle   = "interdependence_sig_handle"
	TagSigAddr     = "interdependence_sig_addr"
	TagSigVerified = "interdependence_sig_verified"
)

// Document type tag values.
const (
	DocTypeDeclaration = "declaration"
	DocTypeSignature   = "signature"
)

// TrustedPublisher is the ledger address whose tagged transactions are
// treated as authoritative for declarations and signatures. Records published
// by anyone else are ignored regardless of their tags.
const TrustedPublisher = "aek33fcNH1qbb-SsDEqBF1KDWb8R1mxX6u4QGoo3tAs"

// HandleNull is the sentinel a publisher writes when no handle was provided.
// HandleUnsigned is what it is normalized to in outward-facing results.
const (
	HandleNull     = "null"
	HandleUnsigned = "UNSIGNED"
)

// Tags is a transaction's decoded key/value tag set. Unrecognized keys are
// carried but ignored by the codec.
type Tags map[string]string

// IsDeclaration reports whether the tag set denotes a declaration document.
func (t Tags) IsDeclaration() bool {
	return t[TagDocType] == DocTypeDeclaration
}

// IsSignature reports whether the tag set denotes a signature document.
func (t Tags) IsSignature() bool {
	return t[TagDocType] == DocTypeSignature
}

// Ref returns the declaration transaction this document references.
func (t Tags) Ref() string {
	return t[TagDocRef]
}

// NormalizeHandle maps the "null" sentinel to the UNSIGNED marker. Any other
// value passes through unchanged.
func NormalizeHandle(handle string) string {
	if handle == HandleNull {
		return HandleUnsigned
	}
	return handle
}

// ParseSignature extracts a SignatureRecord from a candidate's tag set.
// A candidate missing any required signer tag is malformed and rejected;
// the verified flag is true only for the exact string "true".
func (t Tags) ParseSignature(txID string) (SignatureRecord, bool) {
	addr, ok := t[TagSigAddr]
	if !ok {
		return SignatureRecord{}, false
	}
	name, ok := t[TagSigName]
	if !ok {
		return SignatureRecord{}, false
	}
	handle, ok := t[TagSigHandle]
	if !ok {
		return SignatureRecord{}, false
	}
	verified, ok := t[TagSigVerified]
	if !ok {
		return SignatureRecord{}, false
	}

	return SignatureRecord{
		ID:       txID,
		Address:  addr,
		Name:     name,
		Handle:   NormalizeHandle(handle),
		Verified: verified == "true",
	}, true
}
