package interdependence

// Wallet is the signing capability a co-signer must hold: sign an arbitrary
// message and report the signing address. A browser wallet, a hardware
// signer, or a local key can all stand behind it.
type Wallet interface {
	SignMessage(message []byte) (string, error)
	Address() string
}

// KeyWallet is a Wallet backed by a local secp256k1 private key. It produces
// personal_sign-compatible signatures, so records it signs verify the same
// way as records signed in a browser.
type KeyWallet struct {
	privateKeyHex string
	address       string
}

// NewKeyWallet constructs a wallet from a hex-encoded private key.
func NewKeyWallet(privateKeyHex string) (*KeyWallet, error) {
	address, err := AddrForKey(privateKeyHex)
	if err != nil {
		return nil, err
	}
	return &KeyWallet{
		privateKeyHex: privateKeyHex,
		address:       address,
	}, nil
}

func (w *KeyWallet) SignMessage(message []byte) (string, error) {
	return SignPersonal(message, w.privateKeyHex)
}

func (w *KeyWallet) Address() string {
	return w.address
}
