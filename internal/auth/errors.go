package auth

import "errors"

var (
	ErrSignatureHeaderMismatch = errors.New("signer and signature headers must list the same number of entries")
	ErrInvalidSigner           = errors.New("invalid signer public key")
	ErrInvalidSignature        = errors.New("invalid signature encoding")
	ErrSignatureVerification   = errors.New("signature does not match request body")
)
