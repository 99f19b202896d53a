package auth

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/cyphera/custody-vault/internal/logger"
	"github.com/cyphera/custody-vault/internal/types/business"
	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// SignerHeader lists the base58 public keys that signed the request body.
	SignerHeader = "X-Vault-Signer"
	// SignatureHeader lists the base58 ed25519 signatures, in signer order.
	SignatureHeader = "X-Vault-Signature"

	signersKey = "vaultSigners"

	// DefaultMaxBodyBytes bounds the body read for verification.
	DefaultMaxBodyBytes int64 = 1 << 20
)

// VerifySignatures checks every signature against message and returns the
// verified identities.
func VerifySignatures(signers, signatures []string, message []byte) (business.Signers, error) {
	if len(signers) != len(signatures) {
		return nil, ErrSignatureHeaderMismatch
	}

	verified := make(business.Signers, 0, len(signers))
	for i := range signers {
		pub, err := solana.PublicKeyFromBase58(strings.TrimSpace(signers[i]))
		if err != nil {
			return nil, ErrInvalidSigner
		}
		sig, err := solana.SignatureFromBase58(strings.TrimSpace(signatures[i]))
		if err != nil {
			return nil, ErrInvalidSignature
		}
		if !sig.Verify(pub, message) {
			return nil, ErrSignatureVerification
		}
		verified = append(verified, pub)
	}
	return verified, nil
}

// SignBody produces header values for body signed by key.
func SignBody(key solana.PrivateKey, body []byte) (signer string, signature string, err error) {
	sig, err := key.Sign(body)
	if err != nil {
		return "", "", err
	}
	return key.PublicKey().String(), sig.String(), nil
}

// SignatureMiddleware verifies the request body against the signer headers
// and stores the verified identities on the context. Requests without
// signer headers pass through unsigned; the vault decides which operations
// need a signature. Present but invalid signatures are rejected.
func SignatureMiddleware(maxBodyBytes int64) gin.HandlerFunc {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return func(c *gin.Context) {
		signerHeader := c.GetHeader(SignerHeader)
		signatureHeader := c.GetHeader(SignatureHeader)
		if signerHeader == "" && signatureHeader == "" {
			c.Set(signersKey, business.Signers{})
			c.Next()
			return
		}

		var body []byte
		if c.Request.Body != nil {
			var err error
			body, err = io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes+1))
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
				return
			}
			if int64(len(body)) > maxBodyBytes {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
				return
			}
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		signers, err := VerifySignatures(strings.Split(signerHeader, ","), strings.Split(signatureHeader, ","), body)
		if err != nil {
			logger.OrNop(nil).Warn("Request signature rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("signer", signerHeader),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(signersKey, signers)
		c.Next()
	}
}

// GetSigners returns the identities verified by SignatureMiddleware.
func GetSigners(c *gin.Context) business.Signers {
	if v, ok := c.Get(signersKey); ok {
		if signers, ok := v.(business.Signers); ok {
			return signers
		}
	}
	return business.Signers{}
}
