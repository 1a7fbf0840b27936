package gate

import (
	"crypto/ed25519"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/crypto"
)

// ReceiptClaims is the signed, time-bound record a caller can hand to a
// downstream auditor without re-deriving trust in this process — the
// gate's result plus enough identifying context to tie it back to the
// intent that produced it.
type ReceiptClaims struct {
	jwt.RegisteredClaims
	WalletID           string `json:"wallet_id"`
	Action             string `json:"action"`
	ContextFingerprint string `json:"context_fingerprint"`
}

// ReceiptSigner issues ExecutionReceipts. KeyID is carried in the JWT
// header so a verifier holding multiple public keys can select the
// right one.
type ReceiptSigner struct {
	privKey ed25519.PrivateKey
	pubKey  ed25519.PublicKey
	KeyID   string
	Issuer  string
}

// NewReceiptSigner wraps a key pair for receipt issuance.
func NewReceiptSigner(priv ed25519.PrivateKey, pub ed25519.PublicKey, keyID, issuer string) *ReceiptSigner {
	return &ReceiptSigner{privKey: priv, pubKey: pub, KeyID: keyID, Issuer: issuer}
}

// NewReceiptSignerFromKey builds a ReceiptSigner from a process-wide
// crypto.Ed25519Signer, so callers that already hold a signing identity
// (cmd/eqcgate's serve subcommand) don't juggle raw key bytes twice.
func NewReceiptSignerFromKey(signer *crypto.Ed25519Signer, issuer string) *ReceiptSigner {
	return &ReceiptSigner{
		privKey: signer.SigningKey(),
		pubKey:  ed25519.PublicKey(signer.PublicKeyBytes()),
		KeyID:   signer.KeyID,
		Issuer:  issuer,
	}
}

// Issue signs an ExecutionReceipt for a successful guarded execution,
// valid for ttl starting at now.
func (s *ReceiptSigner) Issue(walletID, action, contextFingerprint string, ttl time.Duration, now time.Time) (string, error) {
	claims := ReceiptClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    s.Issuer,
			Subject:   walletID,
		},
		WalletID:           walletID,
		Action:             action,
		ContextFingerprint: contextFingerprint,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	token.Header["kid"] = s.KeyID

	signed, err := token.SignedString(s.privKey)
	if err != nil {
		return "", fmt.Errorf("gate: receipt signing failed: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a receipt previously issued by a signer
// holding the matching private key.
func (s *ReceiptSigner) Verify(receipt string) (*ReceiptClaims, error) {
	claims := &ReceiptClaims{}
	token, err := jwt.ParseWithClaims(receipt, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("gate: unexpected signing method %v", t.Header["alg"])
		}
		return s.pubKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return claims, nil
}
