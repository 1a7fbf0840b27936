package crypto

import "testing"

func TestSignerSignAndVerifyRoundTrip(t *testing.T) {
	signer, err := NewEd25519Signer("key-1")
	if err != nil {
		t.Fatalf("failed to create signer: %v", err)
	}

	data := []byte("context-fingerprint-abc123")
	sig, err := signer.Sign(data)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if sig == "" {
		t.Fatal("signature empty")
	}

	valid, err := Verify(signer.PublicKey(), sig, data)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !valid {
		t.Error("valid signature rejected")
	}

	tampered := append([]byte(nil), data...)
	tampered[0] ^= 0xFF
	valid, _ = Verify(signer.PublicKey(), sig, tampered)
	if valid {
		t.Error("tampered payload accepted")
	}
}

func TestSignerFromKeyExposesSameSigningKey(t *testing.T) {
	signer, err := NewEd25519Signer("key-2")
	if err != nil {
		t.Fatalf("failed to create signer: %v", err)
	}

	wrapped := NewEd25519SignerFromKey(signer.SigningKey(), "key-2")
	if wrapped.PublicKey() != signer.PublicKey() {
		t.Error("wrapped signer public key mismatch")
	}
}
