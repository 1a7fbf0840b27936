package crypto

import "testing"

func TestNewTokenHasMinimumEntropyAndIsUnique(t *testing.T) {
	a, err := NewToken()
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	b, err := NewToken()
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	if a == b {
		t.Error("two tokens collided")
	}
	// 32 raw bytes base64-url-encoded without padding -> 43 characters.
	if len(a) < 40 {
		t.Errorf("token too short for 256 bits of entropy: %d chars", len(a))
	}
}
