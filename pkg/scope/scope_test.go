package scope

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromTTLRejectsNonPositive(t *testing.T) {
	_, err := FromTTL("w1", "send", "fp", 0, time.Now())
	require.Error(t, err)
}

func TestAssertActiveWindow(t *testing.T) {
	now := time.Now()
	s, err := FromTTL("w1", "send", "fp", 30*time.Second, now)
	require.NoError(t, err)

	require.NoError(t, s.AssertActive(now.Add(10*time.Second)))
	require.Error(t, s.AssertActive(now.Add(-time.Second)))
	require.Error(t, s.AssertActive(now.Add(31*time.Second)))
}

func TestAssertActionCaseInsensitive(t *testing.T) {
	s, err := FromTTL("w1", "Send", "fp", 30*time.Second, time.Now())
	require.NoError(t, err)
	assert.NoError(t, s.AssertAction("send"))
	assert.NoError(t, s.AssertAction("SEND"))
}

func TestFingerprintDeterministic(t *testing.T) {
	now := time.Now()
	s, err := FromTTL("w1", "send", "fp", 30*time.Second, now)
	require.NoError(t, err)

	f1, err := s.Fingerprint()
	require.NoError(t, err)
	f2, err := s.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, f1, f2)
}

func TestFingerprintChangesWithContext(t *testing.T) {
	now := time.Now()
	s1, _ := FromTTL("w1", "send", "fp-a", 30*time.Second, now)
	s2, _ := FromTTL("w1", "send", "fp-b", 30*time.Second, now)

	f1, err := s1.Fingerprint()
	require.NoError(t, err)
	f2, err := s2.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, f1, f2)
}
