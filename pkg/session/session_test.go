package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqcerrors"
)

func TestConsumeNonceSucceedsOnce(t *testing.T) {
	now := time.Now()
	s := New("w1", time.Minute, now, nil)

	nonce := s.IssueNonce()
	require.NoError(t, s.ConsumeNonce(nonce, "scope-fp", now))

	err := s.ConsumeNonce(nonce, "scope-fp", now)
	require.Error(t, err)
	kind, ok := eqcerrors.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, eqcerrors.KindNonceReplay, kind)
}

func TestConsumeNonceDifferentScopeIsIndependent(t *testing.T) {
	now := time.Now()
	s := New("w1", time.Minute, now, nil)
	nonce := s.IssueNonce()

	require.NoError(t, s.ConsumeNonce(nonce, "scope-a", now))
	require.NoError(t, s.ConsumeNonce(nonce, "scope-b", now))
}

func TestConsumeNonceExpiredSessionFailsWithSessionExpired(t *testing.T) {
	now := time.Now()
	s := New("w1", time.Second, now, nil)
	nonce := s.IssueNonce()

	err := s.ConsumeNonce(nonce, "scope-fp", now.Add(2*time.Second))
	require.Error(t, err)
	kind, ok := eqcerrors.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, eqcerrors.KindSessionExpired, kind)
}

func TestConsumeNonceLinearizableUnderConcurrency(t *testing.T) {
	now := time.Now()
	s := New("w1", time.Minute, now, nil)
	nonce := s.IssueNonce()

	const racers = 50
	var wg sync.WaitGroup
	successes := make([]bool, racers)
	wg.Add(racers)
	for i := 0; i < racers; i++ {
		go func(idx int) {
			defer wg.Done()
			successes[idx] = s.ConsumeNonce(nonce, "scope-fp", now) == nil
		}(i)
	}
	wg.Wait()

	count := 0
	for _, ok := range successes {
		if ok {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
