package eqcerrors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/verdict"
)

func TestKindOfUnwrapsWrappedSentinel(t *testing.T) {
	wrapped := fmt.Errorf("scope expired: %w", ErrScopeNotActive)
	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindScopeNotActive, kind)
}

func TestKindOfUnrecognizedError(t *testing.T) {
	_, ok := KindOf(fmt.Errorf("plain error"))
	assert.False(t, ok)
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, 12, KindShieldBlocked.ExitCode())
	assert.Equal(t, 13, KindWatchOnlyForbidden.ExitCode())
	assert.Equal(t, 14, KindScopeMismatch.ExitCode())
	assert.Equal(t, 15, KindNonceReplay.ExitCode())
	assert.Equal(t, 1, KindMalformedInput.ExitCode())
}

func TestExitCodeForEQCBlockedSplitsDenyAndStepUp(t *testing.T) {
	assert.Equal(t, 10, ExitCodeForEQCBlocked(verdict.DENY))
	assert.Equal(t, 11, ExitCodeForEQCBlocked(verdict.STEP_UP))
}
