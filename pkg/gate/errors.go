package gate

import (
	"errors"
	"fmt"

	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/eqcerrors"
	"github.com/DarekDGB/DigiByte-Adamantine-Wallet/pkg/verdict"
)

// ErrUnsupportedIntent is raised by the WalletIntent adapter for actions
// the gate does not dispatch as signing operations, or for send/transfer
// intents missing a recipient or amount (intent_runtime.py's basic
// validation step).
var ErrUnsupportedIntent = errors.New("UNSUPPORTED_INTENT")

func errUnsupportedIntent(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedIntent, fmt.Sprintf(format, args...))
}

// ExecutionBlocked is the single composite error the gate surfaces to
// its caller (spec §7 policy): it carries the specific error kind as
// structured data rather than forcing callers to string-match. When the
// block originated from an EQC decision, Verdict holds the verdict that
// caused it.
type ExecutionBlocked struct {
	Kind    eqcerrors.Kind
	Verdict *verdict.Verdict
	Cause   error
}

func (e *ExecutionBlocked) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("execution blocked (%s): %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("execution blocked (%s)", e.Kind)
}

func (e *ExecutionBlocked) Unwrap() error {
	return e.Cause
}
