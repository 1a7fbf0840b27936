package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigDisabled(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, "eqc-gate", cfg.ServiceName)
	require.False(t, cfg.Enabled)
}

func TestNewDisabledProviderIsNoop(t *testing.T) {
	p, err := New(context.Background(), DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, p)

	ctx, done := p.StartDecide(context.Background(), "w1")
	done("ALLOW", nil)

	_, doneExec := p.StartExecute(ctx, "w1", "send")
	doneExec("", errors.New("boom"))

	require.NoError(t, p.Shutdown(context.Background()))
}

func TestPromMetricsHandlerServes(t *testing.T) {
	m := NewPromMetrics()
	require.NotNil(t, m.Handler())
	m.Decisions.WithLabelValues("ALLOW").Inc()
	m.Blocked.WithLabelValues("EQC_BLOCKED").Inc()
}
