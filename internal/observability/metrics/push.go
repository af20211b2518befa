package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus/push"
)

const pushJob = "referral_audit"

// Push sends the registry to the configured Pushgateway, grouped by run ID.
// Service and env travel as constant labels on every series.
// It is a no-op when no Pushgateway is configured.
func (m *RunMetrics) Push(ctx context.Context, runID string) error {
	if m == nil || m.cfg.PushgatewayURL == "" {
		return nil
	}
	if m.cfg.PushTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.PushTimeout)
		defer cancel()
	}

	err := push.New(m.cfg.PushgatewayURL, pushJob).
		Gatherer(m.registry).
		Grouping("run_id", runID).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}

func (m *RunMetrics) PushEnabled() bool {
	return m != nil && m.cfg.PushgatewayURL != ""
}
