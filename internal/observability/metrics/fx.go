package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/referralaudit/internal/config"
	"github.com/smallbiznis/referralaudit/internal/referral/assembler"
	"go.uber.org/fx"
)

var Module = fx.Module("metrics",
	fx.Provide(
		prometheus.NewRegistry,
		provideConfig,
		New,
		func(m *RunMetrics) assembler.DegradeObserver { return m },
	),
)

func provideConfig(cfg config.Config, pipeline config.PipelineConfig) Config {
	return Config{
		ServiceName:    cfg.AppName,
		Environment:    cfg.Environment,
		PushgatewayURL: cfg.PushgatewayURL,
		PushTimeout:    pipeline.PushTimeout,
	}
}
