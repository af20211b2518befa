package assembler

import (
	"github.com/smallbiznis/referralaudit/internal/config"
	"go.uber.org/fx"
)

func ProvideConfig(cfg config.PipelineConfig) Config {
	return Config{
		FallbackTimezone: cfg.FallbackTimezone,
		TruthyTokens:     cfg.TruthyTokens,
	}
}

var Module = fx.Module("referral.assembler",
	fx.Provide(ProvideConfig),
	fx.Provide(New),
)
