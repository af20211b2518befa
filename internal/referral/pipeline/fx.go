package pipeline

import "go.uber.org/fx"

var Module = fx.Module("referral.pipeline",
	fx.Provide(New),
)
