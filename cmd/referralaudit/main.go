package main

import (
	"context"
	_ "time/tzdata"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/referralaudit/internal/clock"
	"github.com/smallbiznis/referralaudit/internal/config"
	"github.com/smallbiznis/referralaudit/internal/logger"
	"github.com/smallbiznis/referralaudit/internal/observability/metrics"
	"github.com/smallbiznis/referralaudit/internal/referral"
	"github.com/smallbiznis/referralaudit/internal/referral/pipeline"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Provide(RegisterSnowflake),
		clock.Module,
		metrics.Module,

		referral.Module,

		fx.Invoke(RunAudit),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

// RunAudit runs the pipeline once after start and shuts the app down with
// exit code 1 when the run fails.
func RunAudit(lc fx.Lifecycle, shutdowner fx.Shutdowner, svc *pipeline.Service, log *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				code := 0
				if _, err := svc.Run(ctx); err != nil {
					log.Error("referral audit failed", zap.Error(err))
					code = 1
				}
				_ = shutdowner.Shutdown(fx.ExitCode(code))
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
