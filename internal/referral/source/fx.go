package source

import (
	"context"
	"fmt"

	"github.com/smallbiznis/referralaudit/internal/config"
	"github.com/smallbiznis/referralaudit/internal/referral/domain"
	"github.com/smallbiznis/referralaudit/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("referral.source",
	fx.Provide(New),
)

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Pipeline  config.PipelineConfig
	Log       *zap.Logger
}

// New selects the table source from SOURCE_TYPE. SQL connections are closed on stop.
func New(p Params) (domain.Source, error) {
	switch p.Config.SourceType {
	case config.SourceCSV, "":
		return NewCSVSource(p.Config.DataDir, p.Pipeline.Inputs, p.Log), nil
	case config.SourcePostgres, config.SourceMySQL, config.SourceSQLite:
		conn, err := db.Open(p.Config)
		if err != nil {
			return nil, fmt.Errorf("open %s source: %w", p.Config.SourceType, err)
		}
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, err
		}
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return sqlDB.Close()
			},
		})
		return NewSQLSource(conn, p.Log), nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedSource, p.Config.SourceType)
	}
}
