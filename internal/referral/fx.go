package referral

import (
	"github.com/smallbiznis/referralaudit/internal/referral/assembler"
	"github.com/smallbiznis/referralaudit/internal/referral/fraud"
	"github.com/smallbiznis/referralaudit/internal/referral/pipeline"
	"github.com/smallbiznis/referralaudit/internal/referral/source"
	"go.uber.org/fx"
)

var Module = fx.Module("referral",
	source.Module,
	assembler.Module,
	fraud.Module,
	pipeline.Module,
)
