package config

import (
	"errors"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

// PipelineConfig controls how referral extracts are read, assembled and reported.
type PipelineConfig struct {
	FallbackTimezone string        `mapstructure:"fallbackTimezone"`
	TruthyTokens     []string      `mapstructure:"truthyTokens"`
	Inputs           InputFiles    `mapstructure:"inputs"`
	Outputs          OutputFiles   `mapstructure:"outputs"`
	PushTimeout      time.Duration `mapstructure:"pushTimeout"`
}

// InputFiles names the seven extract files inside DATA_DIR. SQL sources read
// tables named after the extracts instead.
type InputFiles struct {
	Leads        string `mapstructure:"leads"`
	Referrals    string `mapstructure:"referrals"`
	ReferralLogs string `mapstructure:"referralLogs"`
	Users        string `mapstructure:"users"`
	Statuses     string `mapstructure:"statuses"`
	Rewards      string `mapstructure:"rewards"`
	Transactions string `mapstructure:"transactions"`
}

type OutputFiles struct {
	Report     string `mapstructure:"report"`
	Profile    string `mapstructure:"profile"`
	Summary    string `mapstructure:"summary"`
	SummaryPDF bool   `mapstructure:"summaryPdf"`
}

func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		FallbackTimezone: "Asia/Jakarta",
		TruthyTokens:     []string{"TRUE"},
		Inputs: InputFiles{
			Leads:        "lead_log(in).csv",
			Referrals:    "user_referrals(in).csv",
			ReferralLogs: "user_referral_logs(in).csv",
			Users:        "user_logs(in).csv",
			Statuses:     "user_referral_statuses(in).csv",
			Rewards:      "referral_rewards(in).csv",
			Transactions: "paid_transactions(in).csv",
		},
		Outputs: OutputFiles{
			Report:     "referral_fraud_detection_report.csv",
			Profile:    "data_profiling_report.csv",
			Summary:    "referral_fraud_summary.pdf",
			SummaryPDF: true,
		},
		PushTimeout: 10 * time.Second,
	}
}

// NewPipelineConfig reads referral.yml from PIPELINE_CONFIG or the standard
// locations, falling back to defaults for anything not set.
func NewPipelineConfig(cfg Config) (PipelineConfig, error) {
	return loadPipelineConfig(cfg.PipelineConfigPath, "/etc/referralaudit", ".")
}

func loadPipelineConfig(path string, searchDirs ...string) (PipelineConfig, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("referral")
		v.SetConfigType("yml")
		for _, dir := range searchDirs {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix("REFERRAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setPipelineDefaults(v, DefaultPipelineConfig())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return PipelineConfig{}, err
		}
	}

	// Unmarshal walks every key, so file values merge with the defaults.
	var root struct {
		Pipeline PipelineConfig `mapstructure:"pipeline"`
	}
	if err := v.Unmarshal(&root); err != nil {
		return PipelineConfig{}, err
	}
	cfg := root.Pipeline
	if err := validatePipelineConfig(cfg); err != nil {
		return PipelineConfig{}, err
	}
	return cfg, nil
}

func setPipelineDefaults(v *viper.Viper, d PipelineConfig) {
	v.SetDefault("pipeline.fallbackTimezone", d.FallbackTimezone)
	v.SetDefault("pipeline.truthyTokens", d.TruthyTokens)
	v.SetDefault("pipeline.pushTimeout", d.PushTimeout)

	v.SetDefault("pipeline.inputs.leads", d.Inputs.Leads)
	v.SetDefault("pipeline.inputs.referrals", d.Inputs.Referrals)
	v.SetDefault("pipeline.inputs.referralLogs", d.Inputs.ReferralLogs)
	v.SetDefault("pipeline.inputs.users", d.Inputs.Users)
	v.SetDefault("pipeline.inputs.statuses", d.Inputs.Statuses)
	v.SetDefault("pipeline.inputs.rewards", d.Inputs.Rewards)
	v.SetDefault("pipeline.inputs.transactions", d.Inputs.Transactions)

	v.SetDefault("pipeline.outputs.report", d.Outputs.Report)
	v.SetDefault("pipeline.outputs.profile", d.Outputs.Profile)
	v.SetDefault("pipeline.outputs.summary", d.Outputs.Summary)
	v.SetDefault("pipeline.outputs.summaryPdf", d.Outputs.SummaryPDF)
}

func validatePipelineConfig(cfg PipelineConfig) error {
	if strings.TrimSpace(cfg.FallbackTimezone) == "" {
		return errors.New("pipeline.fallbackTimezone cannot be empty")
	}
	if _, err := time.LoadLocation(cfg.FallbackTimezone); err != nil {
		return errors.New("pipeline.fallbackTimezone is not a known zone: " + cfg.FallbackTimezone)
	}
	if len(cfg.TruthyTokens) == 0 {
		return errors.New("pipeline.truthyTokens cannot be empty")
	}
	in := cfg.Inputs
	for _, name := range []string{in.Leads, in.Referrals, in.ReferralLogs, in.Users, in.Statuses, in.Rewards, in.Transactions} {
		if strings.TrimSpace(name) == "" {
			return errors.New("pipeline.inputs entries cannot be empty")
		}
	}
	out := cfg.Outputs
	if strings.TrimSpace(out.Report) == "" {
		return errors.New("pipeline.outputs.report cannot be empty")
	}
	if strings.TrimSpace(out.Profile) == "" {
		return errors.New("pipeline.outputs.profile cannot be empty")
	}
	if out.SummaryPDF && strings.TrimSpace(out.Summary) == "" {
		return errors.New("pipeline.outputs.summary cannot be empty when summaryPdf is enabled")
	}
	return nil
}
