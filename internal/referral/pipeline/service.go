// Package pipeline runs one referral audit: load, profile, assemble, evaluate
// and write the reports.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/referralaudit/internal/clock"
	"github.com/smallbiznis/referralaudit/internal/config"
	"github.com/smallbiznis/referralaudit/internal/observability/metrics"
	"github.com/smallbiznis/referralaudit/internal/referral/assembler"
	"github.com/smallbiznis/referralaudit/internal/referral/domain"
	"github.com/smallbiznis/referralaudit/internal/referral/fraud"
	"github.com/smallbiznis/referralaudit/internal/referral/profiling"
	"github.com/smallbiznis/referralaudit/internal/referral/report"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config    config.Config
	Pipeline  config.PipelineConfig
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Source    domain.Source
	Assembler *assembler.Assembler
	Engine    *fraud.Engine
	Metrics   *metrics.RunMetrics `optional:"true"`
}

// Result describes a completed run.
type Result struct {
	RunID      snowflake.ID
	StartedAt  time.Time
	FinishedAt time.Time
	Summary    fraud.Summary
	Records    []domain.ReferralRecord
	Profiles   []profiling.ColumnProfile
	Outputs    []string
}

type Service struct {
	cfg       config.Config
	pipeline  config.PipelineConfig
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	source    domain.Source
	assembler *assembler.Assembler
	engine    *fraud.Engine
	metrics   *metrics.RunMetrics
}

func New(p Params) *Service {
	return &Service{
		cfg:       p.Config,
		pipeline:  p.Pipeline,
		log:       p.Log.Named("referral.pipeline"),
		genID:     p.GenID,
		clock:     p.Clock,
		source:    p.Source,
		assembler: p.Assembler,
		engine:    p.Engine,
		metrics:   p.Metrics,
	}
}

// Run executes one audit. It fails only when an extract is missing or an
// output cannot be written; row-level problems degrade fields instead.
func (s *Service) Run(ctx context.Context) (Result, error) {
	runID := s.genID.Generate()
	startedAt := s.clock.Now()
	log := s.log.With(zap.String("run_id", runID.String()))

	log.Info("referral audit started",
		zap.String("source", s.cfg.SourceType),
		zap.String("output_dir", s.cfg.OutputDir),
	)

	tables, err := s.source.Load(ctx)
	if err != nil {
		log.Error("failed to load extracts", zap.Error(err))
		return Result{}, err
	}
	if missing := tables.Missing(); len(missing) > 0 {
		return Result{}, fmt.Errorf("%w: %s", domain.ErrMissingTable, strings.Join(missing, ", "))
	}

	assembler.Normalize(tables)
	profiles := profiling.Profile(tables)

	records, err := s.assembler.Assemble(tables)
	if err != nil {
		log.Error("failed to assemble referrals", zap.Error(err))
		return Result{}, err
	}
	summary := s.engine.Apply(records)

	result := Result{
		RunID:     runID,
		StartedAt: startedAt,
		Summary:   summary,
		Records:   records,
		Profiles:  profiles,
	}

	outputs, err := s.writeOutputs(result)
	if err != nil {
		log.Error("failed to write reports", zap.Error(err))
		return Result{}, err
	}
	result.Outputs = outputs
	result.FinishedAt = s.clock.Now()

	s.metrics.ObserveRun(summary, result.FinishedAt.Sub(startedAt), result.FinishedAt)
	if s.metrics.PushEnabled() {
		if err := s.metrics.Push(ctx, runID.String()); err != nil {
			log.Warn("failed to push run metrics", zap.Error(err))
		}
	}

	fields := []zap.Field{
		zap.Int("referrals", summary.Total),
		zap.Int("valid", summary.Valid),
		zap.Int("flagged", summary.Flagged),
		zap.Duration("elapsed", result.FinishedAt.Sub(startedAt)),
		zap.Strings("outputs", outputs),
	}
	for _, rc := range summary.ByRule {
		if rc.Count > 0 {
			fields = append(fields, zap.Int("rule."+rc.Rule.Code, rc.Count))
		}
	}
	log.Info("referral audit completed", fields...)

	return result, nil
}

func (s *Service) writeOutputs(result Result) ([]string, error) {
	dir := s.cfg.OutputDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	out := s.pipeline.Outputs
	var written []string

	write := func(name string, render func(io.Writer) error) error {
		path := filepath.Join(dir, name)
		if err := writeFile(path, render); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
		return nil
	}

	if err := write(out.Report, func(w io.Writer) error {
		return report.WriteRecords(w, result.Records)
	}); err != nil {
		return nil, err
	}
	if err := write(out.Profile, func(w io.Writer) error {
		return report.WriteProfile(w, result.Profiles)
	}); err != nil {
		return nil, err
	}
	if out.SummaryPDF {
		doc, err := report.RenderSummaryPDF(report.SummaryData{
			RunID:       result.RunID.String(),
			GeneratedAt: result.StartedAt,
			Source:      s.cfg.SourceType,
			Summary:     result.Summary,
			Records:     result.Records,
		})
		if err != nil {
			return nil, fmt.Errorf("render summary: %w", err)
		}
		if err := write(out.Summary, func(w io.Writer) error {
			_, err := w.Write(doc)
			return err
		}); err != nil {
			return nil, err
		}
	}
	return written, nil
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
