// pkg/export/exporter.go
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/David-Botos/operator-opinions/pkg/config"
	"github.com/David-Botos/operator-opinions/pkg/connector"
	"github.com/David-Botos/operator-opinions/pkg/converter"
	"github.com/David-Botos/operator-opinions/pkg/dataset"
	"github.com/David-Botos/operator-opinions/pkg/language"
	"github.com/David-Botos/operator-opinions/pkg/mention"
	"github.com/David-Botos/operator-opinions/pkg/model"
	"github.com/David-Botos/operator-opinions/pkg/sink"
	"github.com/David-Botos/operator-opinions/pkg/source"
	"github.com/David-Botos/operator-opinions/pkg/textnorm"
)

// RecordSource supplies the raw records of a run
type RecordSource interface {
	Validate(ctx context.Context) error
	FetchRecords(ctx context.Context) ([]model.Record, error)
}

// SourceOpener connects to the source; close releases the connection
type SourceOpener func(ctx context.Context) (src RecordSource, closeFn func() error, err error)

// Option customizes an Exporter
type Option func(*options)

type options struct {
	openSource SourceOpener
	classifier dataset.LanguageClassifier
}

// WithSourceOpener replaces the database-backed source
func WithSourceOpener(open SourceOpener) Option {
	return func(o *options) { o.openSource = open }
}

// WithLanguageClassifier replaces the whatlanggo flair filter
func WithLanguageClassifier(c dataset.LanguageClassifier) Option {
	return func(o *options) { o.classifier = c }
}

// Exporter runs one extract, transform and write pass
type Exporter struct {
	cfg        *config.Config
	openSource SourceOpener
	assembler  *dataset.Assembler
	writer     *sink.CSVWriter
	logger     *zap.Logger
}

// NewExporter builds the transform collaborators from cfg
func NewExporter(cfg *config.Config, logger *zap.Logger, opts ...Option) (*Exporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	assembler, err := newAssembler(cfg, o.classifier, logger)
	if err != nil {
		return nil, NewStageError(StageTransform, err)
	}

	if o.openSource == nil {
		o.openSource = databaseSource(cfg, logger)
	}

	return &Exporter{
		cfg:        cfg,
		openSource: o.openSource,
		assembler:  assembler,
		writer:     sink.NewCSVWriter(cfg.Output.Path, cfg.Output.AttributionColumn, converter.NewTypeConverter(logger.Named("converter")), logger.Named("sink")),
		logger:     logger,
	}, nil
}

func newAssembler(cfg *config.Config, classifier dataset.LanguageClassifier, logger *zap.Logger) (*dataset.Assembler, error) {
	lang, err := language.Code(cfg.Transform.Language)
	if err != nil {
		return nil, fmt.Errorf("transform language: %w", err)
	}

	ops := cfg.Transform.Operators
	preprocessor, err := textnorm.NewPreprocessor(textnorm.Options{
		Language:     lang,
		Stem:         cfg.Transform.Stem,
		StoplistPath: cfg.Transform.StoplistPath,
		Protected:    mention.Terms(ops),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create preprocessor: %w", err)
	}

	extractor, err := mention.NewExtractor(ops, cfg.Transform.MatchMode)
	if err != nil {
		return nil, fmt.Errorf("failed to create mention extractor: %w", err)
	}

	if classifier == nil {
		filter, err := language.NewFilter(language.Options{
			Target:        cfg.Language.Target,
			Candidates:    cfg.Language.Candidates,
			MinLength:     cfg.Language.MinLength,
			MinConfidence: cfg.Language.MinConfidence,
		}, nil, logger.Named("language"))
		if err != nil {
			return nil, fmt.Errorf("failed to create language filter: %w", err)
		}
		classifier = filter
	}

	return dataset.NewAssembler(
		preprocessor,
		classifier,
		extractor,
		dataset.Options{PreprocessFlair: cfg.Transform.PreprocessFlair},
		logger.Named("dataset"),
	), nil
}

// databaseSource opens the configured connector and wraps it in a repository
func databaseSource(cfg *config.Config, logger *zap.Logger) SourceOpener {
	return func(ctx context.Context) (RecordSource, func() error, error) {
		factory := connector.NewConnectorFactory(cfg, logger.Named("connector"))
		conn, err := factory.CreateSourceConnector(ctx)
		if err != nil {
			return nil, nil, err
		}

		repo, err := source.NewRepository(conn, cfg.Query, logger.Named("source"))
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		return repo, conn.Close, nil
	}
}

// Run executes the export. Any failure aborts the run, returns a *StageError
// and leaves no output file behind.
func (e *Exporter) Run(ctx context.Context) (*RunMetrics, error) {
	metrics := NewRunMetrics(e.logger)
	logger := e.logger.With(zap.String("run_id", metrics.RunID))
	logger.Info("Starting export run",
		zap.String("driver", e.cfg.Source.Driver),
		zap.String("output", e.cfg.Output.Path),
		zap.Time("start", metrics.StartTime))

	err := e.run(ctx, metrics, logger)
	if err != nil {
		metrics.Fail(StageOf(err), err)
		logger.Error("Export run failed",
			zap.String("stage", StageOf(err).String()),
			zap.Error(err))
	}
	metrics.Complete()

	if summaryErr := e.writeSummary(metrics); summaryErr != nil {
		logger.Error("Failed to write run summary", zap.Error(summaryErr))
		if err == nil {
			err = NewStageError(StageSink, summaryErr)
		}
	}
	return metrics, err
}

func (e *Exporter) run(ctx context.Context, metrics *RunMetrics, logger *zap.Logger) error {
	src, closeSource, err := e.openSource(ctx)
	if err != nil {
		return NewStageError(StageConnect, err)
	}
	defer func() {
		if err := closeSource(); err != nil {
			logger.Warn("Failed to close source", zap.Error(err))
		}
	}()

	if err := src.Validate(ctx); err != nil {
		return NewStageError(StageConnect, err)
	}

	records, err := src.FetchRecords(ctx)
	if err != nil {
		return NewStageError(StageQuery, err)
	}
	metrics.RecordFetch(len(records))

	if err := ctx.Err(); err != nil {
		return NewStageError(StageTransform, err)
	}
	rows, stats := e.assembler.Assemble(records)
	metrics.RecordAssembly(stats)

	result, err := e.writer.Write(rows)
	if err != nil {
		return NewStageError(StageSink, err)
	}
	metrics.RecordWrite(result)
	return nil
}

// writeSummary stores the JSON run summary when a path is configured
func (e *Exporter) writeSummary(metrics *RunMetrics) error {
	path := e.cfg.Output.SummaryPath
	if path == "" {
		return nil
	}

	data, err := metrics.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to encode run summary: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create summary directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write run summary: %w", err)
	}
	return nil
}
