package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"plateflow/internal/config"
	"plateflow/internal/converter"
	"plateflow/internal/journal"
	"plateflow/internal/logging"
	"plateflow/internal/plate"
	"plateflow/internal/publish"
	"plateflow/internal/runner"
	"plateflow/internal/services"
	"plateflow/internal/sheet"
	"plateflow/internal/shotdb"
	"plateflow/internal/versioning"
)

// Options selects what one pipeline run processes.
type Options struct {
	SheetPath string
	// Selected are sheet row indices to process. Nil means every checked row.
	Selected     []int
	Colorspace   string
	FrameOutputs bool
	ApplyRetime  bool
}

// Result summarizes a finished run.
type Result struct {
	BatchID   string
	Records   []plate.Record
	Jobs      []converter.Job
	Converted []converter.Job
	Failed    []runner.Outcome
	Publish   publish.Summary
}

// Option configures the pipeline.
type Option func(*Pipeline)

// WithRunner injects a custom runner (primarily for tests).
func WithRunner(r *runner.Runner) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.runner = r
		}
	}
}

// WithLock injects a custom publish lock.
func WithLock(l *journal.Lock) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.lock = l
		}
	}
}

// Pipeline sequences one batch from sheet to published versions.
type Pipeline struct {
	cfg    *config.Config
	store  *journal.Store
	client shotdb.Client
	logger *slog.Logger
	runner *runner.Runner
	lock   *journal.Lock
}

// New constructs a pipeline with initialized dependencies.
func New(cfg *config.Config, store *journal.Store, client shotdb.Client, logger *slog.Logger, opts ...Option) (*Pipeline, error) {
	if cfg == nil || store == nil || client == nil {
		return nil, errors.New("pipeline requires config, journal store, and tracking client")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	p := &Pipeline{
		cfg:    cfg,
		store:  store,
		client: client,
		logger: logger,
		lock:   journal.NewLock(cfg),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.runner == nil {
		runnerOpts := []runner.Option{
			runner.WithMaxParallel(cfg.Converter.MaxParallel),
		}
		if timeout := cfg.Converter.Timeout(); timeout > 0 {
			runnerOpts = append(runnerOpts, runner.WithTimeout(timeout))
		}
		r, err := runner.New(cfg.ConverterBinary(), logger, runnerOpts...)
		if err != nil {
			return nil, fmt.Errorf("build runner: %w", err)
		}
		p.runner = r
	}
	return p, nil
}

// Run executes the full batch: normalize, group, resolve, generate, convert,
// publish, cleanup. The first stage error aborts the batch; individual
// conversion or publish failures only exclude their shot.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.SheetPath == "" {
		return nil, errors.New("sheet path required")
	}
	if opts.Colorspace == "" {
		return nil, errors.New("colorspace required")
	}

	if err := p.lock.Acquire(); err != nil {
		return nil, err
	}
	defer func() { _ = p.lock.Release() }()

	batch, err := p.store.NewBatch(ctx, opts.SheetPath, opts.Colorspace, "")
	if err != nil {
		return nil, fmt.Errorf("open batch: %w", err)
	}

	ctx = services.WithBatchID(ctx, batch.ID)
	logger := logging.WithContext(ctx, p.logger)
	logger.Info("batch started", logging.String("sheet", opts.SheetPath))

	result, err := p.run(ctx, logger, batch.ID, opts)
	if err != nil {
		_ = p.store.FinishBatch(ctx, batch.ID, journal.BatchFailed, err.Error())
		logger.Error("batch failed", logging.Error(err))
		return nil, err
	}

	if err := p.store.FinishBatch(ctx, batch.ID, journal.BatchCompleted, ""); err != nil {
		return nil, fmt.Errorf("close batch: %w", err)
	}
	logger.Info("batch completed",
		logging.Int("shots", len(result.Records)),
		logging.Int("published", len(result.Publish.Published)),
		logging.Int("skipped", len(result.Publish.Skipped)),
		logging.Int("failed_jobs", len(result.Failed)))
	result.BatchID = batch.ID
	return result, nil
}

// enterStage records the transition in the journal and rescopes the context
// and logger so every log line downstream carries the stage name.
func (p *Pipeline) enterStage(ctx context.Context, batchID string, stage journal.Stage) (context.Context, *slog.Logger, error) {
	if err := p.store.SetStage(ctx, batchID, stage); err != nil {
		return ctx, nil, err
	}
	ctx = services.WithStage(ctx, string(stage))
	logger := logging.WithContext(ctx, p.logger)
	logger.Info("stage started", logging.String(logging.FieldEventType, "stage_start"))
	return ctx, logger, nil
}

func (p *Pipeline) run(ctx context.Context, logger *slog.Logger, batchID string, opts Options) (*Result, error) {
	// normalize
	ctx = services.WithStage(ctx, string(journal.StageNormalize))
	logger = logging.WithContext(ctx, p.logger)
	table, err := sheet.Load(opts.SheetPath)
	if err != nil {
		return nil, err
	}
	selected := opts.Selected
	if selected == nil {
		selected = table.Checked()
	}
	rows := sheet.Normalize(table, selected, logger)
	if len(rows) == 0 {
		return nil, services.Wrap(services.ErrValidation, "normalize", "select rows",
			"no usable rows selected", nil)
	}

	// group
	ctx, logger, err = p.enterStage(ctx, batchID, journal.StageGroup)
	if err != nil {
		return nil, err
	}
	records, err := plate.Group(rows)
	if err != nil {
		return nil, err
	}

	// resolve
	ctx, logger, err = p.enterStage(ctx, batchID, journal.StageResolve)
	if err != nil {
		return nil, err
	}
	// The snapshot read here and the version entries created at publish are
	// not atomic. A concurrent run against the same project can assign the
	// same number; the lock only serializes runs on this host.
	codes, err := p.client.FindVersionCodes(ctx)
	if err != nil {
		return nil, err
	}
	selections := make([]versioning.Selection, len(records))
	for i, record := range records {
		selections[i] = versioning.Selection{RowID: i, Shot: record.Shot, Type: record.Type.Scalar()}
	}
	assigned := versioning.Resolve(codes, selections, opts.Colorspace)
	for i := range records {
		records[i].Version = assigned[i]
	}

	// generate
	ctx, logger, err = p.enterStage(ctx, batchID, journal.StageGenerate)
	if err != nil {
		return nil, err
	}
	codec := p.codecLabel(ctx, logger)
	if err := p.store.SetCodec(ctx, batchID, codec); err != nil {
		return nil, err
	}
	jobOpts := converter.Options{
		FrameOutputs: opts.FrameOutputs,
		ApplyRetime:  opts.ApplyRetime,
		Colorspace:   opts.Colorspace,
		CodecLabel:   codec,
	}
	jobs := make([]converter.Job, len(records))
	for i, record := range records {
		job, err := converter.Build(record, jobOpts)
		if err != nil {
			return nil, err
		}
		if err := converter.WriteScript(&job, p.cfg.Paths.ScriptDir); err != nil {
			return nil, err
		}
		jobs[i] = job
	}

	// convert
	ctx, logger, err = p.enterStage(ctx, batchID, journal.StageConvert)
	if err != nil {
		return nil, err
	}
	converted := p.runner.Execute(ctx, jobs)
	for _, outcome := range converted.Failed {
		p.recordJob(ctx, logger, journal.JobEntry{
			BatchID:    batchID,
			Sequence:   outcome.Job.Sequence,
			Shot:       outcome.Job.Shot,
			Version:    outcome.Job.Version,
			ScriptPath: outcome.Job.ScriptPath,
			Status:     journal.JobFailed,
			ExitCode:   outcome.ExitCode,
			Duration:   outcome.Duration,
			Detail:     outcome.Err.Error(),
		})
	}

	// publish
	ctx, logger, err = p.enterStage(ctx, batchID, journal.StagePublish)
	if err != nil {
		return nil, err
	}
	byKey := make(map[plate.Key]plate.Record, len(records))
	for _, record := range records {
		byKey[record.ShotKey()] = record
	}
	items := make([]publish.Item, 0, len(converted.Completed))
	for _, outcome := range converted.Completed {
		key := plate.Key{Sequence: outcome.Job.Sequence, Shot: outcome.Job.Shot}
		items = append(items, publish.Item{Record: byKey[key], Job: outcome.Job})
	}
	publisher, err := publish.New(p.client, logger)
	if err != nil {
		return nil, err
	}
	summary := publisher.PublishAll(ctx, items)
	p.journalPublish(ctx, logger, batchID, converted, summary)

	// cleanup
	ctx, logger, err = p.enterStage(ctx, batchID, journal.StageCleanup)
	if err != nil {
		return nil, err
	}
	if err := converter.RemoveScripts(converted.CompletedJobs()); err != nil {
		logger.Warn("cleanup incomplete", logging.Error(err))
	}

	return &Result{
		Records:   records,
		Jobs:      jobs,
		Converted: converted.CompletedJobs(),
		Failed:    converted.Failed,
		Publish:   summary,
	}, nil
}

// codecLabel asks the tracking database for the project codec and falls back
// to the configured default when the lookup fails or returns a label the
// conversion tool cannot use.
func (p *Pipeline) codecLabel(ctx context.Context, logger *slog.Logger) string {
	label, err := p.client.ProjectCodec(ctx)
	if err != nil || label == "" {
		if err != nil {
			logger.Warn("project codec lookup failed, using default",
				logging.Error(err),
				logging.String("default", p.cfg.Converter.DefaultCodec))
		}
		return p.cfg.Converter.DefaultCodec
	}
	if _, ok := converter.CodecFourCC(label); !ok {
		logger.Warn("project codec unsupported, using default",
			logging.String("codec", label),
			logging.String("default", p.cfg.Converter.DefaultCodec))
		return p.cfg.Converter.DefaultCodec
	}
	return label
}

func (p *Pipeline) journalPublish(ctx context.Context, logger *slog.Logger, batchID string, converted runner.Result, summary publish.Summary) {
	entry := func(item publish.Item, status journal.JobStatus, detail string) journal.JobEntry {
		duration := jobDuration(converted, item.Job.Sequence, item.Job.Shot)
		return journal.JobEntry{
			BatchID:    batchID,
			Sequence:   item.Job.Sequence,
			Shot:       item.Job.Shot,
			Version:    item.Job.Version,
			ScriptPath: item.Job.ScriptPath,
			Status:     status,
			Duration:   duration,
			Detail:     detail,
		}
	}
	for _, outcome := range summary.Published {
		p.recordJob(ctx, logger, entry(outcome.Item, journal.JobPublished, outcome.Version.Code))
	}
	for _, outcome := range summary.Skipped {
		p.recordJob(ctx, logger, entry(outcome.Item, journal.JobSkipped, outcome.Err.Error()))
	}
	for _, outcome := range summary.Failed {
		p.recordJob(ctx, logger, entry(outcome.Item, journal.JobFailed, outcome.Err.Error()))
	}
}

func (p *Pipeline) recordJob(ctx context.Context, logger *slog.Logger, entry journal.JobEntry) {
	if err := p.store.RecordJob(ctx, entry); err != nil {
		logger.Warn("journal write failed",
			logging.String(logging.FieldShot, entry.Shot),
			logging.Error(err))
	}
}

func jobDuration(converted runner.Result, sequence, shot string) time.Duration {
	for _, outcome := range converted.Completed {
		if outcome.Job.Sequence == sequence && outcome.Job.Shot == shot {
			return outcome.Duration
		}
	}
	return 0
}
