package core

// ingest.go runs import jobs: rows are coerced one at a time in file
// order, staged into a VehicleSink and committed every batchSize rows.
//
// A failed commit rolls back the whole batch. Every row staged since the
// last good commit moves from exitosos to fallidos and the job carries on
// with the next row, so exitosos + fallidos always equals the row count.

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/taller/internal/logging"
	"github.com/JonMunkholm/taller/internal/metrics"
)

const (
	DefaultBatchSize = 10

	// Error list caps. Failures past the cap are counted but not listed.
	ProgressErrorCap = 50
	DirectErrorCap   = 10
)

// Notifier delivers progress events to a client session. Push must not
// block and must not fail; an unknown session is ignored.
type Notifier interface {
	Push(sessionID string, event any)
}

// Importer runs import jobs against one column specification.
type Importer struct {
	columns   ColumnSpecification
	coercer   Coercer
	newSink   SinkFactory
	notifier  Notifier
	batchSize int
	onFinish  JobHook
	metrics   *metrics.Metrics
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithBatchSize sets how many rows are processed between commits.
func WithBatchSize(n int) ImporterOption {
	return func(im *Importer) {
		if n > 0 {
			im.batchSize = n
		}
	}
}

// WithJobHook registers a callback for finished jobs.
func WithJobHook(h JobHook) ImporterOption {
	return func(im *Importer) { im.onFinish = h }
}

// WithImportMetrics records job and row counters.
func WithImportMetrics(m *metrics.Metrics) ImporterOption {
	return func(im *Importer) { im.metrics = m }
}

// NewImporter creates an Importer. notifier may be nil for direct-only use.
func NewImporter(columns ColumnSpecification, newSink SinkFactory, notifier Notifier, opts ...ImporterOption) *Importer {
	im := &Importer{
		columns:   columns,
		coercer:   NewCoercer(columns),
		newSink:   newSink,
		notifier:  notifier,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Run imports req in progress mode. Events go to req.SessionID:
// progreso 0 at start, progreso after every batch commit, completado 100
// at the end, or a single error event when the file cannot be read.
func (im *Importer) Run(ctx context.Context, req ImportRequest) (ImportResult, error) {
	j := newJob(ctx, req, ModeProgress, im.onFinish)
	ctx = logging.With(ctx, "job_id", j.ID())
	log := logging.WithFields(ctx, "session_id", req.SessionID, "mode", ModeProgress)
	defer im.track(j)()

	sheet, err := ParseSheet(req.Data)
	if err != nil {
		log.Warn("import rejected", "file", req.FileName, "error", err)
		im.push(req.SessionID, ProgressEvent{Tipo: EventError, Mensaje: err.Error()})
		_ = j.fail(ctx, err, ImportResult{Errores: []string{}})
		return ImportResult{}, err
	}

	total := sheet.TotalRows()
	log.Info("import started", "file", req.FileName, "rows", total, "columns", describeColumns(sheet.Headers))
	if err := j.start(ctx); err != nil {
		return ImportResult{}, err
	}

	im.push(req.SessionID, ProgressEvent{
		Tipo:     EventProgress,
		Progreso: 0,
		Mensaje:  fmt.Sprintf("Iniciando carga de %d registros...", total),
	})

	run := newBatchRun(im.newSink(), total, ProgressErrorCap)
	for i, row := range sheet.Rows {
		run.add(im.coercer.Coerce(row, i+1))

		processed := i + 1
		if processed%im.batchSize != 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return im.abort(ctx, j, run, req.SessionID, err)
		}
		im.commit(ctx, run)

		im.push(req.SessionID, ProgressEvent{
			Tipo:     EventProgress,
			Progreso: processed * 100 / total,
			Mensaje:  fmt.Sprintf("Procesando... %d/%d", processed, total),
			Exitosos: intPtr(run.res.Exitosos),
			Fallidos: intPtr(run.res.Fallidos),
		})
	}

	if err := ctx.Err(); err != nil {
		return im.abort(ctx, j, run, req.SessionID, err)
	}
	im.commit(ctx, run)

	res := run.result()
	im.push(req.SessionID, ProgressEvent{
		Tipo:     EventCompleted,
		Progreso: 100,
		Mensaje:  "Carga completada",
		Total:    intPtr(res.Total),
		Exitosos: intPtr(res.Exitosos),
		Fallidos: intPtr(res.Fallidos),
	})

	if err := j.complete(ctx, res); err != nil {
		log.Error("job transition failed", "error", err)
	}
	log.Info("import completed", "total", res.Total, "exitosos", res.Exitosos, "fallidos", res.Fallidos)
	return res, nil
}

// RunDirect imports req without progress events. Required columns are
// checked before any row, and all accepted rows are committed once at the
// end.
func (im *Importer) RunDirect(ctx context.Context, req ImportRequest) (ImportResult, error) {
	j := newJob(ctx, req, ModeDirect, im.onFinish)
	ctx = logging.With(ctx, "job_id", j.ID())
	log := logging.WithFields(ctx, "mode", ModeDirect)
	defer im.track(j)()

	sheet, err := ParseSheet(req.Data)
	if err == nil {
		err = RequireColumns(im.columns, sheet.Headers)
	}
	if err != nil {
		log.Warn("import rejected", "file", req.FileName, "error", err)
		_ = j.fail(ctx, err, ImportResult{Errores: []string{}})
		return ImportResult{}, err
	}

	log.Info("import started", "file", req.FileName, "rows", sheet.TotalRows(), "columns", describeColumns(sheet.Headers))
	if err := j.start(ctx); err != nil {
		return ImportResult{}, err
	}

	run := newBatchRun(im.newSink(), sheet.TotalRows(), DirectErrorCap)
	for i, row := range sheet.Rows {
		run.add(im.coercer.Coerce(row, i+1))
	}

	if err := ctx.Err(); err != nil {
		_ = run.sink.Rollback(ctx)
		_ = j.fail(ctx, err, run.result())
		return ImportResult{}, err
	}
	im.commit(ctx, run)

	res := run.result()
	res.Mensaje = fmt.Sprintf("%d registros guardados correctamente.", res.Exitosos)

	if err := j.complete(ctx, res); err != nil {
		log.Error("job transition failed", "error", err)
	}
	log.Info("import completed", "total", res.Total, "exitosos", res.Exitosos, "fallidos", res.Fallidos)
	return res, nil
}

// abort stops a job whose context ended at a batch boundary. Staged rows
// are discarded and every row not yet committed counts as failed.
func (im *Importer) abort(ctx context.Context, j *job, run *batchRun, sessionID string, cause error) (ImportResult, error) {
	_ = run.sink.Rollback(context.WithoutCancel(ctx))
	run.dropStaged(cause)
	res := run.result()
	res.Fallidos = res.Total - res.Exitosos

	logging.FromContext(ctx).Warn("import aborted", "committed", res.Exitosos, "error", cause)
	im.push(sessionID, ProgressEvent{Tipo: EventError, Mensaje: FormatUserError(cause)})
	_ = j.fail(ctx, cause, res)
	return res, cause
}

func (im *Importer) commit(ctx context.Context, run *batchRun) {
	staged := len(run.staged)
	err := run.commit(ctx)
	if staged > 0 {
		im.metrics.BatchCommitted(err == nil)
	}
	if err != nil {
		logging.FromContext(ctx).Error("batch commit failed", "rows", staged, "error", err)
	}
}

// track records job metrics. The returned func runs when the job returns.
func (im *Importer) track(j *job) func() {
	start := time.Now()
	im.metrics.ImportStarted()
	return func() {
		im.metrics.ImportDone()
		im.metrics.JobFinished(string(j.rec.Mode), j.State(), time.Since(start))
		im.metrics.RowsProcessed(j.rec.Exitosos, j.rec.Fallidos)
	}
}

func (im *Importer) push(sessionID string, ev ProgressEvent) {
	if im.notifier == nil || sessionID == "" {
		return
	}
	im.notifier.Push(sessionID, ev)
}

// batchRun holds the counters of one job and the rows staged since the
// last successful commit.
type batchRun struct {
	sink     VehicleSink
	errorCap int
	staged   []int
	res      ImportResult
}

func newBatchRun(sink VehicleSink, total, errorCap int) *batchRun {
	return &batchRun{
		sink:     sink,
		errorCap: errorCap,
		res:      ImportResult{Total: total, Errores: []string{}},
	}
}

func (b *batchRun) add(r RowResult) {
	if !r.Ok() {
		b.fail(r.Message())
		return
	}
	b.sink.Add(*r.Record)
	b.staged = append(b.staged, r.Index)
	b.res.Exitosos++
}

func (b *batchRun) fail(msg string) {
	b.res.Fallidos++
	if len(b.res.Errores) < b.errorCap {
		b.res.Errores = append(b.res.Errores, msg)
	}
}

func (b *batchRun) commit(ctx context.Context) error {
	if len(b.staged) == 0 {
		return nil
	}
	if err := b.sink.Commit(ctx); err != nil {
		_ = b.sink.Rollback(ctx)
		b.dropStaged(err)
		return err
	}
	b.staged = b.staged[:0]
	return nil
}

// dropStaged reclassifies every staged row as failed.
func (b *batchRun) dropStaged(cause error) {
	code := MapError(cause).Code
	for _, idx := range b.staged {
		b.res.Exitosos--
		b.fail(fmt.Sprintf("Fila %d: error al guardar el lote (%s)", idx, code))
	}
	b.staged = b.staged[:0]
}

func (b *batchRun) result() ImportResult {
	res := b.res
	res.Errores = append(make([]string, 0, len(b.res.Errores)), b.res.Errores...)
	return res
}
