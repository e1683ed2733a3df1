package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	db "github.com/JonMunkholm/taller/internal/database"
	"github.com/JonMunkholm/taller/internal/metrics"
)

// DefaultImportTimeout bounds a single import job.
const DefaultImportTimeout = 10 * time.Minute

var (
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when a create or update request is
	// missing required fields.
	ErrInvalidInput = errors.New("invalid input")
)

// NotFoundError reports a missing vehicle, mechanic or assignment.
type NotFoundError struct {
	Entity string
	ID     int32
}

func (e *NotFoundError) Error() string {
	suffix := "encontrado"
	if strings.HasSuffix(e.Entity, "ón") {
		suffix = "encontrada"
	}
	return fmt.Sprintf("%s %d no %s", e.Entity, e.ID, suffix)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// DB is the database handle the service needs. *pgxpool.Pool satisfies it.
type DB interface {
	db.DBTX
	TxBeginner
}

// Service provides the workshop operations: spreadsheet validation,
// preview and import, plus the vehicle, mechanic and assignment records.
type Service struct {
	queries   *db.Queries
	columns   ColumnSpecification
	importer  *Importer
	limiter   *ImportLimiter
	store     JobStore
	publisher EventPublisher
	metrics   *metrics.Metrics
	newSink   SinkFactory
	timeout   time.Duration
	batchSize int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithJobStore replaces the in-memory job history.
func WithJobStore(store JobStore) ServiceOption {
	return func(s *Service) { s.store = store }
}

// WithPublisher announces finished jobs through p.
func WithPublisher(p EventPublisher) ServiceOption {
	return func(s *Service) { s.publisher = p }
}

func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// WithLimiter sets the concurrent import limiter.
func WithLimiter(l *ImportLimiter) ServiceOption {
	return func(s *Service) { s.limiter = l }
}

// WithImportTimeout bounds each import job.
func WithImportTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithImportBatchSize sets the rows per commit in progress mode.
func WithImportBatchSize(n int) ServiceOption {
	return func(s *Service) { s.batchSize = n }
}

// WithSinkFactory replaces the Postgres sink, mainly for tests.
func WithSinkFactory(f SinkFactory) ServiceOption {
	return func(s *Service) { s.newSink = f }
}

// NewService creates a Service. conn may be nil when a sink factory is
// supplied and only the spreadsheet operations are used.
func NewService(conn DB, columns ColumnSpecification, notifier Notifier, opts ...ServiceOption) *Service {
	s := &Service{
		columns:   columns,
		limiter:   NewImportLimiter(DefaultMaxConcurrentImports, DefaultMaxWaitTime),
		store:     NewMemoryJobStore(DefaultHistoryTTL),
		timeout:   DefaultImportTimeout,
		batchSize: DefaultBatchSize,
	}
	if conn != nil {
		s.queries = db.New(conn)
		s.newSink = PgSinkFactory(conn)
	}
	for _, opt := range opts {
		opt(s)
	}

	s.importer = NewImporter(columns, s.newSink, notifier,
		WithBatchSize(s.batchSize),
		WithJobHook(s.recordJob),
		WithImportMetrics(s.metrics),
	)
	return s
}

// Columns returns the column specification imports are checked against.
func (s *Service) Columns() ColumnSpecification {
	return s.columns
}

// ValidateFile reads data and checks its headers. Only file-level
// problems are returned as errors; missing columns are reported in the
// ValidationReport.
func (s *Service) ValidateFile(data []byte) (ValidationReport, error) {
	sheet, err := ParseSheet(data)
	if err != nil {
		return ValidationReport{}, err
	}
	return ValidateColumns(s.columns, sheet.Headers, sheet.TotalRows()), nil
}

// PreviewFile returns the first PreviewRows rows of data.
func (s *Service) PreviewFile(data []byte) (PreviewResult, error) {
	sheet, err := ParseSheet(data)
	if err != nil {
		return PreviewResult{}, err
	}
	return BuildPreview(sheet, PreviewRows), nil
}

// ImportWithProgress runs a progress-mode import. The job keeps running
// if ctx is cancelled (client gone) and is bounded by the import timeout.
// A request turned away by the limiter still gets a terminal error event.
func (s *Service) ImportWithProgress(ctx context.Context, req ImportRequest) (ImportResult, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		s.NotifyRejected(req.SessionID, err)
		return ImportResult{}, err
	}
	defer s.limiter.Release()

	jobCtx, cancel := s.jobContext(ctx)
	defer cancel()
	return s.importer.Run(jobCtx, req)
}

// ImportDirect runs a direct-mode import.
func (s *Service) ImportDirect(ctx context.Context, req ImportRequest) (ImportResult, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return ImportResult{}, err
	}
	defer s.limiter.Release()

	jobCtx, cancel := s.jobContext(ctx)
	defer cancel()
	return s.importer.RunDirect(jobCtx, req)
}

// NotifyRejected pushes a terminal error event to sessionID for a progress
// import that never started.
func (s *Service) NotifyRejected(sessionID string, err error) {
	s.importer.push(sessionID, ProgressEvent{Tipo: EventError, Mensaje: FormatUserError(err)})
}

func (s *Service) jobContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
}

// Job returns the stored record of an import job.
func (s *Service) Job(ctx context.Context, id string) (JobRecord, error) {
	return s.store.Get(ctx, id)
}

// LimiterStatus reports import slot usage.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// Drain waits for running imports to finish.
func (s *Service) Drain(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// recordJob stores every job transition and publishes finished jobs.
// Failures are logged; they never affect the import itself.
func (s *Service) recordJob(ctx context.Context, rec JobRecord) {
	if err := s.store.Save(ctx, rec); err != nil {
		slog.Error("save job record failed", "job_id", rec.ID, "state", rec.State, "error", err)
	}
	if s.publisher == nil || !rec.Terminal() {
		return
	}
	if err := s.publisher.PublishJob(ctx, rec); err != nil {
		slog.Error("publish job event failed", "job_id", rec.ID, "error", err)
	}
}
