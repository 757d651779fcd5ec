package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dealerportal/partsfeed/internal/events"
	"github.com/dealerportal/partsfeed/internal/ingest"
	"github.com/dealerportal/partsfeed/internal/store"
	"github.com/dealerportal/partsfeed/internal/store/model"
	"github.com/dealerportal/partsfeed/internal/tabular"
	"github.com/dealerportal/partsfeed/pkg/log"
	"github.com/dealerportal/partsfeed/pkg/metrics"
	"github.com/dealerportal/partsfeed/pkg/reports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ReasonNoValidRows = "No valid rows matched the selected category."

	auditEntityBatch = "batch"
)

// EventWriter is satisfied by events.EventProducer.
type EventWriter interface {
	Write(ctx context.Context, kind string, body io.Reader) error
}

type UploadRequest struct {
	Type       model.BatchType
	Filename   string
	UploadedBy string
	// Format defaults to the one implied by Filename.
	Format  tabular.Format
	Content io.Reader
}

type UploadResult struct {
	Batch       *model.Batch
	Applied     int
	Rejected    int
	Skipped     int
	Stale       int
	Deactivated int64
}

type UploadService struct {
	store     store.Store
	reports   reports.Store
	events    EventWriter
	chunkSize int
	now       func() time.Time
	logger    *log.StructuredLogger
}

type UploadOption func(u *UploadService)

func WithChunkSize(size int) UploadOption {
	return func(u *UploadService) {
		if size > 0 {
			u.chunkSize = size
		}
	}
}

func WithEventWriter(w EventWriter) UploadOption {
	return func(u *UploadService) {
		u.events = w
	}
}

func WithClock(now func() time.Time) UploadOption {
	return func(u *UploadService) {
		u.now = now
	}
}

func NewUploadService(s store.Store, r reports.Store, opts ...UploadOption) *UploadService {
	u := &UploadService{
		store:     s,
		reports:   r,
		chunkSize: ingest.DefaultChunkSize,
		now:       time.Now,
		logger:    log.NewDebugLogger("upload_service"),
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

// validation is the outcome of checking every row of a batch. apply writes the valid
// records and is only called when nothing was rejected.
type validation struct {
	rejected []tabular.RejectedRow
	skipped  int
	valid    int
	apply    func(ctx context.Context, result *UploadResult) error
}

// Upload runs one file through parsing, validation and apply. Structural and header
// failures return an error before any batch exists. A batch rejected for row errors
// is returned without error; the report location is on the batch.
func (u *UploadService) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	tracer := u.logger.WithContext(ctx).Operation("upload").
		WithString("type", string(req.Type)).
		WithString("filename", req.Filename).
		WithString("uploaded_by", req.UploadedBy).
		Build()

	table, format, err := u.parse(req)
	if err != nil {
		tracer.Error(err).WithString("step", "parse").Log()
		return nil, err
	}
	tracer.Step("parsed").WithString("format", string(format)).WithInt("rows", len(table.Rows)).Log()

	batch, err := u.createBatch(ctx, req, table)
	if err != nil {
		tracer.Error(err).WithString("step", "create_batch").Log()
		return nil, fmt.Errorf("failed to create batch: %w", err)
	}
	tracer.Step("batch_created").WithUUID("batch_id", batch.ID).Log()

	result := &UploadResult{Batch: batch}

	v, err := u.validate(ctx, batch, table, format)
	if err != nil {
		tracer.Error(err).WithUUID("batch_id", batch.ID).WithString("step", "validate").Log()
		return nil, fmt.Errorf("failed to validate batch %s: %w", batch.ID, err)
	}
	result.Skipped = v.skipped
	tracer.Step("validated").
		WithInt("valid", v.valid).
		WithInt("rejected", len(v.rejected)).
		WithInt("skipped", v.skipped).
		Log()

	if len(v.rejected) > 0 {
		if err := u.rejectRows(ctx, table, v.rejected, result); err != nil {
			tracer.Error(err).WithUUID("batch_id", batch.ID).WithString("step", "reject").Log()
			return nil, err
		}
		tracer.Success().WithUUID("batch_id", batch.ID).WithString("status", string(result.Batch.Status)).Log()
		return result, nil
	}

	if v.valid == 0 {
		if err := u.rejectEmpty(ctx, result); err != nil {
			tracer.Error(err).WithUUID("batch_id", batch.ID).WithString("step", "reject_empty").Log()
			return nil, err
		}
		tracer.Success().WithUUID("batch_id", batch.ID).WithString("status", string(result.Batch.Status)).Log()
		return result, NewErrNoValidRows(batch.ID)
	}

	start := time.Now()
	if err := v.apply(ctx, result); err != nil {
		// committed chunks stay, the batch is left PENDING
		tracer.Error(err).WithUUID("batch_id", batch.ID).WithString("step", "apply").Log()
		return nil, fmt.Errorf("failed to apply batch %s: %w", batch.ID, err)
	}
	metrics.ObserveApplyDuration(string(batch.Type), time.Since(start))

	if err := u.finalizeApplied(ctx, result); err != nil {
		tracer.Error(err).WithUUID("batch_id", batch.ID).WithString("step", "finalize").Log()
		return nil, err
	}

	tracer.Success().
		WithUUID("batch_id", batch.ID).
		WithInt("applied", result.Applied).
		WithInt("stale", result.Stale).
		WithInt64("deactivated", result.Deactivated).
		Log()

	return result, nil
}

func (u *UploadService) parse(req UploadRequest) (*tabular.Table, tabular.Format, error) {
	if !req.Type.Valid() {
		return nil, "", NewErrUnknownBatchType(req.Type)
	}
	if strings.TrimSpace(req.UploadedBy) == "" {
		return nil, "", NewErrInvalidUpload("uploader is required")
	}
	if req.Content == nil {
		return nil, "", NewErrInvalidUpload("file content is required")
	}

	format := req.Format
	if format == "" {
		format = tabular.FormatFromFilename(req.Filename)
	}

	switch format {
	case tabular.FormatXLSX:
		if !req.Type.IsCatalog() {
			return nil, "", NewErrUnsupportedFormat(format, req.Type)
		}
		table, err := tabular.ParseXLSX(req.Content, ingest.PartsWorkbookHeaders)
		return table, format, err
	case tabular.FormatCSV:
		table, err := tabular.ParseCSV(req.Content)
		if err != nil {
			return nil, format, err
		}
		expected, err := ingest.HeadersFor(req.Type)
		if err != nil {
			return nil, format, err
		}
		if check := tabular.ValidateHeaders(table.Headers, expected); !check.OK {
			return nil, format, NewErrHeaderMismatch(check.Message)
		}
		return table, format, nil
	default:
		return nil, "", NewErrUnsupportedFormat(format, req.Type)
	}
}

func (u *UploadService) createBatch(ctx context.Context, req UploadRequest, table *tabular.Table) (*model.Batch, error) {
	var batch *model.Batch
	err := u.inTransaction(ctx, func(ctx context.Context) error {
		var err error
		batch, err = u.store.Batch().Create(ctx, model.Batch{
			Type:       req.Type,
			Filename:   req.Filename,
			UploadedBy: strings.TrimSpace(req.UploadedBy),
			RowCount:   len(table.Rows),
		})
		if err != nil {
			return err
		}

		staged := make([]model.StagedRow, 0, len(table.Rows))
		for _, row := range table.Rows {
			staged = append(staged, model.StagedRow{
				BatchID:   batch.ID,
				RowNumber: row.Number,
				Data:      model.MakeJSONField(row.Values),
			})
		}
		return u.store.Batch().StageRows(ctx, staged)
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

func (u *UploadService) validate(ctx context.Context, batch *model.Batch, table *tabular.Table, format tabular.Format) (*validation, error) {
	switch batch.Type {
	case model.BatchTypePartsAftermarket, model.BatchTypePartsGenuine:
		return u.validateCatalog(batch, table, format), nil
	case model.BatchTypeOrderStatus:
		return u.validateOrderStatus(ctx, batch, table)
	case model.BatchTypeSupersession:
		return u.validateSupersession(ctx, table)
	default:
		return nil, NewErrUnknownBatchType(batch.Type)
	}
}

func (u *UploadService) validateCatalog(batch *model.Batch, table *tabular.Table, format tabular.Format) *validation {
	allowed := ingest.AllowedPartTypes(batch.Type)
	now := u.now()

	var (
		results []ingest.Result[model.CatalogPart]
		skipped int
	)
	if format == tabular.FormatXLSX {
		results, skipped = ingest.NormalizeWorkbookRows(table.Rows, allowed, now)
	} else {
		results = ingest.NormalizeCatalogRows(table.Rows, allowed, now)
	}

	parts, rejected := ingest.Split(results)
	return &validation{
		rejected: rejected,
		skipped:  skipped,
		valid:    len(parts),
		apply: func(ctx context.Context, result *UploadResult) error {
			return u.applyCatalog(ctx, allowed, parts, result)
		},
	}
}

func (u *UploadService) validateOrderStatus(ctx context.Context, batch *model.Batch, table *tabular.Table) (*validation, error) {
	results := ingest.NormalizeOrderStatusRows(table.Rows)

	orders, err := u.store.Order().FindByNumbers(ctx, ingest.ReferencedOrderNumbers(results))
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	ingest.ValidateOrderReferences(results, orders)

	records, rejected := ingest.Split(results)
	statuses := make([]model.OrderLineStatus, 0, len(records))
	for _, r := range records {
		statuses = append(statuses, r.LineStatus(batch.ID))
	}

	return &validation{
		rejected: rejected,
		valid:    len(statuses),
		apply: func(ctx context.Context, result *UploadResult) error {
			return u.applyOrderStatus(ctx, statuses, result)
		},
	}, nil
}

func (u *UploadService) validateSupersession(ctx context.Context, table *tabular.Table) (*validation, error) {
	results := ingest.NormalizeSupersessionRows(table.Rows)

	existing, err := u.store.Supersession().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load supersessions: %w", err)
	}
	ingest.MarkCycles(results, existing)

	edges, rejected := ingest.Split(results)
	return &validation{
		rejected: rejected,
		valid:    len(edges),
		apply: func(ctx context.Context, result *UploadResult) error {
			return u.applySupersession(ctx, edges, result)
		},
	}, nil
}

func (u *UploadService) applyCatalog(ctx context.Context, allowed []model.PartType, parts []model.CatalogPart, result *UploadResult) error {
	parts = ingest.DedupeByKey(parts, func(p model.CatalogPart) string { return p.StkNo })

	for i, chunk := range ingest.Chunk(parts, u.chunkSize) {
		if err := u.inTransaction(ctx, func(ctx context.Context) error {
			return u.store.Catalog().Upsert(ctx, chunk)
		}); err != nil {
			return fmt.Errorf("chunk %d: %w", i, err)
		}
		result.Applied += len(chunk)
	}

	candidates, err := u.store.Catalog().ListSweepCandidates(ctx, allowed)
	if err != nil {
		return fmt.Errorf("failed to list sweep candidates: %w", err)
	}

	for i, chunk := range ingest.Chunk(ingest.SweepKeys(candidates, parts), u.chunkSize) {
		if err := u.inTransaction(ctx, func(ctx context.Context) error {
			n, err := u.store.Catalog().Deactivate(ctx, chunk)
			if err != nil {
				return err
			}
			result.Deactivated += n
			return nil
		}); err != nil {
			return fmt.Errorf("sweep chunk %d: %w", i, err)
		}
	}

	return nil
}

func (u *UploadService) applyOrderStatus(ctx context.Context, statuses []model.OrderLineStatus, result *UploadResult) error {
	statuses = ingest.DedupeByKey(statuses, func(s model.OrderLineStatus) model.LineKey { return s.Key() })

	for i, chunk := range ingest.Chunk(statuses, u.chunkSize) {
		if err := u.inTransaction(ctx, func(ctx context.Context) error {
			stored, err := u.store.OrderStatus().ListByOrders(ctx, orderIDs(chunk))
			if err != nil {
				return err
			}

			fresh, stale := ingest.FilterNewer(chunk, stored)
			if err := u.store.OrderStatus().Upsert(ctx, fresh); err != nil {
				return err
			}
			result.Applied += len(fresh)
			result.Stale += stale
			return nil
		}); err != nil {
			return fmt.Errorf("chunk %d: %w", i, err)
		}
	}

	return nil
}

func (u *UploadService) applySupersession(ctx context.Context, edges []model.Supersession, result *UploadResult) error {
	edges = ingest.DedupeByKey(edges, func(e model.Supersession) string { return e.OldPartNo })

	for i, chunk := range ingest.Chunk(edges, u.chunkSize) {
		if err := u.inTransaction(ctx, func(ctx context.Context) error {
			return u.store.Supersession().Upsert(ctx, chunk)
		}); err != nil {
			return fmt.Errorf("chunk %d: %w", i, err)
		}
		result.Applied += len(chunk)
	}

	return nil
}

func (u *UploadService) rejectRows(ctx context.Context, table *tabular.Table, rejected []tabular.RejectedRow, result *UploadResult) error {
	batch := result.Batch

	report, err := tabular.BuildErrorReport(table.Headers, rejected, tabular.ErrorReasonColumn)
	if err != nil {
		return fmt.Errorf("failed to build error report: %w", err)
	}

	location, err := u.reports.Put(ctx, reports.ReportName(batch.ID), report)
	if err != nil {
		return fmt.Errorf("failed to store error report: %w", err)
	}

	reason := fmt.Sprintf("%d row(s) failed validation.", len(rejected))
	result.Rejected = len(rejected)

	return u.finalize(ctx, result, model.BatchOutcome{
		Status:          model.BatchStatusRejected,
		RejectedCount:   len(rejected),
		RejectReason:    &reason,
		ErrorReportPath: &location,
	})
}

func (u *UploadService) rejectEmpty(ctx context.Context, result *UploadResult) error {
	reason := ReasonNoValidRows
	return u.finalize(ctx, result, model.BatchOutcome{
		Status:       model.BatchStatusRejected,
		RejectReason: &reason,
	})
}

// finalizeApplied marks the batch APPLIED and writes the audit entry in one transaction.
func (u *UploadService) finalizeApplied(ctx context.Context, result *UploadResult) error {
	batch := result.Batch
	outcome := model.BatchOutcome{
		Status:       model.BatchStatusApplied,
		AppliedCount: result.Applied,
	}

	var finalized *model.Batch
	err := u.inTransaction(ctx, func(ctx context.Context) error {
		var err error
		finalized, err = u.store.Batch().Finalize(ctx, batch.ID, outcome)
		if err != nil {
			return err
		}

		return u.store.Audit().Create(ctx, model.AuditLog{
			Actor:      batch.UploadedBy,
			Action:     ingest.AuditAction(batch.Type),
			EntityType: auditEntityBatch,
			EntityID:   batch.ID.String(),
			Metadata: model.MakeJSONField(map[string]any{
				"type":        batch.Type,
				"filename":    batch.Filename,
				"row_count":   batch.RowCount,
				"applied":     result.Applied,
				"skipped":     result.Skipped,
				"stale":       result.Stale,
				"deactivated": result.Deactivated,
			}),
		})
	})
	if err != nil {
		return fmt.Errorf("failed to finalize batch %s: %w", batch.ID, err)
	}

	result.Batch = finalized
	u.record(ctx, result)
	return nil
}

func (u *UploadService) finalize(ctx context.Context, result *UploadResult, outcome model.BatchOutcome) error {
	finalized, err := u.store.Batch().Finalize(ctx, result.Batch.ID, outcome)
	if err != nil {
		return fmt.Errorf("failed to finalize batch %s: %w", result.Batch.ID, err)
	}

	result.Batch = finalized
	u.record(ctx, result)
	return nil
}

// record publishes metrics and the lifecycle event of a finalized batch.
func (u *UploadService) record(ctx context.Context, result *UploadResult) {
	batch := result.Batch
	batchType := string(batch.Type)

	metrics.IncreaseBatchesTotalMetric(batchType, string(batch.Status))
	metrics.AddRowsMetric(batchType, metrics.RowOutcomeApplied, result.Applied)
	metrics.AddRowsMetric(batchType, metrics.RowOutcomeRejected, result.Rejected)
	metrics.AddRowsMetric(batchType, metrics.RowOutcomeSkipped, result.Skipped)
	metrics.AddRowsMetric(batchType, metrics.RowOutcomeStale, result.Stale)
	metrics.AddDeactivatedPartsMetric(result.Deactivated)

	if u.events == nil {
		return
	}

	event := events.NewBatchEvent(*batch)
	event.Skipped = result.Skipped
	event.Stale = result.Stale
	event.Deactivated = result.Deactivated

	data, err := event.Marshal()
	if err == nil {
		err = u.events.Write(ctx, event.Kind(), bytes.NewReader(data))
	}
	if err != nil {
		zap.S().Named("upload_service").Warnw("failed to publish batch event", "batch_id", batch.ID, "error", err)
	}
}

// inTransaction runs fn in its own transaction and commits when it succeeds.
func (u *UploadService) inTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	txCtx, err := u.store.NewTransactionContext(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = store.Rollback(txCtx)
	}()

	if err := fn(txCtx); err != nil {
		return err
	}

	_, err = store.Commit(txCtx)
	return err
}

func orderIDs(statuses []model.OrderLineStatus) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(statuses))
	ids := make([]uuid.UUID, 0, len(statuses))
	for _, s := range statuses {
		if _, found := seen[s.OrderID]; found {
			continue
		}
		seen[s.OrderID] = struct{}{}
		ids = append(ids, s.OrderID)
	}
	return ids
}

// IsStructuralError reports whether err stopped an upload before a batch was created.
func IsStructuralError(err error) bool {
	var (
		noRows     *tabular.ErrNoRows
		unreadable *tabular.ErrUnreadable
		missing    *tabular.ErrMissingColumns
		header     *ErrHeaderMismatch
		invalid    *ErrInvalidUpload
	)
	return errors.As(err, &noRows) ||
		errors.As(err, &unreadable) ||
		errors.As(err, &missing) ||
		errors.As(err, &header) ||
		errors.As(err, &invalid)
}
