package commission

import (
	"context"
	"time"
)

// Repository defines storage access for commission records. Status-filtered
// batch updates are per-record compare-and-set: a row that already left the
// expected status is skipped, never failed.
type Repository interface {
	InsertBatch(ctx context.Context, records []Commission) ([]Commission, error)
	GetByID(ctx context.Context, id string) (Commission, error)
	Find(ctx context.Context, filter Filter) ([]Commission, int64, error)
	FindBySale(ctx context.Context, saleID string, statuses []Status) ([]Commission, error)
	DeleteBatch(ctx context.Context, ids []string) error

	// CancelBatch transitions pending rows to cancelled, zeroing their
	// amount. Returns the ids actually transitioned.
	CancelBatch(ctx context.Context, ids []string) ([]string, error)

	// CloseByPeriod transitions all pending rows of the period to closed and
	// returns them. Rows still on hold are left for a future close.
	CloseByPeriod(ctx context.Context, periodReference string) ([]Commission, error)

	// MarkPaidBatch transitions closed rows to paid, stamping payment
	// metadata. Ids in any other status are ignored. Returns the rows
	// actually transitioned.
	MarkPaidBatch(ctx context.Context, ids []string, paymentDate time.Time, paymentMethod string, paymentNotes *string) ([]Commission, error)

	Summarize(ctx context.Context, filter SummaryFilter) (Summary, error)
}

// AuditLogRepository is append-only: no update or delete methods exist.
// A failed insert must propagate, otherwise a commission mutation could
// succeed without its trail entry.
type AuditLogRepository interface {
	InsertBatch(ctx context.Context, entries []AuditLogEntry) error
	Find(ctx context.Context, commissionID *string) ([]AuditLogEntry, error)
}
