package commission

import (
	"context"
	"sort"
	"time"

	"github.com/lojaops/commission-backend-go/internal/domain/catalog"
	"github.com/lojaops/commission-backend-go/internal/domain/commission"
	"github.com/shopspring/decimal"
)

// In-memory doubles mirroring the compare-and-set semantics of the
// PostgreSQL repositories.

type fakeCommissionRepo struct {
	records map[string]commission.Commission
}

func newFakeCommissionRepo() *fakeCommissionRepo {
	return &fakeCommissionRepo{records: make(map[string]commission.Commission)}
}

func (f *fakeCommissionRepo) InsertBatch(_ context.Context, records []commission.Commission) ([]commission.Commission, error) {
	now := time.Now()
	inserted := make([]commission.Commission, 0, len(records))
	for _, rec := range records {
		rec.CreatedAt = now
		rec.UpdatedAt = now
		f.records[rec.ID] = rec
		inserted = append(inserted, rec)
	}
	return inserted, nil
}

func (f *fakeCommissionRepo) GetByID(_ context.Context, id string) (commission.Commission, error) {
	rec, ok := f.records[id]
	if !ok {
		return commission.Commission{}, commission.ErrCommissionNotFound
	}
	return rec, nil
}

func (f *fakeCommissionRepo) Find(_ context.Context, filter commission.Filter) ([]commission.Commission, int64, error) {
	var result []commission.Commission
	for _, rec := range f.records {
		if filter.SaleID != nil && rec.SaleID != *filter.SaleID {
			continue
		}
		if filter.SellerID != nil && rec.SellerID != *filter.SellerID {
			continue
		}
		if filter.Status != nil && rec.Status != *filter.Status {
			continue
		}
		if filter.PeriodReference != nil && rec.PeriodReference != *filter.PeriodReference {
			continue
		}
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LineIndex < result[j].LineIndex })
	return result, int64(len(result)), nil
}

func (f *fakeCommissionRepo) FindBySale(_ context.Context, saleID string, statuses []commission.Status) ([]commission.Commission, error) {
	allowed := make(map[commission.Status]bool, len(statuses))
	for _, s := range statuses {
		allowed[s] = true
	}

	var result []commission.Commission
	for _, rec := range f.records {
		if rec.SaleID != saleID {
			continue
		}
		if len(statuses) > 0 && !allowed[rec.Status] {
			continue
		}
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LineIndex < result[j].LineIndex })
	return result, nil
}

func (f *fakeCommissionRepo) DeleteBatch(_ context.Context, ids []string) error {
	for _, id := range ids {
		delete(f.records, id)
	}
	return nil
}

func (f *fakeCommissionRepo) CancelBatch(_ context.Context, ids []string) ([]string, error) {
	var cancelled []string
	for _, id := range ids {
		rec, ok := f.records[id]
		// Narrower than the state machine: on_hold rows may legally cancel,
		// but cancel-for-sale only sweeps pending ones.
		if !ok || rec.Status != commission.StatusPending {
			continue
		}
		next, err := rec.Status.Transition(commission.StatusCancelled)
		if err != nil {
			continue
		}
		rec.Status = next
		rec.CommissionAmount = decimal.Zero
		rec.UpdatedAt = time.Now()
		f.records[id] = rec
		cancelled = append(cancelled, id)
	}
	return cancelled, nil
}

func (f *fakeCommissionRepo) CloseByPeriod(_ context.Context, periodReference string) ([]commission.Commission, error) {
	var closed []commission.Commission
	for id, rec := range f.records {
		if rec.PeriodReference != periodReference {
			continue
		}
		// Only pending may move to closed; on_hold, cancelled and terminal
		// rows fall out here exactly as the conditional UPDATE skips them.
		next, err := rec.Status.Transition(commission.StatusClosed)
		if err != nil {
			continue
		}
		rec.Status = next
		rec.UpdatedAt = time.Now()
		f.records[id] = rec
		closed = append(closed, rec)
	}
	return closed, nil
}

func (f *fakeCommissionRepo) MarkPaidBatch(_ context.Context, ids []string, paymentDate time.Time, paymentMethod string, paymentNotes *string) ([]commission.Commission, error) {
	var paid []commission.Commission
	for _, id := range ids {
		rec, ok := f.records[id]
		if !ok {
			continue
		}
		next, err := rec.Status.Transition(commission.StatusPaid)
		if err != nil {
			continue
		}
		rec.Status = next
		rec.PaymentDate = &paymentDate
		rec.PaymentMethod = &paymentMethod
		rec.PaymentNotes = paymentNotes
		rec.UpdatedAt = time.Now()
		f.records[id] = rec
		paid = append(paid, rec)
	}
	return paid, nil
}

func (f *fakeCommissionRepo) Summarize(_ context.Context, filter commission.SummaryFilter) (commission.Summary, error) {
	s := commission.Summary{
		OnHold:    decimal.Zero,
		Pending:   decimal.Zero,
		Closed:    decimal.Zero,
		Paid:      decimal.Zero,
		Cancelled: decimal.Zero,
	}
	for _, rec := range f.records {
		if filter.SellerID != nil && rec.SellerID != *filter.SellerID {
			continue
		}
		if filter.PeriodReference != nil && rec.PeriodReference != *filter.PeriodReference {
			continue
		}
		switch rec.Status {
		case commission.StatusOnHold:
			s.OnHold = s.OnHold.Add(rec.CommissionAmount)
		case commission.StatusPending:
			s.Pending = s.Pending.Add(rec.CommissionAmount)
		case commission.StatusClosed:
			s.Closed = s.Closed.Add(rec.CommissionAmount)
		case commission.StatusPaid:
			s.Paid = s.Paid.Add(rec.CommissionAmount)
		case commission.StatusCancelled:
			s.Cancelled = s.Cancelled.Add(rec.CommissionAmount)
		}
	}
	return s, nil
}

type fakeAuditRepo struct {
	entries []commission.AuditLogEntry
	failErr error
}

func (f *fakeAuditRepo) InsertBatch(_ context.Context, entries []commission.AuditLogEntry) error {
	if f.failErr != nil {
		return f.failErr
	}
	now := time.Now()
	for _, e := range entries {
		e.CreatedAt = now
		f.entries = append(f.entries, e)
	}
	return nil
}

func (f *fakeAuditRepo) Find(_ context.Context, commissionID *string) ([]commission.AuditLogEntry, error) {
	if commissionID == nil {
		return f.entries, nil
	}
	var result []commission.AuditLogEntry
	for _, e := range f.entries {
		if e.CommissionID == *commissionID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (f *fakeAuditRepo) byAction(action commission.AuditAction) []commission.AuditLogEntry {
	var result []commission.AuditLogEntry
	for _, e := range f.entries {
		if e.ActionType == action {
			result = append(result, e)
		}
	}
	return result
}

type fakeProductRepo struct {
	products map[string]catalog.Product
}

func newFakeProductRepo(products ...catalog.Product) *fakeProductRepo {
	f := &fakeProductRepo{products: make(map[string]catalog.Product)}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProductRepo) GetByIDs(_ context.Context, ids []string) ([]catalog.Product, error) {
	var result []catalog.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}
