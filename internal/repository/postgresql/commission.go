package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lojaops/commission-backend-go/internal/domain/commission"
	"github.com/lojaops/commission-backend-go/internal/pkg/database"
)

type commissionRepository struct {
	db *database.DB
}

func NewCommissionRepository(db *database.DB) commission.Repository {
	return &commissionRepository{db: db}
}

const commissionColumns = `
	id, sale_id, line_index, seller_id, product_id, product_name,
	unit_price, quantity, discount_type, discount_value, net_total,
	commission_type, commission_rate, commission_amount,
	status, period_reference, payment_date, payment_method, payment_notes,
	created_at, updated_at
`

func scanCommission(row pgx.Row) (commission.Commission, error) {
	var c commission.Commission
	err := row.Scan(
		&c.ID, &c.SaleID, &c.LineIndex, &c.SellerID, &c.ProductID, &c.ProductName,
		&c.UnitPrice, &c.Quantity, &c.DiscountType, &c.DiscountValue, &c.NetTotal,
		&c.CommissionType, &c.CommissionRate, &c.CommissionAmount,
		&c.Status, &c.PeriodReference, &c.PaymentDate, &c.PaymentMethod, &c.PaymentNotes,
		&c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func collectCommissions(rows pgx.Rows) ([]commission.Commission, error) {
	defer rows.Close()

	var records []commission.Commission
	for rows.Next() {
		c, err := scanCommission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan commission: %w", err)
		}
		records = append(records, c)
	}
	return records, rows.Err()
}

func (r *commissionRepository) InsertBatch(ctx context.Context, records []commission.Commission) ([]commission.Commission, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO commissions (
			id, sale_id, line_index, seller_id, product_id, product_name,
			unit_price, quantity, discount_type, discount_value, net_total,
			commission_type, commission_rate, commission_amount,
			status, period_reference
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + commissionColumns

	inserted := make([]commission.Commission, 0, len(records))
	for _, rec := range records {
		c, err := scanCommission(q.QueryRow(ctx, query,
			rec.ID, rec.SaleID, rec.LineIndex, rec.SellerID, rec.ProductID, rec.ProductName,
			rec.UnitPrice, rec.Quantity, rec.DiscountType, rec.DiscountValue, rec.NetTotal,
			rec.CommissionType, rec.CommissionRate, rec.CommissionAmount,
			rec.Status, rec.PeriodReference,
		))
		if err != nil {
			return nil, fmt.Errorf("failed to insert commission for sale %s line %d: %w", rec.SaleID, rec.LineIndex, err)
		}
		inserted = append(inserted, c)
	}

	return inserted, nil
}

func (r *commissionRepository) GetByID(ctx context.Context, id string) (commission.Commission, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + commissionColumns + ` FROM commissions WHERE id = $1`

	c, err := scanCommission(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return commission.Commission{}, commission.ErrCommissionNotFound
		}
		return commission.Commission{}, fmt.Errorf("failed to get commission: %w", err)
	}

	return c, nil
}

func (r *commissionRepository) Find(ctx context.Context, filter commission.Filter) ([]commission.Commission, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.SaleID != nil {
		where += fmt.Sprintf(" AND sale_id = $%d", argIdx)
		args = append(args, *filter.SaleID)
		argIdx++
	}
	if filter.SellerID != nil {
		where += fmt.Sprintf(" AND seller_id = $%d", argIdx)
		args = append(args, *filter.SellerID)
		argIdx++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.PeriodReference != nil {
		where += fmt.Sprintf(" AND period_reference = $%d", argIdx)
		args = append(args, *filter.PeriodReference)
		argIdx++
	}

	var totalCount int64
	countQuery := "SELECT COUNT(*) FROM commissions " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count commissions: %w", err)
	}

	query := `SELECT ` + commissionColumns + ` FROM commissions ` + where + ` ORDER BY created_at DESC, line_index`
	if filter.Limit > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.Limit
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, offset)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list commissions: %w", err)
	}

	records, err := collectCommissions(rows)
	if err != nil {
		return nil, 0, err
	}

	return records, totalCount, nil
}

func (r *commissionRepository) FindBySale(ctx context.Context, saleID string, statuses []commission.Status) ([]commission.Commission, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + commissionColumns + ` FROM commissions WHERE sale_id = $1`
	args := []interface{}{saleID}
	if len(statuses) > 0 {
		query += " AND status = ANY($2)"
		raw := make([]string, 0, len(statuses))
		for _, s := range statuses {
			raw = append(raw, string(s))
		}
		args = append(args, raw)
	}
	query += " ORDER BY line_index"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find commissions for sale %s: %w", saleID, err)
	}

	return collectCommissions(rows)
}

func (r *commissionRepository) DeleteBatch(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM commissions WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("failed to delete commissions: %w", err)
	}

	return nil
}

func (r *commissionRepository) CancelBatch(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	// Per-record compare-and-set on status: rows that already left pending
	// are skipped, not failed.
	query := `
		UPDATE commissions
		SET status = 'cancelled', commission_amount = 0, updated_at = NOW()
		WHERE id = ANY($1) AND status = 'pending'
		RETURNING id
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel commissions: %w", err)
	}
	defer rows.Close()

	var cancelled []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan cancelled commission id: %w", err)
		}
		cancelled = append(cancelled, id)
	}

	return cancelled, rows.Err()
}

func (r *commissionRepository) CloseByPeriod(ctx context.Context, periodReference string) ([]commission.Commission, error) {
	q := GetQuerier(ctx, r.db)

	// On-hold rows are not closed: their sale has not reached a final state,
	// so their eligibility is not yet certain.
	query := `
		UPDATE commissions
		SET status = 'closed', updated_at = NOW()
		WHERE period_reference = $1 AND status = 'pending'
		RETURNING ` + commissionColumns

	rows, err := q.Query(ctx, query, periodReference)
	if err != nil {
		return nil, fmt.Errorf("failed to close period %s: %w", periodReference, err)
	}

	return collectCommissions(rows)
}

func (r *commissionRepository) MarkPaidBatch(ctx context.Context, ids []string, paymentDate time.Time, paymentMethod string, paymentNotes *string) ([]commission.Commission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE commissions
		SET status = 'paid', payment_date = $2, payment_method = $3, payment_notes = $4, updated_at = NOW()
		WHERE id = ANY($1) AND status = 'closed'
		RETURNING ` + commissionColumns

	rows, err := q.Query(ctx, query, ids, paymentDate, paymentMethod, paymentNotes)
	if err != nil {
		return nil, fmt.Errorf("failed to mark commissions paid: %w", err)
	}

	return collectCommissions(rows)
}

func (r *commissionRepository) Summarize(ctx context.Context, filter commission.SummaryFilter) (commission.Summary, error) {
	q := GetQuerier(ctx, r.db)

	where := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.SellerID != nil {
		where += fmt.Sprintf(" AND seller_id = $%d", argIdx)
		args = append(args, *filter.SellerID)
		argIdx++
	}
	if filter.PeriodReference != nil {
		where += fmt.Sprintf(" AND period_reference = $%d", argIdx)
		args = append(args, *filter.PeriodReference)
		argIdx++
	}

	query := `
		SELECT
			COALESCE(SUM(commission_amount) FILTER (WHERE status = 'on_hold'), 0),
			COALESCE(SUM(commission_amount) FILTER (WHERE status = 'pending'), 0),
			COALESCE(SUM(commission_amount) FILTER (WHERE status = 'closed'), 0),
			COALESCE(SUM(commission_amount) FILTER (WHERE status = 'paid'), 0),
			COALESCE(SUM(commission_amount) FILTER (WHERE status = 'cancelled'), 0)
		FROM commissions ` + where

	var s commission.Summary
	err := q.QueryRow(ctx, query, args...).Scan(&s.OnHold, &s.Pending, &s.Closed, &s.Paid, &s.Cancelled)
	if err != nil {
		return commission.Summary{}, fmt.Errorf("failed to summarize commissions: %w", err)
	}

	return s, nil
}
