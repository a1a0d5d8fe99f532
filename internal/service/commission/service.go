package commission

import (
	"context"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lojaops/commission-backend-go/internal/domain/catalog"
	"github.com/lojaops/commission-backend-go/internal/domain/commission"
	"github.com/lojaops/commission-backend-go/internal/pkg/database"
	"github.com/lojaops/commission-backend-go/internal/pkg/validator"
	"github.com/lojaops/commission-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
)

type CommissionServiceImpl struct {
	db          *database.DB
	repo        commission.Repository
	auditRepo   commission.AuditLogRepository
	productRepo catalog.ProductRepository
}

func NewCommissionService(
	db *database.DB,
	repo commission.Repository,
	auditRepo commission.AuditLogRepository,
	productRepo catalog.ProductRepository,
) commission.Service {
	return &CommissionServiceImpl{
		db:          db,
		repo:        repo,
		auditRepo:   auditRepo,
		productRepo: productRepo,
	}
}

// finalSaleStatuses are the sale states in which the sale can no longer
// change or fall through. Any other status, known or not, keeps fresh
// commissions on hold: the amount is computed but not yet certain, and an
// on-hold commission is never swept into a period close.
var finalSaleStatuses = []string{"finalized", "completed"}

func saleIsFinal(saleStatus string) bool {
	return validator.IsInSlice(strings.ToLower(saleStatus), finalSaleStatuses)
}

// getActorFromContext reads the acting user from JWT claims. Calls made by
// the sale workflow without a user token are attributed to the system.
func getActorFromContext(ctx context.Context) (actorID, actorName string) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "system", "system"
	}

	actorID, _ = claims["user_id"].(string)
	actorName, _ = claims["name"].(string)
	if actorID == "" {
		actorID = "system"
	}
	if actorName == "" {
		actorName = "system"
	}
	return actorID, actorName
}

// withTx runs fn inside a database transaction when a database is attached.
// Repositories without transactional support run fn directly, which matches
// the storage model: correctness then rests on per-record compare-and-set.
func (s *CommissionServiceImpl) withTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if s.db == nil {
		return fn(ctx)
	}
	return postgresql.WithTransaction(ctx, s.db, fn)
}

// ========== SALE-TRIGGERED OPERATIONS ==========

func (s *CommissionServiceImpl) Generate(ctx context.Context, req commission.GenerateCommissionsRequest) ([]commission.CommissionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	saleDate, err := req.SaleDateTime()
	if err != nil {
		return nil, err
	}

	records, err := s.buildRecords(ctx, req, saleDate, nil)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []commission.CommissionResponse{}, nil
	}

	inserted, err := s.repo.InsertBatch(ctx, records)
	if err != nil {
		return nil, err
	}

	if err := s.recordCreated(ctx, inserted, "sale finalized"); err != nil {
		return nil, err
	}

	return mapToResponses(inserted), nil
}

func (s *CommissionServiceImpl) RecalculateForSale(ctx context.Context, req commission.GenerateCommissionsRequest) ([]commission.CommissionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	saleDate, err := req.SaleDateTime()
	if err != nil {
		return nil, err
	}

	actorID, actorName := getActorFromContext(ctx)

	responses := []commission.CommissionResponse{}
	err = s.withTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindBySale(txCtx, req.SaleID, nil)
		if err != nil {
			return err
		}

		// Closed and paid rows are the durability boundary: sale edits after
		// closing never retroactively change closed money. Their lines are
		// also excluded from regeneration so the one-record-per-line
		// invariant holds.
		frozenLines := make(map[int]bool)
		hasFrozen := false
		var superseded []commission.Commission
		for _, c := range existing {
			if c.Status.Terminal() {
				frozenLines[c.LineIndex] = true
				hasFrozen = true
				continue
			}
			superseded = append(superseded, c)
		}

		if len(superseded) == 0 && hasFrozen {
			return nil
		}

		if len(superseded) > 0 {
			var entries []commission.AuditLogEntry
			var ids []string
			for _, c := range superseded {
				ids = append(ids, c.ID)
				if !c.Status.Deletable() {
					// Superseded cancelled rows carry no value to preserve.
					continue
				}
				entries = append(entries, newAuditEntry(
					c.ID, commission.AuditActionRecalculated,
					decPtr(c.CommissionAmount), nil,
					strPtr(c.Status.String()), strPtr(commission.RecalculatedMarker),
					"sale edited", actorID, actorName,
				))
			}
			if len(entries) > 0 {
				if err := s.auditRepo.InsertBatch(txCtx, entries); err != nil {
					return err
				}
			}
			if err := s.repo.DeleteBatch(txCtx, ids); err != nil {
				return err
			}
		}

		records, err := s.buildRecords(txCtx, req, saleDate, frozenLines)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}

		inserted, err := s.repo.InsertBatch(txCtx, records)
		if err != nil {
			return err
		}
		if err := s.recordCreated(txCtx, inserted, "sale edited"); err != nil {
			return err
		}

		responses = mapToResponses(inserted)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return responses, nil
}

func (s *CommissionServiceImpl) CancelForSale(ctx context.Context, req commission.CancelCommissionsRequest) ([]commission.CommissionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// On-hold rows are left to the sale workflow: they track the sale's own
	// unresolved state, not commission lifecycle. Closed and paid rows are
	// immutable.
	rows, err := s.repo.FindBySale(ctx, req.SaleID, []commission.Status{commission.StatusPending})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []commission.CommissionResponse{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, c := range rows {
		ids = append(ids, c.ID)
	}

	cancelledIDs, err := s.repo.CancelBatch(ctx, ids)
	if err != nil {
		return nil, err
	}
	cancelledSet := make(map[string]bool, len(cancelledIDs))
	for _, id := range cancelledIDs {
		cancelledSet[id] = true
	}

	actorID, actorName := getActorFromContext(ctx)
	var entries []commission.AuditLogEntry
	var responses []commission.CommissionResponse
	for _, c := range rows {
		if !cancelledSet[c.ID] {
			continue
		}
		entries = append(entries, newAuditEntry(
			c.ID, commission.AuditActionCancelled,
			decPtr(c.CommissionAmount), decPtr(decimal.Zero),
			strPtr(c.Status.String()), strPtr(commission.StatusCancelled.String()),
			req.Reason, actorID, actorName,
		))

		c.Status = commission.StatusCancelled
		c.CommissionAmount = decimal.Zero
		responses = append(responses, mapToResponse(c))
	}

	if err := s.auditRepo.InsertBatch(ctx, entries); err != nil {
		return nil, err
	}

	return responses, nil
}

// ========== OPERATOR OPERATIONS ==========

func (s *CommissionServiceImpl) ClosePeriod(ctx context.Context, req commission.ClosePeriodRequest) (commission.ClosePeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return commission.ClosePeriodResponse{}, err
	}

	closed, err := s.repo.CloseByPeriod(ctx, req.PeriodReference)
	if err != nil {
		return commission.ClosePeriodResponse{}, err
	}

	actorID, actorName := getActorFromContext(ctx)
	var entries []commission.AuditLogEntry
	for _, c := range closed {
		// Closing freezes the amount; old and new value are equal.
		entries = append(entries, newAuditEntry(
			c.ID, commission.AuditActionClosed,
			decPtr(c.CommissionAmount), decPtr(c.CommissionAmount),
			strPtr(commission.StatusPending.String()), strPtr(commission.StatusClosed.String()),
			"period closed", actorID, actorName,
		))
	}
	if len(entries) > 0 {
		if err := s.auditRepo.InsertBatch(ctx, entries); err != nil {
			return commission.ClosePeriodResponse{}, err
		}
	}

	return commission.ClosePeriodResponse{
		PeriodReference: req.PeriodReference,
		ClosedCount:     len(closed),
	}, nil
}

func (s *CommissionServiceImpl) MarkPaid(ctx context.Context, req commission.MarkPaidRequest) ([]commission.CommissionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	paymentDate, ok := validator.IsValidDate(req.PaymentDate)
	if !ok {
		return nil, commission.ErrInvalidSaleDate
	}

	// Ids not currently closed are a silent no-op, not an error.
	paid, err := s.repo.MarkPaidBatch(ctx, req.CommissionIDs, paymentDate, req.PaymentMethod, req.PaymentNotes)
	if err != nil {
		return nil, err
	}

	actorID, actorName := getActorFromContext(ctx)
	reason := "marked paid"
	if req.PaymentNotes != nil && *req.PaymentNotes != "" {
		reason = *req.PaymentNotes
	}

	var entries []commission.AuditLogEntry
	for _, c := range paid {
		entries = append(entries, newAuditEntry(
			c.ID, commission.AuditActionPaid,
			decPtr(c.CommissionAmount), decPtr(c.CommissionAmount),
			strPtr(commission.StatusClosed.String()), strPtr(commission.StatusPaid.String()),
			reason, actorID, actorName,
		))
	}
	if len(entries) > 0 {
		if err := s.auditRepo.InsertBatch(ctx, entries); err != nil {
			return nil, err
		}
	}

	return mapToResponses(paid), nil
}

// ========== READS ==========

func (s *CommissionServiceImpl) GetCommission(ctx context.Context, id string) (commission.CommissionResponse, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return commission.CommissionResponse{}, err
	}
	return mapToResponse(rec), nil
}

func (s *CommissionServiceImpl) GetCommissions(ctx context.Context, filter commission.Filter) (commission.ListCommissionsResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}

	records, totalCount, err := s.repo.Find(ctx, filter)
	if err != nil {
		return commission.ListCommissionsResponse{}, err
	}

	return commission.ListCommissionsResponse{
		Data:       mapToResponses(records),
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *CommissionServiceImpl) GetSummary(ctx context.Context, filter commission.SummaryFilter) (commission.Summary, error) {
	summary, err := s.repo.Summarize(ctx, filter)
	if err != nil {
		return commission.Summary{}, err
	}

	// Total is money the business currently owes or has paid for finalized,
	// valid sales: on-hold is not yet certain, cancelled is voided.
	summary.Total = summary.Pending.Add(summary.Closed).Add(summary.Paid)

	return summary, nil
}

func (s *CommissionServiceImpl) GetAuditLog(ctx context.Context, commissionID *string) ([]commission.AuditLogEntryResponse, error) {
	entries, err := s.auditRepo.Find(ctx, commissionID)
	if err != nil {
		return nil, err
	}

	result := make([]commission.AuditLogEntryResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, commission.AuditLogEntryResponse{
			ID:           e.ID,
			CommissionID: e.CommissionID,
			ActionType:   string(e.ActionType),
			OldValue:     e.OldValue,
			NewValue:     e.NewValue,
			OldStatus:    e.OldStatus,
			NewStatus:    e.NewStatus,
			Reason:       e.Reason,
			ActorID:      e.ActorID,
			ActorName:    e.ActorName,
			CreatedAt:    e.CreatedAt.Format(time.RFC3339),
		})
	}

	return result, nil
}

// ========== HELPERS ==========

// buildRecords resolves every sale line against its product configuration.
// Lines without a product, with commission disabled, or listed in skipLines
// produce no record at all.
func (s *CommissionServiceImpl) buildRecords(ctx context.Context, req commission.GenerateCommissionsRequest, saleDate time.Time, skipLines map[int]bool) ([]commission.Commission, error) {
	ids := make([]string, 0, len(req.Lines))
	seen := make(map[string]bool)
	for _, line := range req.Lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	periodReference := commission.PeriodReference(saleDate)
	saleFinal := saleIsFinal(req.SaleStatus)

	var records []commission.Commission
	for i, line := range req.Lines {
		if skipLines[i] {
			continue
		}
		product, ok := byID[line.ProductID]
		if !ok {
			continue
		}

		res := commission.Resolve(product.Commission, commission.SaleLineInput{
			ProductID:     line.ProductID,
			UnitPrice:     line.UnitPrice,
			Quantity:      line.Quantity,
			DiscountType:  commission.DiscountType(line.DiscountType),
			DiscountValue: line.DiscountValue,
			NetTotal:      line.NetTotal,
		})
		if res.Outcome == commission.OutcomeSkipped {
			continue
		}

		status := commission.StatusPending
		switch {
		case res.Amount.Sign() <= 0:
			status = commission.StatusCancelled
		case !saleFinal:
			status = commission.StatusOnHold
		}

		records = append(records, commission.Commission{
			ID:               uuid.NewString(),
			SaleID:           req.SaleID,
			LineIndex:        i,
			SellerID:         req.SellerID,
			ProductID:        line.ProductID,
			ProductName:      product.Name,
			UnitPrice:        line.UnitPrice,
			Quantity:         line.Quantity,
			DiscountType:     commission.DiscountType(line.DiscountType),
			DiscountValue:    line.DiscountValue,
			NetTotal:         line.NetTotal,
			CommissionType:   res.Type,
			CommissionRate:   res.Rate,
			CommissionAmount: res.Amount,
			Status:           status,
			PeriodReference:  periodReference,
		})
	}

	return records, nil
}

// recordCreated writes one created audit entry per inserted record. A failed
// audit write propagates: a commission without its trail entry would break
// the full-audit-trail guarantee.
func (s *CommissionServiceImpl) recordCreated(ctx context.Context, inserted []commission.Commission, reason string) error {
	actorID, actorName := getActorFromContext(ctx)

	entries := make([]commission.AuditLogEntry, 0, len(inserted))
	for _, c := range inserted {
		entries = append(entries, newAuditEntry(
			c.ID, commission.AuditActionCreated,
			nil, decPtr(c.CommissionAmount),
			nil, strPtr(c.Status.String()),
			reason, actorID, actorName,
		))
	}

	return s.auditRepo.InsertBatch(ctx, entries)
}

func newAuditEntry(commissionID string, action commission.AuditAction, oldValue, newValue *decimal.Decimal, oldStatus, newStatus *string, reason, actorID, actorName string) commission.AuditLogEntry {
	return commission.AuditLogEntry{
		ID:           uuid.NewString(),
		CommissionID: commissionID,
		ActionType:   action,
		OldValue:     oldValue,
		NewValue:     newValue,
		OldStatus:    oldStatus,
		NewStatus:    newStatus,
		Reason:       reason,
		ActorID:      actorID,
		ActorName:    actorName,
	}
}

func decPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func strPtr(s string) *string {
	return &s
}

func mapToResponse(c commission.Commission) commission.CommissionResponse {
	var paymentDateStr *string
	if c.PaymentDate != nil {
		str := c.PaymentDate.Format("2006-01-02")
		paymentDateStr = &str
	}

	return commission.CommissionResponse{
		ID:               c.ID,
		SaleID:           c.SaleID,
		LineIndex:        c.LineIndex,
		SellerID:         c.SellerID,
		ProductID:        c.ProductID,
		ProductName:      c.ProductName,
		UnitPrice:        c.UnitPrice,
		Quantity:         c.Quantity,
		DiscountType:     string(c.DiscountType),
		DiscountValue:    c.DiscountValue,
		NetTotal:         c.NetTotal,
		CommissionType:   string(c.CommissionType),
		CommissionRate:   c.CommissionRate,
		CommissionAmount: c.CommissionAmount,
		Status:           c.Status.String(),
		PeriodReference:  c.PeriodReference,
		PaymentDate:      paymentDateStr,
		PaymentMethod:    c.PaymentMethod,
		PaymentNotes:     c.PaymentNotes,
		CreatedAt:        c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        c.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToResponses(records []commission.Commission) []commission.CommissionResponse {
	result := make([]commission.CommissionResponse, 0, len(records))
	for _, c := range records {
		result = append(result, mapToResponse(c))
	}
	return result
}
