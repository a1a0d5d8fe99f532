package commission

import (
	"strconv"
	"time"

	"github.com/lojaops/commission-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== SALE-TRIGGERED DTOs ==========

type SaleLineRequest struct {
	ProductID     string          `json:"product_id"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int             `json:"quantity"`
	DiscountType  string          `json:"discount_type"` // "percent" or "absolute"
	DiscountValue decimal.Decimal `json:"discount_value"`
	NetTotal      decimal.Decimal `json:"net_total"`
}

// GenerateCommissionsRequest carries a finalized or edited sale into the
// engine. The same payload serves generation and recalculation.
type GenerateCommissionsRequest struct {
	SaleID     string            `json:"-"`
	SellerID   string            `json:"seller_id"`
	SaleDate   string            `json:"sale_date"` // "YYYY-MM-DD"
	SaleStatus string            `json:"sale_status"`
	Lines      []SaleLineRequest `json:"lines"`
}

func (r *GenerateCommissionsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.SaleID) {
		errs = append(errs, validator.ValidationError{Field: "sale_id", Message: "is required"})
	}
	if validator.IsEmpty(r.SellerID) {
		errs = append(errs, validator.ValidationError{Field: "seller_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.SaleDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "sale_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if len(r.Lines) == 0 {
		errs = append(errs, validator.ValidationError{Field: "lines", Message: "at least one line is required"})
	}
	for i, line := range r.Lines {
		field := "lines[" + strconv.Itoa(i) + "]"
		if validator.IsEmpty(line.ProductID) {
			errs = append(errs, validator.ValidationError{Field: field + ".product_id", Message: "is required"})
		}
		if line.Quantity < 1 {
			errs = append(errs, validator.ValidationError{Field: field + ".quantity", Message: "must be at least 1"})
		}
		if line.UnitPrice.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field + ".unit_price", Message: "must be non-negative"})
		}
		if line.DiscountValue.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field + ".discount_value", Message: "must be non-negative"})
		}
		if line.DiscountType != string(DiscountTypePercent) && line.DiscountType != string(DiscountTypeAbsolute) {
			errs = append(errs, validator.ValidationError{Field: field + ".discount_type", Message: "must be 'percent' or 'absolute'"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SaleDateTime parses the request's sale date. Validate must pass first.
func (r *GenerateCommissionsRequest) SaleDateTime() (time.Time, error) {
	t, ok := validator.IsValidDate(r.SaleDate)
	if !ok {
		return time.Time{}, ErrInvalidSaleDate
	}
	return t, nil
}

type CancelCommissionsRequest struct {
	SaleID string `json:"-"`
	Reason string `json:"reason"`
}

func (r *CancelCommissionsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.SaleID) {
		errs = append(errs, validator.ValidationError{Field: "sale_id", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== OPERATOR DTOs ==========

type ClosePeriodRequest struct {
	PeriodReference string `json:"period_reference"` // "YYYY-MM"
}

func (r *ClosePeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidPeriodReference(r.PeriodReference) {
		errs = append(errs, validator.ValidationError{Field: "period_reference", Message: "must be in YYYY-MM format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ClosePeriodResponse struct {
	PeriodReference string `json:"period_reference"`
	ClosedCount     int    `json:"closed_count"`
}

type MarkPaidRequest struct {
	CommissionIDs []string `json:"commission_ids"`
	PaymentDate   string   `json:"payment_date"` // "YYYY-MM-DD"
	PaymentMethod string   `json:"payment_method"`
	PaymentNotes  *string  `json:"payment_notes,omitempty"`
}

func (r *MarkPaidRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.CommissionIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "commission_ids", Message: "at least one id is required"})
	}
	if _, ok := validator.IsValidDate(r.PaymentDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if validator.IsEmpty(r.PaymentMethod) {
		errs = append(errs, validator.ValidationError{Field: "payment_method", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== READ DTOs ==========

type CommissionResponse struct {
	ID               string          `json:"id"`
	SaleID           string          `json:"sale_id"`
	LineIndex        int             `json:"line_index"`
	SellerID         string          `json:"seller_id"`
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Quantity         int             `json:"quantity"`
	DiscountType     string          `json:"discount_type"`
	DiscountValue    decimal.Decimal `json:"discount_value"`
	NetTotal         decimal.Decimal `json:"net_total"`
	CommissionType   string          `json:"commission_type"`
	CommissionRate   decimal.Decimal `json:"commission_rate"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	Status           string          `json:"status"`
	PeriodReference  string          `json:"period_reference"`
	PaymentDate      *string         `json:"payment_date,omitempty"`
	PaymentMethod    *string         `json:"payment_method,omitempty"`
	PaymentNotes     *string         `json:"payment_notes,omitempty"`
	CreatedAt        string          `json:"created_at"`
	UpdatedAt        string          `json:"updated_at"`
}

type Filter struct {
	SaleID          *string
	SellerID        *string
	Status          *Status
	PeriodReference *string
	Page            int
	Limit           int
}

type ListCommissionsResponse struct {
	Data       []CommissionResponse `json:"data"`
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
}

type SummaryFilter struct {
	SellerID        *string
	PeriodReference *string
}

// Summary buckets commission amounts by status. Total sums only pending,
// closed and paid: money the business currently owes or has paid for
// finalized, valid sales. OnHold is not yet certain and Cancelled is voided.
type Summary struct {
	OnHold    decimal.Decimal `json:"on_hold"`
	Pending   decimal.Decimal `json:"pending"`
	Closed    decimal.Decimal `json:"closed"`
	Paid      decimal.Decimal `json:"paid"`
	Cancelled decimal.Decimal `json:"cancelled"`
	Total     decimal.Decimal `json:"total"`
}

type AuditLogEntryResponse struct {
	ID           string           `json:"id"`
	CommissionID string           `json:"commission_id"`
	ActionType   string           `json:"action_type"`
	OldValue     *decimal.Decimal `json:"old_value,omitempty"`
	NewValue     *decimal.Decimal `json:"new_value,omitempty"`
	OldStatus    *string          `json:"old_status,omitempty"`
	NewStatus    *string          `json:"new_status,omitempty"`
	Reason       string           `json:"reason,omitempty"`
	ActorID      string           `json:"actor_id"`
	ActorName    string           `json:"actor_name"`
	CreatedAt    string           `json:"created_at"`
}
