package commission

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConfigType enum - how a configured value is interpreted
type ConfigType string

const (
	ConfigTypeFixed      ConfigType = "fixed"
	ConfigTypePercentage ConfigType = "percentage"
)

// DiscountType enum - how the seller expressed the discount on a sale line
type DiscountType string

const (
	DiscountTypePercent  DiscountType = "percent"
	DiscountTypeAbsolute DiscountType = "absolute"
)

// CommissionConfig - Per-product commission configuration, owned by the catalog.
// If Enabled is false no commission is ever produced for the product.
type CommissionConfig struct {
	Enabled            bool
	Type               ConfigType
	Value              decimal.Decimal
	DiscountLimitType  ConfigType
	DiscountLimitValue decimal.Decimal
}

// SaleLineInput - One sold item as supplied by the sale workflow.
// NetTotal is the post-discount line total and is trusted as-is.
type SaleLineInput struct {
	ProductID     string
	UnitPrice     decimal.Decimal
	Quantity      int
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
	NetTotal      decimal.Decimal
}

// Commission - Persisted record, one per eligible sale line. Carries a snapshot
// of the line at calculation time so later catalog or sale edits cannot
// silently change what was earned.
type Commission struct {
	ID        string
	SaleID    string
	LineIndex int
	SellerID  string
	ProductID string

	ProductName   string
	UnitPrice     decimal.Decimal
	Quantity      int
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
	NetTotal      decimal.Decimal

	CommissionType   ConfigType
	CommissionRate   decimal.Decimal
	CommissionAmount decimal.Decimal

	Status          Status
	PeriodReference string
	PaymentDate     *time.Time
	PaymentMethod   *string
	PaymentNotes    *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AuditAction enum
type AuditAction string

const (
	AuditActionCreated      AuditAction = "created"
	AuditActionRecalculated AuditAction = "recalculated"
	AuditActionCancelled    AuditAction = "cancelled"
	AuditActionClosed       AuditAction = "closed"
	AuditActionPaid         AuditAction = "paid"
	AuditActionStatusChange AuditAction = "status_change"
)

// RecalculatedMarker is recorded as the new status on recalculation audit
// entries. The true new status is not known until the fresh records exist.
const RecalculatedMarker = "recalculated"

// AuditLogEntry - Append-only trail of every value/status change of a
// commission. Entries are never updated or deleted.
type AuditLogEntry struct {
	ID           string
	CommissionID string
	ActionType   AuditAction
	OldValue     *decimal.Decimal
	NewValue     *decimal.Decimal
	OldStatus    *string
	NewStatus    *string
	Reason       string
	ActorID      string
	ActorName    string
	CreatedAt    time.Time
}

// PeriodReference derives the year-month accounting bucket from a sale date.
// It is fixed at creation and never recomputed on edit.
func PeriodReference(saleDate time.Time) string {
	return saleDate.Format("2006-01")
}
