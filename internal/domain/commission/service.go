package commission

import "context"

// Service is the commission engine's public surface. Generate,
// RecalculateForSale and CancelForSale are invoked by the sale workflow;
// ClosePeriod and MarkPaid by operator actions; the rest are dashboard reads.
//
// Generate assumes it is called exactly once per sale. Idempotency across
// repeated finalization is the sale workflow's contract, not the engine's.
type Service interface {
	Generate(ctx context.Context, req GenerateCommissionsRequest) ([]CommissionResponse, error)
	RecalculateForSale(ctx context.Context, req GenerateCommissionsRequest) ([]CommissionResponse, error)
	CancelForSale(ctx context.Context, req CancelCommissionsRequest) ([]CommissionResponse, error)

	ClosePeriod(ctx context.Context, req ClosePeriodRequest) (ClosePeriodResponse, error)
	MarkPaid(ctx context.Context, req MarkPaidRequest) ([]CommissionResponse, error)

	GetCommission(ctx context.Context, id string) (CommissionResponse, error)
	GetCommissions(ctx context.Context, filter Filter) (ListCommissionsResponse, error)
	GetSummary(ctx context.Context, filter SummaryFilter) (Summary, error)
	GetAuditLog(ctx context.Context, commissionID *string) ([]AuditLogEntryResponse, error)
}
