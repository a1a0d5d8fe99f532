package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lojaops/commission-backend-go/internal/domain/commission"
	"github.com/lojaops/commission-backend-go/internal/handler/http/response"
)

type CommissionHandler interface {
	// Sale workflow entry points
	Generate(w http.ResponseWriter, r *http.Request)
	Recalculate(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)

	// Operator actions
	ClosePeriod(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)

	// Dashboard reads
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	AuditLog(w http.ResponseWriter, r *http.Request)
}

type commissionHandlerImpl struct {
	commissionService commission.Service
}

func NewCommissionHandler(commissionService commission.Service) CommissionHandler {
	return &commissionHandlerImpl{commissionService: commissionService}
}

// ========== SALE WORKFLOW ==========

func (h *commissionHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req commission.GenerateCommissionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.SaleID = chi.URLParam(r, "saleID")

	result, err := h.commissionService.Generate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Commissions generated", result)
}

func (h *commissionHandlerImpl) Recalculate(w http.ResponseWriter, r *http.Request) {
	var req commission.GenerateCommissionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.SaleID = chi.URLParam(r, "saleID")

	result, err := h.commissionService.RecalculateForSale(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Commissions recalculated", result)
}

func (h *commissionHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	var req commission.CancelCommissionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.SaleID = chi.URLParam(r, "saleID")

	result, err := h.commissionService.CancelForSale(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Commissions cancelled", result)
}

// ========== OPERATOR ACTIONS ==========

func (h *commissionHandlerImpl) ClosePeriod(w http.ResponseWriter, r *http.Request) {
	var req commission.ClosePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.commissionService.ClosePeriod(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Period closed", result)
}

func (h *commissionHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	var req commission.MarkPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.commissionService.MarkPaid(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Commissions marked paid", result)
}

// ========== READS ==========

func (h *commissionHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.commissionService.GetCommission(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *commissionHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r)

	result, err := h.commissionService.GetCommissions(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Data, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
	})
}

func (h *commissionHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	var filter commission.SummaryFilter
	if v := r.URL.Query().Get("seller_id"); v != "" {
		filter.SellerID = &v
	}
	if v := r.URL.Query().Get("period"); v != "" {
		filter.PeriodReference = &v
	}

	result, err := h.commissionService.GetSummary(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *commissionHandlerImpl) AuditLog(w http.ResponseWriter, r *http.Request) {
	var commissionID *string
	if id := chi.URLParam(r, "id"); id != "" {
		commissionID = &id
	}

	result, err := h.commissionService.GetAuditLog(r.Context(), commissionID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func parseFilter(r *http.Request) commission.Filter {
	q := r.URL.Query()

	var filter commission.Filter
	if v := q.Get("sale_id"); v != "" {
		filter.SaleID = &v
	}
	if v := q.Get("seller_id"); v != "" {
		filter.SellerID = &v
	}
	if v := q.Get("status"); v != "" {
		if status, err := commission.ParseStatus(v); err == nil {
			filter.Status = &status
		}
	}
	if v := q.Get("period"); v != "" {
		filter.PeriodReference = &v
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = v
	}

	return filter
}
