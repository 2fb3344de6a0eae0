package ledger

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/splitledger/pkg/response"
)

// Handler handles HTTP requests for balance and settlement-plan reads
type Handler struct {
	service *Service
}

// NewHandler creates a new ledger handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for ledger read endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/group/{groupId}/balances", h.GetBalances)
	r.Get("/group/{groupId}/settlement-plan", h.GetSettlementPlan)

	return r
}

// GetBalances handles GET /ledger/group/{groupId}/balances
// @Summary      Get group balances
// @Description  Net balance per user in minor currency units; values sum to zero
// @Tags         ledger
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Router       /ledger/group/{groupId}/balances [get]
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	balances, err := h.service.GetBalances(r.Context(), groupID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, balances)
}

// GetSettlementPlan handles GET /ledger/group/{groupId}/settlement-plan
// @Summary      Get settlement plan
// @Description  Ordered list of suggested payments that would zero every balance
// @Tags         ledger
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]Transfer}
// @Failure      400 {object} response.APIResponse
// @Router       /ledger/group/{groupId}/settlement-plan [get]
func (h *Handler) GetSettlementPlan(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	plan, err := h.service.GetSettlementPlan(r.Context(), groupID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, plan)
}
