package handlers

import (
	"net/http"

	appcontract "github.com/turtacn/ContractPilot/internal/application/contract"
	domainContract "github.com/turtacn/ContractPilot/internal/domain/contract"
)

// RiskHandler exposes the risk engine for ad-hoc lead scoring.
type RiskHandler struct {
	svc appcontract.ContractService
}

func NewRiskHandler(svc appcontract.ContractService) *RiskHandler {
	return &RiskHandler{svc: svc}
}

// Assess handles POST /api/v1/risk/assess with a lead body.
func (h *RiskHandler) Assess(w http.ResponseWriter, r *http.Request) {
	var lead domainContract.Lead
	if err := decodeJSON(r, &lead, false); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.AssessRisk(&lead))
}

//Personal.AI order the ending
