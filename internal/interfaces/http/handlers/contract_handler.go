package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	appcontract "github.com/turtacn/ContractPilot/internal/application/contract"
	"github.com/turtacn/ContractPilot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ContractPilot/internal/infrastructure/render"
	"github.com/turtacn/ContractPilot/pkg/errors"
)

// ContractHandler serves the contract pipeline endpoints.
type ContractHandler struct {
	svc    appcontract.ContractService
	logger logging.Logger
}

func NewContractHandler(svc appcontract.ContractService, logger logging.Logger) *ContractHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ContractHandler{svc: svc, logger: logger}
}

// Preview handles POST /api/v1/contracts/preview. With ?format=html the
// rendered document is returned instead of the JSON envelope.
func (h *ContractHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req appcontract.PreviewRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeAppError(w, err)
		return
	}

	res, err := h.svc.GeneratePreview(r.Context(), &req)
	if err != nil {
		logging.FromContext(r.Context(), h.logger).Warn("preview failed", logging.LeadID(req.LeadID), logging.Err(err))
		writeAppError(w, err)
		return
	}

	if strings.EqualFold(r.URL.Query().Get("format"), "html") {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(res.HTML))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Generate handles POST /api/v1/contracts. Failed runs still return the
// result body, under the status mapped from the failure code.
func (h *ContractHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req appcontract.GenerateRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeAppError(w, err)
		return
	}

	res := h.svc.Generate(r.Context(), &req)
	if res.Success {
		writeJSON(w, http.StatusCreated, res)
		return
	}
	writeJSON(w, errors.HTTPStatusForCode(res.Code), res)
}

// Get handles GET /api/v1/contracts/{contractID}.
func (h *ContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "contractID")
	details, err := h.svc.GetContract(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// Approve handles POST /api/v1/contracts/{contractID}/approve.
func (h *ContractHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "contractID")
	c, err := h.svc.Approve(r.Context(), id)
	if err != nil {
		logging.FromContext(r.Context(), h.logger).Warn("approval rejected", logging.ContractID(id), logging.Err(err))
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Document handles GET /api/v1/contracts/{contractID}/document. Stored PDFs
// are redirected to; inline documents are served directly.
func (h *ContractHandler) Document(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "contractID")
	details, err := h.svc.GetContract(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}

	url := details.Contract.DocumentURL
	if !render.IsInlineURL(url) {
		http.Redirect(w, r, url, http.StatusFound)
		return
	}

	html, err := render.DecodeInlineHTML(url)
	if err != nil {
		logging.FromContext(r.Context(), h.logger).Error("stored inline document is corrupt", logging.ContractID(id), logging.Err(err))
		writeAppError(w, errors.Wrap(err, errors.ErrCodeInternal, "decode document"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

//Personal.AI order the ending
