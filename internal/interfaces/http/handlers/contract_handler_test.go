package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appcontract "github.com/turtacn/ContractPilot/internal/application/contract"
	domainContract "github.com/turtacn/ContractPilot/internal/domain/contract"
	"github.com/turtacn/ContractPilot/internal/infrastructure/render"
	"github.com/turtacn/ContractPilot/pkg/errors"
)

func newTestContractHandler() (*ContractHandler, *mockContractService) {
	svc := new(mockContractService)
	return NewContractHandler(svc, nil), svc
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestPreview_JSON(t *testing.T) {
	h, svc := newTestContractHandler()
	svc.On("GeneratePreview", mock.Anything, mock.MatchedBy(func(r *appcontract.PreviewRequest) bool {
		return r.LeadID == "lead-1" && r.ContractType == domainContract.TypeSaleMandate
	})).Return(&appcontract.PreviewResult{HTML: "<html>preview</html>"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contracts/preview",
		strings.NewReader(`{"lead_id":"lead-1","contract_type":"sale_mandate"}`))
	rec := httptest.NewRecorder()
	h.Preview(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, rec.Body.String(), "preview")
	svc.AssertExpectations(t)
}

func TestPreview_HTMLFormat(t *testing.T) {
	h, svc := newTestContractHandler()
	svc.On("GeneratePreview", mock.Anything, mock.Anything).
		Return(&appcontract.PreviewResult{HTML: "<html>preview</html>"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contracts/preview?format=html",
		strings.NewReader(`{"lead_id":"lead-1"}`))
	rec := httptest.NewRecorder()
	h.Preview(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<html>preview</html>", rec.Body.String())
}

func TestPreview_LeadNotFound(t *testing.T) {
	h, svc := newTestContractHandler()
	svc.On("GeneratePreview", mock.Anything, mock.Anything).Return(nil, domainContract.ErrLeadNotFound("lead-x"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contracts/preview", strings.NewReader(`{"lead_id":"lead-x"}`))
	rec := httptest.NewRecorder()
	h.Preview(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(errors.ErrCodeLeadNotFound), decodeError(t, rec).Code)
}

func TestPreview_InvalidBody(t *testing.T) {
	h, svc := newTestContractHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contracts/preview", strings.NewReader(`{"lead_id":`))
	rec := httptest.NewRecorder()
	h.Preview(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "GeneratePreview", mock.Anything, mock.Anything)
}

func TestPreview_UnknownField(t *testing.T) {
	h, _ := newTestContractHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contracts/preview", strings.NewReader(`{"lead":"lead-1"}`))
	rec := httptest.NewRecorder()
	h.Preview(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerate_Created(t *testing.T) {
	h, svc := newTestContractHandler()
	svc.On("Generate", mock.Anything, mock.MatchedBy(func(r *appcontract.GenerateRequest) bool {
		return r.LeadID == "lead-1" && r.Expedited
	})).Return(&appcontract.GenerationResult{
		Success:    true,
		ContractID: "PMC-1",
		Status:     domainContract.StatusApproved,
		State:      appcontract.StateAutoApproved,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contracts",
		strings.NewReader(`{"lead_id":"lead-1","expedited":true}`))
	rec := httptest.NewRecorder()
	h.Generate(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var res appcontract.GenerationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, "PMC-1", res.ContractID)
}

func TestGenerate_FailureUsesMappedStatus(t *testing.T) {
	h, svc := newTestContractHandler()
	svc.On("Generate", mock.Anything, mock.Anything).Return(&appcontract.GenerationResult{
		Success: false,
		State:   appcontract.StateFailed,
		Code:    errors.ErrCodePersistenceFailed,
		Errors:  []string{"insert contract"},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contracts", strings.NewReader(`{"lead_id":"lead-1"}`))
	rec := httptest.NewRecorder()
	h.Generate(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var res appcontract.GenerationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.Success)
	assert.Equal(t, errors.ErrCodePersistenceFailed, res.Code)
}

func TestGet_Found(t *testing.T) {
	h, svc := newTestContractHandler()
	svc.On("GetContract", mock.Anything, "PMC-1").Return(&appcontract.ContractDetails{
		Contract: &domainContract.Contract{ID: "PMC-1", Status: domainContract.StatusPendingReview},
	}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/contracts/PMC-1", nil), "contractID", "PMC-1")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pending_review"`)
}

func TestGet_NotFound(t *testing.T) {
	h, svc := newTestContractHandler()
	svc.On("GetContract", mock.Anything, "PMC-9").Return(nil, domainContract.ErrContractNotFound("PMC-9"))

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/contracts/PMC-9", nil), "contractID", "PMC-9")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApprove(t *testing.T) {
	h, svc := newTestContractHandler()
	svc.On("Approve", mock.Anything, "PMC-1").
		Return(&domainContract.Contract{ID: "PMC-1", Status: domainContract.StatusApproved}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/api/v1/contracts/PMC-1/approve", nil), "contractID", "PMC-1")
	rec := httptest.NewRecorder()
	h.Approve(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"approved"`)
}

func TestApprove_InvalidTransition(t *testing.T) {
	h, svc := newTestContractHandler()
	svc.On("Approve", mock.Anything, "PMC-1").
		Return(nil, domainContract.ErrInvalidTransition("PMC-1", domainContract.StatusApproved, domainContract.StatusApproved))

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/api/v1/contracts/PMC-1/approve", nil), "contractID", "PMC-1")
	rec := httptest.NewRecorder()
	h.Approve(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, string(errors.ErrCodeInvalidStatusTransition), decodeError(t, rec).Code)
}

func TestDocument_RedirectsToStoredPDF(t *testing.T) {
	h, svc := newTestContractHandler()
	url := "https://cdn.example.com/contracts/contracts/PMC-1.pdf"
	svc.On("GetContract", mock.Anything, "PMC-1").Return(&appcontract.ContractDetails{
		Contract: &domainContract.Contract{ID: "PMC-1", DocumentURL: url},
	}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/contracts/PMC-1/document", nil), "contractID", "PMC-1")
	rec := httptest.NewRecorder()
	h.Document(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, url, rec.Header().Get("Location"))
}

func TestDocument_ServesInlineHTML(t *testing.T) {
	h, svc := newTestContractHandler()
	html := "<html><body>Mandate</body></html>"
	svc.On("GetContract", mock.Anything, "PMC-2").Return(&appcontract.ContractDetails{
		Contract: &domainContract.Contract{ID: "PMC-2", DocumentURL: render.InlineHTMLURL(html), DocumentFallback: true},
	}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/contracts/PMC-2/document", nil), "contractID", "PMC-2")
	rec := httptest.NewRecorder()
	h.Document(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, html, rec.Body.String())
}

func TestWriteAppError_MasksServerErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	writeAppError(rec, errors.New(errors.ErrCodeDatabaseError, "pq: relation contracts does not exist"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "database error", resp.Message)
	assert.NotContains(t, rec.Body.String(), "relation")
}

//Personal.AI order the ending
