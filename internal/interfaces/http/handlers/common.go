// Package handlers implements the REST endpoints of the contract API.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/turtacn/ContractPilot/pkg/errors"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeAppError maps an error to its HTTP status. Server-side failures are
// masked with the code's default message.
func writeAppError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	resp := ErrorResponse{Code: string(code), Message: errors.DefaultMessageForCode(code)}
	var appErr *errors.AppError
	if errors.As(err, &appErr) && status < http.StatusInternalServerError {
		resp.Message = appErr.Message
	}
	writeJSON(w, status, resp)
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched
// when allowEmpty is set.
func decodeJSON(r *http.Request, dst interface{}, allowEmpty bool) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF && allowEmpty {
			return nil
		}
		return errors.New(errors.ErrCodeBadRequest, "invalid request body").WithDetail(err.Error())
	}
	return nil
}

//Personal.AI order the ending
