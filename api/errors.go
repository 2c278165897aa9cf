package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/ssvlabs/ssv-bridge/bridge"
)

type ErrorResponse struct {
	Err  error `json:"-"` // low-level runtime error
	Code int   `json:"-"` // http response status code

	Status  string `json:"status"`           // user-level status message
	Message string `json:"error,omitempty"`  // application-level error message, for debugging
	Reason  string `json:"reason,omitempty"` // bridge error code name, when the error carries one
}

func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.Code)
	return nil
}

func (e *ErrorResponse) Error() string {
	return e.Err.Error()
}

func newErrorResponse(code int, err error) *ErrorResponse {
	resp := &ErrorResponse{
		Err:     err,
		Code:    code,
		Status:  http.StatusText(code),
		Message: err.Error(),
	}
	var bridgeErr *bridge.Error
	if errors.As(err, &bridgeErr) {
		resp.Reason = bridgeErr.Code.String()
	}
	return resp
}

func BadRequestError(err error) *ErrorResponse {
	return newErrorResponse(http.StatusBadRequest, err)
}

// NotFoundError reports a record that does not exist or was never initialized.
func NotFoundError(err error) *ErrorResponse {
	return newErrorResponse(http.StatusNotFound, err)
}

func Error(err error) *ErrorResponse {
	return newErrorResponse(http.StatusInternalServerError, err)
}

var ErrNotFound = &ErrorResponse{Code: http.StatusNotFound, Status: "Resource not found."}
