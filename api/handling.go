package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"github.com/golang/gddo/httputil"
)

const (
	contentTypePlainText = "text/plain"
	contentTypeJSON      = "application/json"
)

// HandlerFunc is an http handler that reports failures by returning them.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// Handler adapts h, rendering a returned *ErrorResponse as is and any other
// error as a 500.
func Handler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		var resp *ErrorResponse
		if !errors.As(err, &resp) {
			resp = Error(err)
		}
		if renderErr := render.Render(w, r, resp); renderErr != nil {
			http.Error(w, renderErr.Error(), http.StatusInternalServerError)
		}
	}
}

// Render writes response as JSON, or as plain text when the client asks for
// it and response implements fmt.Stringer.
func Render(w http.ResponseWriter, r *http.Request, response any) error {
	contentType := httputil.NegotiateContentType(
		r,
		[]string{contentTypePlainText, contentTypeJSON},
		contentTypeJSON,
	)

	if stringer, ok := response.(fmt.Stringer); ok && contentType == contentTypePlainText {
		render.PlainText(w, r, stringer.String())
		return nil
	}
	render.JSON(w, r, response)
	return nil
}
