package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/require"

	"github.com/ssvlabs/ssv-bridge/bridge"
)

func TestErrorResponses(t *testing.T) {
	t.Parallel()

	tt := []struct {
		name       string
		resp       *ErrorResponse
		wantCode   int
		wantReason string
	}{
		{
			name:     "bad request",
			resp:     BadRequestError(errors.New("invalid mint")),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "internal",
			resp:     Error(errors.New("disk failure")),
			wantCode: http.StatusInternalServerError,
		},
		{
			name:       "missing quorum",
			resp:       NotFoundError(bridge.ErrBeaconsUninitialized),
			wantCode:   http.StatusNotFound,
			wantReason: "BeaconsUninitialized",
		},
		{
			name:       "wrapped bridge error",
			resp:       NotFoundError(fmt.Errorf("load counter: %w", bridge.ErrCounterUninitialized.Wrapf("never bootstrapped"))),
			wantCode:   http.StatusNotFound,
			wantReason: "CounterUninitialized",
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.wantCode, tc.resp.Code)
			require.Equal(t, http.StatusText(tc.wantCode), tc.resp.Status)
			require.Equal(t, tc.resp.Err.Error(), tc.resp.Message)
			require.Equal(t, tc.resp.Err.Error(), tc.resp.Error())
			require.Equal(t, tc.wantReason, tc.resp.Reason)

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			require.NoError(t, tc.resp.Render(httptest.NewRecorder(), r))
			require.Equal(t, tc.wantCode, r.Context().Value(render.StatusCtxKey))
		})
	}
}

func TestErrNotFound(t *testing.T) {
	t.Parallel()

	require.Equal(t, http.StatusNotFound, ErrNotFound.Code)
	require.Empty(t, ErrNotFound.Message)
	require.Nil(t, ErrNotFound.Err)
}

func TestHandler(t *testing.T) {
	t.Parallel()

	tt := []struct {
		name     string
		handler  HandlerFunc
		wantCode int
		wantBody string
	}{
		{
			name: "ok",
			handler: func(w http.ResponseWriter, r *http.Request) error {
				return Render(w, r, map[string]uint64{"counter": 3})
			},
			wantCode: http.StatusOK,
			wantBody: `{"counter":3}`,
		},
		{
			name: "error response",
			handler: func(w http.ResponseWriter, r *http.Request) error {
				return NotFoundError(bridge.ErrBeaconsUninitialized)
			},
			wantCode: http.StatusNotFound,
			wantBody: `{"status":"Not Found","error":"bridge: beacon list is not initialized","reason":"BeaconsUninitialized"}`,
		},
		{
			name: "plain error",
			handler: func(w http.ResponseWriter, r *http.Request) error {
				return errors.New("boom")
			},
			wantCode: http.StatusInternalServerError,
			wantBody: `{"status":"Internal Server Error","error":"boom"}`,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			Handler(tc.handler)(w, httptest.NewRequest(http.MethodGet, "/", nil))
			require.Equal(t, tc.wantCode, w.Code)
			require.JSONEq(t, tc.wantBody, w.Body.String())
		})
	}
}
