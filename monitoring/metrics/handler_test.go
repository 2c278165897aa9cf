package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ssvlabs/ssv-bridge/logging"
	"github.com/ssvlabs/ssv-bridge/storage/basedb"
	"github.com/ssvlabs/ssv-bridge/storage/kv"
)

func TestHandler(t *testing.T) {
	logger := logging.TestLogger(t)
	db, err := kv.NewInMemory(logger, basedb.Options{Ctx: context.Background()})
	require.NoError(t, err)
	defer func() { require.NoError(t, db.Close()) }()

	require.NoError(t, db.Set([]byte("accounts/"), []byte("a"), []byte{1}))
	require.NoError(t, db.Set([]byte("accounts/"), []byte("b"), []byte{1}))
	require.NoError(t, db.Set([]byte("other/"), []byte("c"), []byte{1}))

	var healthErr error
	checks := Checks{"ledger": HealthCheckFunc(func() error { return healthErr })}

	registry := prometheus.NewRegistry()
	mux := NewHandler(logger, db, registry, false, checks).Mux()

	serve := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	tt := []struct {
		name     string
		path     string
		wantCode int
		wantBody string
	}{
		{name: "count by prefix", path: "/database/count-by-collection?prefix=accounts/", wantCode: http.StatusOK, wantBody: `{"count":2}`},
		{name: "count by hex prefix", path: "/database/count-by-collection?prefix=0x6f74686572", wantCode: http.StatusOK, wantBody: `{"count":1}`},
		{name: "count all", path: "/database/count-by-collection", wantCode: http.StatusOK, wantBody: `{"count":3}`},
		{name: "bad hex", path: "/database/count-by-collection?prefix=0xzz", wantCode: http.StatusBadRequest},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(tc.path)
			require.Equal(t, tc.wantCode, rec.Code)
			if tc.wantBody != "" {
				require.JSONEq(t, tc.wantBody, rec.Body.String())
			}
		})
	}

	t.Run("health", func(t *testing.T) {
		require.Equal(t, http.StatusOK, serve("/health").Code)

		healthErr = errors.New("quorum is not initialized")
		rec := serve("/health")
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, rec.Body.String(), "ledger: quorum is not initialized")
	})

	t.Run("metrics", func(t *testing.T) {
		require.Equal(t, http.StatusOK, serve("/metrics").Code)
	})
}
