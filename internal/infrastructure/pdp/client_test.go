package pdp_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturx-api/internal/infrastructure/pdp"
	"github.com/jhoicas/facturx-api/pkg/config"
	"github.com/jhoicas/facturx-api/pkg/logger"
)

func TestClient_Submit_Aceptada(t *testing.T) {
	var tokenCalls int32
	filenames := make(chan string, 2)
	srv := newPDPServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/xml", r.Header.Get("Content-Type"))
		filenames <- r.URL.Query().Get("filename")
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "<xml/>", string(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"trk-1","status":"received"}`))
	})

	c := pdp.NewClient(cfgFor(srv.URL), logger.Nop())
	res, err := c.Submit(context.Background(), pdp.Submission{Number: "FA-2026-0001", Filename: "FA-2026-0001.xml", XML: []byte("<xml/>")})
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.Equal(t, "trk-1", res.TrackID)

	// Segundo envío reutiliza el token; sin nombre de archivo no hay ?filename=.
	_, err = c.Submit(context.Background(), pdp.Submission{Number: "FA-2026-0002", XML: []byte("<xml/>")})
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&tokenCalls))

	assert.Equal(t, "FA-2026-0001.xml", <-filenames)
	assert.Equal(t, "", <-filenames)
}

func TestClient_Submit_RespuestaNoJSONRegistraAviso(t *testing.T) {
	var tokenCalls int32
	srv := newPDPServer(t, &tokenCalls, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>OK</html>"))
	})

	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Output: &buf})

	res, err := pdp.NewClient(cfgFor(srv.URL), log).Submit(context.Background(), pdp.Submission{Number: "FA-2026-0003", XML: []byte("<xml/>")})
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.Empty(t, res.TrackID)
	assert.Contains(t, buf.String(), "respuesta de la PDP ilegible")
	assert.Contains(t, buf.String(), `"number":"FA-2026-0003"`)
}

func TestClient_Submit_Rechazada(t *testing.T) {
	var tokenCalls int32
	srv := newPDPServer(t, &tokenCalls, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":["BR-CO-15: total incohérent"]}`))
	})

	res, err := pdp.NewClient(cfgFor(srv.URL), logger.Nop()).Submit(context.Background(), pdp.Submission{Number: "X", XML: []byte("<xml/>")})
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Equal(t, []string{"BR-CO-15: total incohérent"}, res.Errors)
}

func TestClient_Submit_ErrorTecnico(t *testing.T) {
	var tokenCalls int32
	srv := newPDPServer(t, &tokenCalls, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := pdp.NewClient(cfgFor(srv.URL), logger.Nop()).Submit(context.Background(), pdp.Submission{Number: "X", XML: []byte("<xml/>")})
	assert.Error(t, err)
}

func TestDevSubmitter_AceptaSinRed(t *testing.T) {
	res, err := pdp.NewDevSubmitter(logger.Nop()).Submit(context.Background(), pdp.Submission{Number: "FA-1"})
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.True(t, strings.HasPrefix(res.TrackID, "DEV-FA-1-"))
}

func TestNewSubmitter_SegunEntorno(t *testing.T) {
	_, isDev := pdp.NewSubmitter(config.PDPConfig{AppEnv: "development"}, logger.Nop()).(*pdp.DevSubmitter)
	assert.True(t, isDev)
	_, isReal := pdp.NewSubmitter(config.PDPConfig{AppEnv: "production"}, logger.Nop()).(*pdp.Client)
	assert.True(t, isReal)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func newPDPServer(t *testing.T, tokenCalls *int32, invoices http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(tokenCalls, 1)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "id", r.PostForm.Get("client_id"))
		assert.Equal(t, "secret", r.PostForm.Get("client_secret"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/v1/invoices", invoices)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func cfgFor(base string) config.PDPConfig {
	return config.PDPConfig{
		AppEnv:       "production",
		ClientID:     "id",
		ClientSecret: "secret",
		TokenURL:     base + "/oauth2/token",
		SendURL:      base + "/v1/invoices",
	}
}
