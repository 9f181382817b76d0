// Package pdp envía facturas Factur-X a la plataforma de desmaterialización
// (PDP) con OAuth2 client-credentials y reintentos.
package pdp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/jhoicas/facturx-api/pkg/config"
	"github.com/jhoicas/facturx-api/pkg/logger"
)

// Submission factura a enviar.
type Submission struct {
	Number   string
	Filename string
	XML      []byte
}

// Result respuesta de la plataforma.
type Result struct {
	TrackID  string
	Accepted bool
	Errors   []string
}

// Submitter envía una factura a la plataforma.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) (*Result, error)
}

// ── Cliente real ─────────────────────────────────────────────────────────────

// Client cliente HTTP de la PDP. El token se obtiene y renueva automáticamente.
type Client struct {
	sendURL string
	http    *http.Client
	log     *logger.Logger
}

var _ Submitter = (*Client)(nil)

// NewClient construye el cliente: transporte con reintentos (retryablehttp) y
// token OAuth2 client-credentials encima.
func NewClient(cfg config.PDPConfig, log *logger.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.Logger = leveledLogger{log: log}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	base := context.WithValue(context.Background(), oauth2.HTTPClient, rc.StandardClient())

	return &Client{
		sendURL: cfg.SendURL,
		http:    cc.Client(base),
		log:     log,
	}
}

type sendResponse struct {
	ID     string   `json:"id"`
	Status string   `json:"status"`
	Errors []string `json:"errors"`
	Error  string   `json:"error"`
}

// Submit envía el XML CII. 2xx = aceptada; 400/422 = rechazada con errores;
// cualquier otro estado es un error técnico.
func (c *Client) Submit(ctx context.Context, sub Submission) (*Result, error) {
	target := c.sendURL
	if sub.Filename != "" {
		target += "?filename=" + url.QueryEscape(sub.Filename)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(sub.XML))
	if err != nil {
		return nil, fmt.Errorf("pdp: crear petición: %w", err)
	}
	req.Header.Set("Content-Type", "application/xml")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pdp: enviar %s: %w", sub.Number, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("pdp: leer respuesta: %w", err)
	}
	var parsed sendResponse
	decodeErr := json.Unmarshal(body, &parsed)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if decodeErr != nil {
			c.log.Warn().Err(decodeErr).
				Str("number", sub.Number).
				Int("http_status", resp.StatusCode).
				Str("body", truncate(string(body), 200)).
				Msg("respuesta de la PDP ilegible; se da por aceptada sin track ID")
		}
		c.log.Info().Str("number", sub.Number).Str("track_id", parsed.ID).Msg("factura aceptada por la PDP")
		return &Result{TrackID: parsed.ID, Accepted: true}, nil
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		errs := parsed.Errors
		if len(errs) == 0 && parsed.Error != "" {
			errs = []string{parsed.Error}
		}
		if len(errs) == 0 {
			errs = []string{string(body)}
		}
		c.log.Warn().Str("number", sub.Number).Strs("errors", errs).Msg("factura rechazada por la PDP")
		return &Result{TrackID: parsed.ID, Accepted: false, Errors: errs}, nil
	default:
		return nil, fmt.Errorf("pdp: estado inesperado %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
}

// ── Simulado (desarrollo) ────────────────────────────────────────────────────

// DevSubmitter acepta todo sin llamar a la red.
type DevSubmitter struct {
	log *logger.Logger
	now func() time.Time
}

var _ Submitter = (*DevSubmitter)(nil)

// NewDevSubmitter construye el simulador.
func NewDevSubmitter(log *logger.Logger) *DevSubmitter {
	return &DevSubmitter{log: log, now: time.Now}
}

// Submit devuelve un track ID sintético DEV-<número>-<unix>.
func (d *DevSubmitter) Submit(_ context.Context, sub Submission) (*Result, error) {
	track := fmt.Sprintf("DEV-%s-%d", sub.Number, d.now().Unix())
	d.log.Info().Str("number", sub.Number).Str("track_id", track).Msg("envío simulado a la PDP")
	return &Result{TrackID: track, Accepted: true}, nil
}

// NewSubmitter cliente real en producción, simulado en otro caso.
func NewSubmitter(cfg config.PDPConfig, log *logger.Logger) Submitter {
	if cfg.IsProduction() {
		return NewClient(cfg, log)
	}
	return NewDevSubmitter(log)
}

// ── helpers ──────────────────────────────────────────────────────────────────

// leveledLogger adapta pkg/logger a retryablehttp.LeveledLogger.
type leveledLogger struct {
	log *logger.Logger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.log.Error().Fields(kv).Msg(msg) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.log.Debug().Fields(kv).Msg(msg) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.log.Debug().Fields(kv).Msg(msg) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.log.Warn().Fields(kv).Msg(msg) }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
