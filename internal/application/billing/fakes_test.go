package billing_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/jhoicas/facturx-api/internal/domain"
	"github.com/jhoicas/facturx-api/internal/domain/entity"
	domfacturx "github.com/jhoicas/facturx-api/internal/domain/facturx"
	"github.com/jhoicas/facturx-api/internal/domain/repository"
	infrafacturx "github.com/jhoicas/facturx-api/internal/infrastructure/facturx"
	"github.com/jhoicas/facturx-api/internal/infrastructure/pdp"
	"github.com/jhoicas/facturx-api/internal/infrastructure/storage"
)

// ── store en memoria con semántica transaccional ─────────────────────────────

type memStore struct {
	mu       sync.Mutex
	counters map[string]int64
	invoices map[string]*entity.SentInvoice
	clients  map[string]*entity.Client
}

func newMemStore() *memStore {
	return &memStore{
		counters: map[string]int64{},
		invoices: map[string]*entity.SentInvoice{},
		clients:  map[string]*entity.Client{},
	}
}

// RunInvoicing restaura el estado si fn falla (rollback).
func (s *memStore) RunInvoicing(ctx context.Context, fn func(
	counters repository.InvoiceCounterRepository,
	invoices repository.SentInvoiceRepository,
	clients repository.ClientRepository,
) error) error {
	s.mu.Lock()
	counters := cloneMap(s.counters)
	invoices := cloneMap(s.invoices)
	clients := cloneMap(s.clients)
	s.mu.Unlock()

	if err := fn(counterRepo{s}, invoiceRepo{s}, clientRepo{s}); err != nil {
		s.mu.Lock()
		s.counters, s.invoices, s.clients = counters, invoices, clients
		s.mu.Unlock()
		return err
	}
	return nil
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type counterRepo struct{ s *memStore }

func (r counterRepo) Next(_ context.Context, prefix string, year int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := fmt.Sprintf("%s|%d", prefix, year)
	r.s.counters[key]++
	return r.s.counters[key], nil
}

type invoiceRepo struct{ s *memStore }

func (r invoiceRepo) Create(_ context.Context, inv *entity.SentInvoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.invoices {
		if other.Number == inv.Number {
			return domain.ErrDuplicate
		}
	}
	cp := *inv
	r.s.invoices[inv.ID] = &cp
	return nil
}

func (r invoiceRepo) GetByID(_ context.Context, id string) (*entity.SentInvoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r invoiceRepo) List(_ context.Context, f repository.SentInvoiceFilter) ([]*entity.SentInvoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.SentInvoice
	for _, inv := range r.s.invoices {
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		cp := *inv
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number > out[j].Number })
	return out, nil
}

func (r invoiceRepo) MarkSending(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	if !entity.CanSend(inv.Status) {
		return domain.ErrConflict
	}
	inv.Status = entity.InvoiceStatusSending
	return nil
}

// UpdateStatus falla con un contexto vencido, como haría pgx.
func (r invoiceRepo) UpdateStatus(ctx context.Context, id, status, trackID, gatewayErrors string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Status = status
	if trackID != "" {
		inv.TrackID = trackID
	}
	inv.GatewayErrors = gatewayErrors
	return nil
}

type clientRepo struct{ s *memStore }

func (r clientRepo) Create(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.clients {
		if other.SIRET == c.SIRET {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.s.clients[c.ID] = &cp
	return nil
}

func (r clientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.clients[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r clientRepo) GetBySIRET(_ context.Context, siret string) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.clients {
		if c.SIRET == siret {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r clientRepo) Search(_ context.Context, q string, limit, offset int) ([]*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Client
	for _, c := range r.s.clients {
		if q == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(q)) || strings.HasPrefix(c.SIRET, q) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r clientRepo) Upsert(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, other := range r.s.clients {
		if other.SIRET == c.SIRET {
			c.ID = id
			cp := *c
			r.s.clients[id] = &cp
			return nil
		}
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	cp := *c
	r.s.clients[c.ID] = &cp
	return nil
}

// ── colaboradores ────────────────────────────────────────────────────────────

type fakePDF struct {
	mu    sync.Mutex
	calls int
}

func (f *fakePDF) GenerateInvoicePDF(_ context.Context, doc *entity.InvoiceDocument, _ *domfacturx.InvoiceTotals) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return []byte("%PDF-fake " + doc.Header.Number), nil
}

type failingComposer struct{}

func (failingComposer) Compose(*entity.InvoiceDocument, *domfacturx.InvoiceTotals, infrafacturx.Profile) (string, error) {
	return "", errors.New("composición rota")
}

type memArchive struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemArchive() *memArchive { return &memArchive{files: map[string][]byte{}} }

func (a *memArchive) Put(_ context.Context, key string, data []byte, _ string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.files[key] = data
	return nil
}

func (a *memArchive) Get(_ context.Context, key string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	data, ok := a.files[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return data, nil
}

type fakeSubmitter struct {
	res *pdp.Result
	err error
}

func (f fakeSubmitter) Submit(context.Context, pdp.Submission) (*pdp.Result, error) {
	return f.res, f.err
}

// blockingSubmitter no responde hasta que vence el contexto del envío.
type blockingSubmitter struct{}

func (blockingSubmitter) Submit(ctx context.Context, _ pdp.Submission) (*pdp.Result, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// countingSubmitter acepta y cuenta los envíos; release retiene la respuesta.
type countingSubmitter struct {
	calls   atomic.Int32
	release chan struct{}
}

func (c *countingSubmitter) Submit(context.Context, pdp.Submission) (*pdp.Result, error) {
	n := c.calls.Add(1)
	<-c.release
	return &pdp.Result{TrackID: fmt.Sprintf("TRK-%d", n), Accepted: true}, nil
}

type fakeExporter struct{ got []*entity.SentInvoice }

func (f *fakeExporter) Export(list []*entity.SentInvoice) ([]byte, error) {
	f.got = list
	return []byte("xlsx"), nil
}
