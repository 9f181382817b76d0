package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/jhoicas/facturx-api/internal/application/dto"
	"github.com/jhoicas/facturx-api/internal/domain"
	"github.com/jhoicas/facturx-api/internal/domain/entity"
	"github.com/jhoicas/facturx-api/internal/domain/repository"
	infrafacturx "github.com/jhoicas/facturx-api/internal/infrastructure/facturx"
	"github.com/jhoicas/facturx-api/internal/infrastructure/pdp"
	"github.com/jhoicas/facturx-api/pkg/logger"
)

// SendOrchestrator envía facturas emitidas a la PDP:
//
//	GENERATED|REJECTED|ERROR → SENDING → SENT | REJECTED | ERROR
//
// El envío corre en una goroutine propia con context.Background() + timeout,
// desacoplado del ciclo HTTP; el cliente consulta Status hasta un estado final.
type SendOrchestrator struct {
	invoices       repository.SentInvoiceRepository
	submitter      pdp.Submitter
	log            *logger.Logger
	timeout        time.Duration
	persistTimeout time.Duration
	wg             conc.WaitGroup
}

// SendOption configura el orquestador.
type SendOption func(*SendOrchestrator)

// WithSubmitTimeout límite de la llamada a la plataforma (60s por defecto).
func WithSubmitTimeout(d time.Duration) SendOption {
	return func(o *SendOrchestrator) { o.timeout = d }
}

// NewSendOrchestrator construye el orquestador.
func NewSendOrchestrator(invoices repository.SentInvoiceRepository, submitter pdp.Submitter, log *logger.Logger, opts ...SendOption) *SendOrchestrator {
	o := &SendOrchestrator{
		invoices:       invoices,
		submitter:      submitter,
		log:            log.Component("pdp"),
		timeout:        60 * time.Second,
		persistTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SendAsync marca la factura como SENDING y dispara el envío en segundo plano.
// Una factura ya enviada o en curso devuelve ErrConflict.
func (o *SendOrchestrator) SendAsync(ctx context.Context, id string) (*dto.InvoiceStatusDTO, error) {
	inv, err := o.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("pdp: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.CanSend(inv.Status) {
		return nil, fmt.Errorf("factura %s en estado %s: %w", inv.Number, inv.Status, domain.ErrConflict)
	}

	// Otro envío puede haber ganado la carrera entre la lectura y aquí.
	if err := o.invoices.MarkSending(ctx, inv.ID); err != nil {
		return nil, fmt.Errorf("pdp: marcar SENDING: %w", err)
	}
	inv.Status = entity.InvoiceStatusSending

	o.wg.Go(func() { o.process(inv) })
	return toStatusDTO(inv), nil
}

// Status estado actual frente a la PDP (polling).
func (o *SendOrchestrator) Status(ctx context.Context, id string) (*dto.InvoiceStatusDTO, error) {
	inv, err := o.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("pdp: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return toStatusDTO(inv), nil
}

// Wait bloquea hasta que terminen los envíos en curso (apagado ordenado, tests).
func (o *SendOrchestrator) Wait() { o.wg.Wait() }

// process siempre termina dejando un estado final en la DB. El estado se
// persiste con un contexto propio: el del envío puede haber expirado.
func (o *SendOrchestrator) process(inv *entity.SentInvoice) {
	res, err := o.submit(inv)

	status, trackID, errs := entity.InvoiceStatusSent, "", ""
	switch {
	case err != nil:
		status, errs = entity.InvoiceStatusError, err.Error()
		o.log.Error().Err(err).Str("number", inv.Number).Msg("error técnico enviando a la PDP")
	case !res.Accepted:
		status, trackID, errs = entity.InvoiceStatusRejected, res.TrackID, strings.Join(res.Errors, "; ")
	default:
		trackID = res.TrackID
	}

	ctx, cancel := context.WithTimeout(context.Background(), o.persistTimeout)
	defer cancel()
	if err := o.invoices.UpdateStatus(ctx, inv.ID, status, trackID, errs); err != nil {
		o.log.Error().Err(err).Str("number", inv.Number).Str("status", status).Msg("no se pudo persistir el estado de envío")
		return
	}
	o.log.Info().Str("number", inv.Number).Str("status", status).Str("track_id", trackID).Msg("envío a la PDP finalizado")
}

func (o *SendOrchestrator) submit(inv *entity.SentInvoice) (*pdp.Result, error) {
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	xmlName, _, _ := infrafacturx.ArtifactFilenames(inv.Number)
	return o.submitter.Submit(ctx, pdp.Submission{
		Number:   inv.Number,
		Filename: xmlName,
		XML:      []byte(inv.XML),
	})
}
