package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jhoicas/facturx-api/internal/application/dto"
	"github.com/jhoicas/facturx-api/internal/domain"
	"github.com/jhoicas/facturx-api/internal/domain/entity"
	domfacturx "github.com/jhoicas/facturx-api/internal/domain/facturx"
	"github.com/jhoicas/facturx-api/internal/domain/repository"
	infrafacturx "github.com/jhoicas/facturx-api/internal/infrastructure/facturx"
	"github.com/jhoicas/facturx-api/internal/infrastructure/storage"
	"github.com/jhoicas/facturx-api/pkg/logger"
)

// errArchiveMiss el artefacto no está en el archivo (se regenera).
var errArchiveMiss = errors.New("artefacto no archivado")

// File artefacto descargable.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// ArtifactsUseCase descarga de los artefactos de una factura emitida: XML tal
// como se emitió, PDF (archivado o regenerado desde la solicitud guardada) y ZIP.
type ArtifactsUseCase struct {
	invoices repository.SentInvoiceRepository
	builder  documentBuilder
	pdf      InvoicePDFGenerator
	archive  ArchiveStore
	log      *logger.Logger
}

// NewArtifactsUseCase construye el caso de uso. archive puede ser nil.
func NewArtifactsUseCase(
	invoices repository.SentInvoiceRepository,
	pdf InvoicePDFGenerator,
	archive ArchiveStore,
	emitter entity.Party,
	log *logger.Logger,
) *ArtifactsUseCase {
	return &ArtifactsUseCase{
		invoices: invoices,
		builder:  documentBuilder{emitter: emitter},
		pdf:      pdf,
		archive:  archive,
		log:      log.Component("artifacts"),
	}
}

// XML devuelve el XML CII persistido.
func (uc *ArtifactsUseCase) XML(ctx context.Context, id string) (*File, error) {
	inv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	xmlName, _, _ := infrafacturx.ArtifactFilenames(inv.Number)
	return &File{Name: xmlName, ContentType: "application/xml", Data: []byte(inv.XML)}, nil
}

// PDF devuelve el PDF archivado o lo regenera desde la solicitud guardada.
func (uc *ArtifactsUseCase) PDF(ctx context.Context, id string) (*File, error) {
	inv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := uc.pdfBytes(ctx, inv)
	if err != nil {
		return nil, err
	}
	_, pdfName, _ := infrafacturx.ArtifactFilenames(inv.Number)
	return &File{Name: pdfName, ContentType: "application/pdf", Data: data}, nil
}

// Archive ZIP con XML y PDF; reproducible (fecha de entrada = creación de la factura).
func (uc *ArtifactsUseCase) Archive(ctx context.Context, id string) (*File, error) {
	inv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	pdf, err := uc.pdfBytes(ctx, inv)
	if err != nil {
		return nil, err
	}
	xmlName, pdfName, zipName := infrafacturx.ArtifactFilenames(inv.Number)
	zipped, err := infrafacturx.BundleArtifacts(inv.CreatedAt,
		infrafacturx.Artifact{Name: xmlName, Data: []byte(inv.XML)},
		infrafacturx.Artifact{Name: pdfName, Data: pdf},
	)
	if err != nil {
		return nil, fmt.Errorf("artifacts: zip: %w", err)
	}
	return &File{Name: zipName, ContentType: "application/zip", Data: zipped}, nil
}

func (uc *ArtifactsUseCase) load(ctx context.Context, id string) (*entity.SentInvoice, error) {
	inv, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("artifacts: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

func (uc *ArtifactsUseCase) pdfBytes(ctx context.Context, inv *entity.SentInvoice) ([]byte, error) {
	data, err := uc.fromArchive(ctx, inv)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, errArchiveMiss) {
		uc.log.Warn().Err(err).Str("number", inv.Number).Msg("archivo no disponible, se regenera el PDF")
	}
	return uc.regeneratePDF(ctx, inv)
}

func (uc *ArtifactsUseCase) fromArchive(ctx context.Context, inv *entity.SentInvoice) ([]byte, error) {
	if uc.archive == nil {
		return nil, errArchiveMiss
	}
	_, pdfKey := archiveKeys(inv)
	data, err := uc.archive.Get(ctx, pdfKey)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, errArchiveMiss
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errArchiveMiss
	}
	return data, nil
}

// regeneratePDF reconstruye documento y totales desde DocumentJSON.
func (uc *ArtifactsUseCase) regeneratePDF(ctx context.Context, inv *entity.SentInvoice) ([]byte, error) {
	var req dto.InvoiceRequest
	if err := json.Unmarshal(inv.DocumentJSON, &req); err != nil {
		return nil, fmt.Errorf("artifacts: solicitud guardada ilegible: %w", err)
	}
	doc, err := uc.builder.build(ctx, &req, true)
	if err != nil {
		return nil, fmt.Errorf("artifacts: reconstruir factura %s: %w", inv.Number, err)
	}
	totals, err := domfacturx.ComputeInvoiceTotals(doc.Lines)
	if err != nil {
		return nil, fmt.Errorf("artifacts: totales: %w", err)
	}
	pdf, err := uc.pdf.GenerateInvoicePDF(ctx, doc, totals)
	if err != nil {
		return nil, fmt.Errorf("artifacts: generar PDF: %w", err)
	}
	return pdf, nil
}
