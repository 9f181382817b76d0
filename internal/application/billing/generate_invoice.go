package billing

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/jhoicas/facturx-api/internal/application/dto"
	"github.com/jhoicas/facturx-api/internal/domain/entity"
	domfacturx "github.com/jhoicas/facturx-api/internal/domain/facturx"
	"github.com/jhoicas/facturx-api/internal/domain/repository"
	infrafacturx "github.com/jhoicas/facturx-api/internal/infrastructure/facturx"
	"github.com/jhoicas/facturx-api/pkg/logger"
)

// GenerateConfig parámetros de emisión.
type GenerateConfig struct {
	DefaultProfile infrafacturx.Profile
	NumberPrefix   string // PREFIX-YYYY-NNNN
}

// GenerateInvoiceUseCase vista previa y emisión de facturas Factur-X:
//
//	solicitud → validación → totales → XML CII + PDF (en paralelo) → persistencia + archivo
type GenerateInvoiceUseCase struct {
	txRunner InvoicingTxRunner
	builder  documentBuilder
	composer XMLComposer
	pdf      InvoicePDFGenerator
	archive  ArchiveStore
	cfg      GenerateConfig
	log      *logger.Logger
	now      func() time.Time
}

// NewGenerateInvoiceUseCase construye el caso de uso. El emisor se inyecta
// explícitamente; archive puede ser nil.
func NewGenerateInvoiceUseCase(
	txRunner InvoicingTxRunner,
	clients repository.ClientRepository,
	composer XMLComposer,
	pdf InvoicePDFGenerator,
	archive ArchiveStore,
	emitter entity.Party,
	cfg GenerateConfig,
	log *logger.Logger,
) *GenerateInvoiceUseCase {
	if cfg.DefaultProfile == "" {
		cfg.DefaultProfile = infrafacturx.ProfileEN16931
	}
	if cfg.NumberPrefix == "" {
		cfg.NumberPrefix = "FA"
	}
	return &GenerateInvoiceUseCase{
		txRunner: txRunner,
		builder:  documentBuilder{emitter: emitter, clients: clients},
		composer: composer,
		pdf:      pdf,
		archive:  archive,
		cfg:      cfg,
		log:      log.Component("billing"),
		now:      time.Now,
	}
}

// Preview calcula y compone sin persistir ni consumir numeración. Sin número,
// el XML lleva un número provisional PREFIX-YYYY-BROUILLON.
func (uc *GenerateInvoiceUseCase) Preview(ctx context.Context, req dto.PreviewRequest) (*dto.PreviewResponse, error) {
	in := req.InvoiceRequest
	doc, err := uc.builder.build(ctx, &in, false)
	if err != nil {
		return nil, err
	}
	profile, err := uc.profileFor(in.Profile)
	if err != nil {
		return nil, err
	}
	if doc.Header.Number == "" {
		doc.Header.Number = fmt.Sprintf("%s-%d-BROUILLON", uc.cfg.NumberPrefix, doc.Header.IssueDate.Year())
	}

	totals, err := uc.totals(doc)
	if err != nil {
		return nil, err
	}
	art, err := uc.render(ctx, doc, totals, profile, req.IncludePDF)
	if err != nil {
		return nil, err
	}

	resp := &dto.PreviewResponse{
		InvoiceNumber: doc.Header.Number,
		Profile:       string(profile),
		Totals:        toTotalsResponse(totals, doc.Lines),
		XML:           art.xml,
		XMLHash:       art.hash,
	}
	if req.IncludePDF {
		resp.PDFBase64 = base64.StdEncoding.EncodeToString(art.pdf)
	}
	return resp, nil
}

// Generate emite la factura en una transacción: asigna número si falta, compone
// XML y PDF, persiste la factura (y el cliente si save_new_client) y archiva los
// artefactos tras el commit. Un fallo de composición no consume número.
func (uc *GenerateInvoiceUseCase) Generate(ctx context.Context, req dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	doc, err := uc.builder.build(ctx, &req, false)
	if err != nil {
		return nil, err
	}
	profile, err := uc.profileFor(req.Profile)
	if err != nil {
		return nil, err
	}
	totals, err := uc.totals(doc)
	if err != nil {
		return nil, err
	}

	var (
		inv *entity.SentInvoice
		art *artifacts
	)
	err = uc.txRunner.RunInvoicing(ctx, func(
		counters repository.InvoiceCounterRepository,
		invoices repository.SentInvoiceRepository,
		clients repository.ClientRepository,
	) error {
		if doc.Header.Number == "" {
			year := doc.Header.IssueDate.Year()
			n, err := counters.Next(ctx, uc.cfg.NumberPrefix, year)
			if err != nil {
				return fmt.Errorf("billing: numeración: %w", err)
			}
			doc.Header.Number = FormatInvoiceNumber(uc.cfg.NumberPrefix, year, n)
		}

		var err error
		art, err = uc.render(ctx, doc, totals, profile, true)
		if err != nil {
			return err
		}

		clientID := req.ClientID
		if req.SaveNewClient {
			c := &entity.Client{
				Name:        doc.Recipient.Name,
				SIRET:       doc.Recipient.SIRET,
				VATNumber:   doc.Recipient.VATNumber,
				Address:     doc.Recipient.Address,
				PostalCode:  doc.Recipient.PostalCode,
				City:        doc.Recipient.City,
				CountryCode: doc.Recipient.CountryCode,
				Email:       req.RecipientEmail,
			}
			if err := clients.Upsert(ctx, c); err != nil {
				return fmt.Errorf("billing: guardar cliente: %w", err)
			}
			clientID = c.ID
		}

		snapshot, err := json.Marshal(snapshotRequest(req, doc))
		if err != nil {
			return fmt.Errorf("billing: serializar solicitud: %w", err)
		}

		inv = &entity.SentInvoice{
			ID:             uuid.New().String(),
			Number:         doc.Header.Number,
			TypeCode:       doc.Header.TypeCode,
			Currency:       doc.Header.Currency,
			Profile:        string(profile),
			IssueDate:      doc.Header.IssueDate,
			DueDate:        dueDatePtr(doc.Header.DueDate),
			ClientID:       clientID,
			RecipientName:  doc.Recipient.Name,
			RecipientSIRET: doc.Recipient.SIRET,
			TotalHT:        totals.TotalHT.Round(2),
			TotalVAT:       totals.TotalVAT.Round(2),
			TotalTTC:       totals.TotalTTC.Round(2),
			XML:            art.xml,
			XMLHash:        art.hash,
			DocumentJSON:   snapshot,
			Status:         entity.InvoiceStatusGenerated,
			CreatedAt:      uc.now().UTC(),
		}
		return invoices.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("invoice_id", inv.ID).
		Str("number", inv.Number).
		Str("profile", inv.Profile).
		Str("total_ttc", domfacturx.FormatAmount(totals.TotalTTC)).
		Msg("factura emitida")

	uc.archiveArtifacts(ctx, inv, art)

	t := toTotalsResponse(totals, doc.Lines)
	return toInvoiceResponse(inv, &t), nil
}

// FormatInvoiceNumber PREFIX-YYYY-NNNN (al menos cuatro cifras).
func FormatInvoiceNumber(prefix string, year int, n int64) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, n)
}

// ── internos ─────────────────────────────────────────────────────────────────

type artifacts struct {
	xml  string
	hash string
	pdf  []byte
}

// render compone XML y PDF en paralelo; ambos leen el mismo documento inmutable.
func (uc *GenerateInvoiceUseCase) render(
	ctx context.Context,
	doc *entity.InvoiceDocument,
	totals *domfacturx.InvoiceTotals,
	profile infrafacturx.Profile,
	withPDF bool,
) (*artifacts, error) {
	art := &artifacts{}
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(context.Context) error {
		xml, err := uc.composer.Compose(doc, totals, profile)
		if err != nil {
			return fmt.Errorf("billing: componer XML: %w", err)
		}
		hash, err := infrafacturx.ContentHash(xml)
		if err != nil {
			return fmt.Errorf("billing: huella XML: %w", err)
		}
		art.xml, art.hash = xml, hash
		return nil
	})
	if withPDF {
		p.Go(func(ctx context.Context) error {
			pdf, err := uc.pdf.GenerateInvoicePDF(ctx, doc, totals)
			if err != nil {
				return fmt.Errorf("billing: generar PDF: %w", err)
			}
			art.pdf = pdf
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return art, nil
}

func (uc *GenerateInvoiceUseCase) totals(doc *entity.InvoiceDocument) (*domfacturx.InvoiceTotals, error) {
	return domfacturx.ComputeInvoiceTotals(doc.Lines,
		domfacturx.WithExemptionConflictHook(func(c domfacturx.ExemptionConflict) {
			uc.log.Warn().
				Str("number", doc.Header.Number).
				Int("line", c.LineIndex).
				Str("category", c.Category).
				Str("kept_code", c.KeptCode).
				Str("discarded_code", c.DiscardedCode).
				Msg("motivo de exoneración distinto dentro del mismo grupo de IVA; se conserva el primero")
		}),
	)
}

func (uc *GenerateInvoiceUseCase) profileFor(s string) (infrafacturx.Profile, error) {
	if s == "" {
		return uc.cfg.DefaultProfile, nil
	}
	return infrafacturx.ParseProfile(s)
}

// archiveArtifacts guarda XML y PDF; un fallo se registra y no anula la emisión.
func (uc *GenerateInvoiceUseCase) archiveArtifacts(ctx context.Context, inv *entity.SentInvoice, art *artifacts) {
	if uc.archive == nil {
		return
	}
	xmlKey, pdfKey := archiveKeys(inv)
	if err := uc.archive.Put(ctx, xmlKey, []byte(art.xml), "application/xml"); err != nil {
		uc.log.Error().Err(err).Str("number", inv.Number).Msg("no se pudo archivar el XML")
	}
	if err := uc.archive.Put(ctx, pdfKey, art.pdf, "application/pdf"); err != nil {
		uc.log.Error().Err(err).Str("number", inv.Number).Msg("no se pudo archivar el PDF")
	}
}

// archiveKeys claves "YYYY/<número>.xml" y "YYYY/<número>.pdf".
func archiveKeys(inv *entity.SentInvoice) (xmlKey, pdfKey string) {
	xmlName, pdfName, _ := infrafacturx.ArtifactFilenames(inv.Number)
	year := fmt.Sprintf("%d", inv.IssueDate.Year())
	return year + "/" + xmlName, year + "/" + pdfName
}
