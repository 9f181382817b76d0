package billing_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturx-api/internal/application/billing"
	"github.com/jhoicas/facturx-api/internal/application/dto"
	"github.com/jhoicas/facturx-api/internal/domain"
	"github.com/jhoicas/facturx-api/internal/domain/entity"
	infrafacturx "github.com/jhoicas/facturx-api/internal/infrastructure/facturx"
	"github.com/jhoicas/facturx-api/pkg/logger"
)

func TestGenerate_NumeracionAutomatica(t *testing.T) {
	env := newEnv(t)

	first, err := env.uc.Generate(context.Background(), validRequest())
	require.NoError(t, err)
	second, err := env.uc.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "FA-2026-0001", first.Number)
	assert.Equal(t, "FA-2026-0002", second.Number)
	assert.Equal(t, entity.InvoiceStatusGenerated, first.Status)
	assert.Equal(t, "1200.00", first.TotalTTC)
	assert.Equal(t, "en16931", first.Profile)
	require.NotNil(t, first.Totals)
	require.Len(t, first.Totals.VATBreakdown, 1)
	assert.Equal(t, "200.00", first.Totals.VATBreakdown[0].VATAmount)
}

func TestGenerate_PersisteXMLHashYSolicitud(t *testing.T) {
	env := newEnv(t)

	resp, err := env.uc.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	inv := env.store.invoices[resp.ID]
	require.NotNil(t, inv)
	assert.Contains(t, inv.XML, "<ram:ID>FA-2026-0001</ram:ID>")

	hash, err := infrafacturx.ContentHash(inv.XML)
	require.NoError(t, err)
	assert.Equal(t, hash, inv.XMLHash)
	assert.Equal(t, hash, resp.XMLHash)

	var saved dto.InvoiceRequest
	require.NoError(t, json.Unmarshal(inv.DocumentJSON, &saved))
	assert.Equal(t, "FA-2026-0001", saved.InvoiceNumber)
	assert.Equal(t, "Client SA", saved.RecipientName)
}

func TestGenerate_ArchivaArtefactos(t *testing.T) {
	env := newEnv(t)

	_, err := env.uc.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Contains(t, env.archive.files, "2026/FA-2026-0001.xml")
	assert.Contains(t, env.archive.files, "2026/FA-2026-0001.pdf")
}

func TestGenerate_NumeroExplicitoNoConsumeContador(t *testing.T) {
	env := newEnv(t)
	req := validRequest()
	req.InvoiceNumber = "MANUEL-42"

	resp, err := env.uc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "MANUEL-42", resp.Number)
	assert.Empty(t, env.store.counters)
}

func TestGenerate_NumeroDuplicado(t *testing.T) {
	env := newEnv(t)
	req := validRequest()
	req.InvoiceNumber = "MANUEL-42"

	_, err := env.uc.Generate(context.Background(), req)
	require.NoError(t, err)
	_, err = env.uc.Generate(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Len(t, env.store.invoices, 1)
}

func TestGenerate_ValidacionAgregaViolaciones(t *testing.T) {
	env := newEnv(t)
	req := validRequest()
	req.IssueDate = ""
	req.RecipientName = ""
	req.RecipientSIRET = "123"
	req.Lines = []entity.RawInvoiceLine{{Description: "", Quantity: "0", UnitPrice: "10", VATRate: "20"}}

	_, err := env.uc.Generate(context.Background(), req)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	fields := violationFields(verr)
	assert.Contains(t, fields, "issue_date")
	assert.Contains(t, fields, "recipient_name")
	assert.Contains(t, fields, "recipient_siret")
	assert.Contains(t, fields, "lines[0][description]")
	assert.Contains(t, fields, "lines[0][quantity]")
	assert.Empty(t, env.store.counters, "una solicitud inválida no consume número")
}

func TestGenerate_ImporteIlegible(t *testing.T) {
	env := newEnv(t)
	req := validRequest()
	req.Lines[0].UnitPrice = "mil"

	_, err := env.uc.Generate(context.Background(), req)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, violationFields(verr), "lines[0][unit_price]")
}

func TestGenerate_FalloDeComposicionNoConsumeNumero(t *testing.T) {
	store := newMemStore()
	uc := billing.NewGenerateInvoiceUseCase(store, clientRepo{store}, failingComposer{}, &fakePDF{}, nil,
		testEmitter(), billing.GenerateConfig{}, logger.Nop())

	_, err := uc.Generate(context.Background(), validRequest())
	require.Error(t, err)
	assert.Empty(t, store.counters)
	assert.Empty(t, store.invoices)
}

func TestGenerate_GuardaClienteNuevo(t *testing.T) {
	env := newEnv(t)
	req := validRequest()
	req.SaveNewClient = true
	req.RecipientEmail = "compta@client.fr"

	resp, err := env.uc.Generate(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, resp.ClientID)

	c := env.store.clients[resp.ClientID]
	require.NotNil(t, c)
	assert.Equal(t, "98765432100015", c.SIRET)
	assert.Equal(t, "compta@client.fr", c.Email)

	// Segunda emisión con el mismo SIRET actualiza el mismo cliente.
	again, err := env.uc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, resp.ClientID, again.ClientID)
	assert.Len(t, env.store.clients, 1)
}

func TestGenerate_DestinatarioDesdeCliente(t *testing.T) {
	env := newEnv(t)
	env.store.clients["6f1c2a36-8d9e-4a8b-9a43-3f1b0d6c1e11"] = &entity.Client{
		ID: "6f1c2a36-8d9e-4a8b-9a43-3f1b0d6c1e11", Name: "Guardado SAS", SIRET: "11122233300044", CountryCode: "FR", City: "Nantes",
	}
	req := validRequest()
	req.ClientID = "6f1c2a36-8d9e-4a8b-9a43-3f1b0d6c1e11"
	req.RecipientName, req.RecipientSIRET, req.RecipientCity = "", "", ""

	resp, err := env.uc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Guardado SAS", resp.RecipientName)
	assert.Equal(t, "11122233300044", resp.RecipientSIRET)
	assert.Equal(t, req.ClientID, resp.ClientID)
}

func TestGenerate_ClienteInexistente(t *testing.T) {
	env := newEnv(t)
	req := validRequest()
	req.ClientID = "6f1c2a36-8d9e-4a8b-9a43-3f1b0d6c1e11"

	_, err := env.uc.Generate(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGenerate_PerfilBasic(t *testing.T) {
	env := newEnv(t)
	req := validRequest()
	req.Profile = "basic"

	resp, err := env.uc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "basic", resp.Profile)
	assert.Contains(t, env.store.invoices[resp.ID].XML, "urn:factur-x.eu:1p0:basic")
}

func TestPreview_SinPersistencia(t *testing.T) {
	env := newEnv(t)

	resp, err := env.uc.Preview(context.Background(), dto.PreviewRequest{InvoiceRequest: validRequest(), IncludePDF: true})
	require.NoError(t, err)

	assert.Equal(t, "FA-2026-BROUILLON", resp.InvoiceNumber)
	assert.Contains(t, resp.XML, "FA-2026-BROUILLON")
	assert.NotEmpty(t, resp.XMLHash)
	pdf, err := base64.StdEncoding.DecodeString(resp.PDFBase64)
	require.NoError(t, err)
	assert.Contains(t, string(pdf), "%PDF")

	assert.Empty(t, env.store.invoices)
	assert.Empty(t, env.store.counters)
	assert.Empty(t, env.archive.files)
}

func TestPreview_SinPDF(t *testing.T) {
	env := newEnv(t)

	resp, err := env.uc.Preview(context.Background(), dto.PreviewRequest{InvoiceRequest: validRequest()})
	require.NoError(t, err)
	assert.Empty(t, resp.PDFBase64)
	assert.Equal(t, 0, env.pdf.calls)
}

func TestPreview_PerfilDesconocido(t *testing.T) {
	env := newEnv(t)
	req := validRequest()
	req.Profile = "extended"

	_, err := env.uc.Preview(context.Background(), dto.PreviewRequest{InvoiceRequest: req})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, violationFields(verr), "profile")
}

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "FA-2026-0007", billing.FormatInvoiceNumber("FA", 2026, 7))
	assert.Equal(t, "AV-2026-12345", billing.FormatInvoiceNumber("AV", 2026, 12345))
}

// ── helpers ──────────────────────────────────────────────────────────────────

type testEnv struct {
	store   *memStore
	archive *memArchive
	pdf     *fakePDF
	uc      *billing.GenerateInvoiceUseCase
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMemStore()
	archive := newMemArchive()
	pdf := &fakePDF{}
	uc := billing.NewGenerateInvoiceUseCase(
		store, clientRepo{store}, infrafacturx.NewXMLBuilderService(), pdf, archive,
		testEmitter(), billing.GenerateConfig{NumberPrefix: "FA"}, logger.Nop(),
	)
	return &testEnv{store: store, archive: archive, pdf: pdf, uc: uc}
}

func testEmitter() entity.Party {
	return entity.Party{
		Name:        "Atelier Dupont SARL",
		Address:     "12 rue des Lilas",
		PostalCode:  "75011",
		City:        "Paris",
		CountryCode: "FR",
		SIREN:       "123456789",
		SIRET:       "12345678900012",
		VATNumber:   "FR32123456789",
		IBAN:        "FR7630006000011234567890189",
	}
}

func validRequest() dto.InvoiceRequest {
	return dto.InvoiceRequest{
		IssueDate:           "2026-01-15",
		DueDate:             "2026-02-14",
		RecipientName:       "Client SA",
		RecipientSIRET:      "98765432100015",
		RecipientAddress:    "5 avenue Foch",
		RecipientPostalCode: "69006",
		RecipientCity:       "Lyon",
		Lines: []entity.RawInvoiceLine{
			{Description: "Développement", Quantity: "10", UnitPrice: "100", VATRate: "20"},
		},
	}
}

func violationFields(err *domain.ValidationError) []string {
	out := make([]string, 0, len(err.Violations))
	for _, v := range err.Violations {
		out = append(out, v.Field)
	}
	return out
}

var errBoom = errors.New("boom")
