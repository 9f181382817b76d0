package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturx-api/internal/application/billing"
	"github.com/jhoicas/facturx-api/internal/application/dto"
	"github.com/jhoicas/facturx-api/pkg/logger"
)

// InvoiceGenerator vista previa y emisión.
type InvoiceGenerator interface {
	Preview(ctx context.Context, req dto.PreviewRequest) (*dto.PreviewResponse, error)
	Generate(ctx context.Context, req dto.InvoiceRequest) (*dto.InvoiceResponse, error)
}

// InvoiceQuery consultas y exportación del libro.
type InvoiceQuery interface {
	GetByID(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	List(ctx context.Context, in dto.InvoiceListRequest) (*dto.InvoiceListResponse, error)
	Export(ctx context.Context, in dto.InvoiceListRequest) (*billing.File, error)
}

// InvoiceArtifacts descargas de XML, PDF y ZIP.
type InvoiceArtifacts interface {
	XML(ctx context.Context, id string) (*billing.File, error)
	PDF(ctx context.Context, id string) (*billing.File, error)
	Archive(ctx context.Context, id string) (*billing.File, error)
}

// InvoiceSender envío a la plataforma y consulta de estado.
type InvoiceSender interface {
	SendAsync(ctx context.Context, id string) (*dto.InvoiceStatusDTO, error)
	Status(ctx context.Context, id string) (*dto.InvoiceStatusDTO, error)
}

// ClientDirectory directorio de clientes.
type ClientDirectory interface {
	Create(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ClientResponse, error)
	List(ctx context.Context, in dto.ClientListRequest) ([]dto.ClientResponse, error)
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName   string
	Generator InvoiceGenerator
	Query     InvoiceQuery
	Artifacts InvoiceArtifacts
	Sender    InvoiceSender
	Clients   ClientDirectory
	Log       *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	errs := errorResponder{log: log.Component("http")}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	api := app.Group("/api")

	// Invoices
	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.Generator, deps.Query, deps.Artifacts, deps.Sender, errs)
	invoices.Post("/preview", invoiceHandler.Preview)
	invoices.Post("/", invoiceHandler.Generate)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/export.xlsx", invoiceHandler.Export)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/xml", invoiceHandler.DownloadXML)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)
	invoices.Get("/:id/archive", invoiceHandler.DownloadArchive)
	invoices.Post("/:id/send", invoiceHandler.Send)
	invoices.Get("/:id/status", invoiceHandler.Status)

	// Clients
	clients := api.Group("/clients")
	clientHandler := NewClientHandler(deps.Clients, errs)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
}
