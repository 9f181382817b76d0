package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturx-api/internal/application/dto"
)

// InvoiceHandler maneja las peticiones HTTP de facturación.
type InvoiceHandler struct {
	generator InvoiceGenerator
	query     InvoiceQuery
	artifacts InvoiceArtifacts
	sender    InvoiceSender
	errs      errorResponder
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(generator InvoiceGenerator, query InvoiceQuery, artifacts InvoiceArtifacts, sender InvoiceSender, errs errorResponder) *InvoiceHandler {
	return &InvoiceHandler{generator: generator, query: query, artifacts: artifacts, sender: sender, errs: errs}
}

// Preview godoc
// @Summary      Vista previa de factura
// @Description  Calcula totales y compone el XML CII (y opcionalmente el PDF) sin persistir ni consumir numeración.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body      dto.PreviewRequest  true  "Factura"
// @Success      200   {object}  dto.PreviewResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices/preview [post]
func (h *InvoiceHandler) Preview(c *fiber.Ctx) error {
	var in dto.PreviewRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.generator.Preview(c.UserContext(), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(out)
}

// Generate godoc
// @Summary      Emitir factura
// @Description  Asigna número (PREFIX-YYYY-NNNN) si falta, genera XML y PDF, persiste y archiva.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body      dto.InvoiceRequest  true  "Factura"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Generate(c *fiber.Ctx) error {
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.generator.Generate(c.UserContext(), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar facturas emitidas
// @Tags         invoices
// @Produce      json
// @Param        status  query     string  false  "GENERATED|SENDING|SENT|REJECTED|ERROR"
// @Param        from    query     string  false  "Fecha de emisión desde (YYYY-MM-DD)"
// @Param        to      query     string  false  "Fecha de emisión hasta (YYYY-MM-DD)"
// @Param        limit   query     int     false  "Máximo 100"
// @Param        offset  query     int     false  "Desplazamiento"
// @Success      200     {object}  dto.InvoiceListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var in dto.InvoiceListRequest
	if err := c.QueryParser(&in); err != nil {
		return badQuery(c)
	}
	out, err := h.query.List(c.UserContext(), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar libro de facturas (XLSX)
// @Tags         invoices
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        status  query  string  false  "Estado"
// @Param        from    query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to      query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200     {file}    file
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/invoices/export.xlsx [get]
func (h *InvoiceHandler) Export(c *fiber.Ctx) error {
	var in dto.InvoiceListRequest
	if err := c.QueryParser(&in); err != nil {
		return badQuery(c)
	}
	f, err := h.query.Export(c.UserContext(), in)
	if err != nil {
		return h.errs.respond(c, err)
	}
	return sendFile(c, f)
}

// GetByID godoc
// @Summary      Detalle de factura
// @Tags         invoices
// @Produce      json
// @Param        id   path      string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.query.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(out)
}

// DownloadXML godoc
// @Summary      Descargar XML CII
// @Tags         invoices
// @Produce      application/xml
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/xml [get]
func (h *InvoiceHandler) DownloadXML(c *fiber.Ctx) error {
	f, err := h.artifacts.XML(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	return sendFile(c, f)
}

// DownloadPDF godoc
// @Summary      Descargar PDF
// @Tags         invoices
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	f, err := h.artifacts.PDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	return sendFile(c, f)
}

// DownloadArchive godoc
// @Summary      Descargar ZIP con XML y PDF
// @Tags         invoices
// @Produce      application/zip
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/archive [get]
func (h *InvoiceHandler) DownloadArchive(c *fiber.Ctx) error {
	f, err := h.artifacts.Archive(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	return sendFile(c, f)
}

// Send godoc
// @Summary      Enviar factura a la plataforma (PDP)
// @Description  Marca la factura como SENDING y envía en segundo plano; consultar /status.
// @Tags         invoices
// @Produce      json
// @Param        id   path      string  true  "ID de la factura"
// @Success      202  {object}  dto.InvoiceStatusDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/send [post]
func (h *InvoiceHandler) Send(c *fiber.Ctx) error {
	out, err := h.sender.SendAsync(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(out)
}

// Status godoc
// @Summary      Estado de envío
// @Tags         invoices
// @Produce      json
// @Param        id   path      string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceStatusDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/status [get]
func (h *InvoiceHandler) Status(c *fiber.Ctx) error {
	out, err := h.sender.Status(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.respond(c, err)
	}
	return c.JSON(out)
}
