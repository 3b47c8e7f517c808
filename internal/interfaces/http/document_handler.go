package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Alakh11/bizztrack-api/internal/application/billing"
	"github.com/Alakh11/bizztrack-api/internal/application/dto"
	"github.com/Alakh11/bizztrack-api/internal/domain"
	"github.com/Alakh11/bizztrack-api/internal/infrastructure/render"
)

// DocumentHandler maneja las salidas del documento renderizado: previsualización,
// impresión, descarga y envío por correo.
type DocumentHandler struct {
	uc *billing.DocumentUseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *billing.DocumentUseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc}
}

// Document devuelve el documento HTML de la factura.
// GET /api/invoices/:id/document?mode=preview|print
// En modo print el documento incluye el script que dispara el diálogo de
// impresión al cargar (una sola vez).
func (h *DocumentHandler) Document(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}

	var html string
	var err error
	switch c.Query("mode", "preview") {
	case "print":
		html, err = h.uc.Print(c.Context(), id)
	case "preview":
		html, err = h.uc.Preview(c.Context(), id)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "mode debe ser preview o print"})
	}
	if err != nil {
		return documentError(c, err)
	}
	c.Set(fiber.HeaderContentType, render.ContentType)
	return c.SendString(html)
}

// Download devuelve el documento como archivo descargable.
// GET /api/invoices/:id/download
func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	filename, contentType, body, err := h.uc.Download(c.Context(), id)
	if err != nil {
		return documentError(c, err)
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(body)
}

// Email envía la factura por correo al cliente.
// POST /api/invoices/:id/email
func (h *DocumentHandler) Email(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.EmailInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.Email(c.Context(), id, in); err != nil {
		return documentError(c, err)
	}
	return c.JSON(fiber.Map{"status": "sent"})
}

func documentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrEmailDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "EMAIL_DISABLED", Message: "el envío de correo no está configurado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
