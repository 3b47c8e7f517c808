package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Alakh11/bizztrack-api/internal/application/billing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InvoiceUC  *billing.InvoiceUseCase
	DocumentUC *billing.DocumentUseCase
	ClientUC   *billing.ClientUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Clients
	clients := api.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Get("/", clientHandler.List)

	// Invoices
	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Post("/preview", invoiceHandler.Preview)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)

	// Document sinks (preview, print, download, email)
	documentHandler := NewDocumentHandler(deps.DocumentUC)
	invoices.Get("/:id/document", documentHandler.Document)
	invoices.Get("/:id/download", documentHandler.Download)
	invoices.Post("/:id/email", documentHandler.Email)
}
