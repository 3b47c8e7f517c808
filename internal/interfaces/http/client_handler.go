package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Alakh11/bizztrack-api/internal/application/billing"
	"github.com/Alakh11/bizztrack-api/internal/application/dto"
)

// ClientHandler maneja las peticiones HTTP de clientes.
type ClientHandler struct {
	uc *billing.ClientUseCase
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *billing.ClientUseCase) *ClientHandler {
	return &ClientHandler{uc: uc}
}

// List devuelve los clientes disponibles para seleccionar en el builder.
// GET /api/clients
func (h *ClientHandler) List(c *fiber.Ctx) error {
	clients, err := h.uc.ListClients(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(clients)
}
