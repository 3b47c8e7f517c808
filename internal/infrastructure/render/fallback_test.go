package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrorDocument_MinimoPeroValido cuando la composición falla, el documento
// de reserva sigue siendo HTML autocontenido: no vacío, con el número de la
// factura y con la estructura completa para que cualquier sink lo entregue.
func TestErrorDocument_MinimoPeroValido(t *testing.T) {
	doc := errorDocument("INV-000123", errors.New("plantilla rota"))

	require.NotEmpty(t, doc.HTML, "nunca un string vacío hacia los sinks")
	assert.Contains(t, doc.HTML, "INV-000123")
	assert.Contains(t, doc.HTML, "<!DOCTYPE html>")
	assert.Contains(t, doc.HTML, "</html>")
	assert.Equal(t, "Invoice-INV-000123.html", doc.Filename)
}

// TestErrorDocument_SinNumero sin número de factura el archivo cae a "draft".
func TestErrorDocument_SinNumero(t *testing.T) {
	doc := errorDocument("", errors.New("sin datos"))

	require.NotEmpty(t, doc.HTML)
	assert.Equal(t, "Invoice-draft.html", doc.Filename)
}

// TestErrorDocument_EscapaElMotivo el motivo del fallo se muestra escapado,
// nunca como markup ejecutable.
func TestErrorDocument_EscapaElMotivo(t *testing.T) {
	doc := errorDocument("INV-1", errors.New("<script>alert(1)</script>"))

	assert.NotContains(t, doc.HTML, "<script>alert(1)</script>")
	assert.True(t, strings.Contains(doc.HTML, "&lt;script&gt;") || !strings.Contains(doc.HTML, "alert(1)"),
		"el motivo llega escapado o filtrado")
}
