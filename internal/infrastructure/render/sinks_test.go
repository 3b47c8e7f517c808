package render_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alakh11/bizztrack-api/internal/infrastructure/render"
)

// TestPreviewHTML la vista previa entrega el documento tal cual, sin script de
// impresión.
func TestPreviewHTML(t *testing.T) {
	doc := render.Render(baseInput())
	html := render.PreviewHTML(doc)

	assert.Equal(t, doc.HTML, html)
	assert.NotContains(t, html, "window.print")
}

// TestPrintHTML el modo impresión inyecta exactamente un script que espera la
// carga completa y se protege contra un segundo disparo.
func TestPrintHTML(t *testing.T) {
	doc := render.Render(baseInput())
	html := render.PrintHTML(doc)

	assert.Equal(t, 1, strings.Count(html, "window.print()"), "un solo disparo de impresión")
	assert.Contains(t, html, `addEventListener("load"`, "espera la señal de carga completa")
	assert.Contains(t, html, "fired", "guardia contra doble disparo")
	assert.True(t, strings.Index(html, "window.print") < strings.Index(html, "</body>"), "el script va dentro del body")
}

// TestDownloadPayload nombre, content type y bytes del documento.
func TestDownloadPayload(t *testing.T) {
	doc := render.Render(baseInput())
	filename, contentType, body := render.DownloadPayload(doc)

	assert.Equal(t, "Invoice-INV-000123.html", filename)
	assert.Equal(t, render.ContentType, contentType)
	require.NotEmpty(t, body)
	assert.Equal(t, doc.HTML, string(body))
}
