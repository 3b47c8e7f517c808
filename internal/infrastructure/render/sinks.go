package render

import "strings"

// Los cuatro sinks construyen sobre el mismo Render(). Cada uno aísla sus
// propios errores: un fallo en un sink no corrompe el borrador ni impide
// reintentar otro sink.

// ContentType tipo MIME del documento generado.
const ContentType = "text/html; charset=utf-8"

// printScript se inyecta solo en el modo impresión: espera la señal única de
// carga completa antes de abrir el diálogo (evita imprimir una página en
// blanco) y se protege contra un segundo disparo.
const printScript = `<script>
(function () {
  var fired = false;
  window.addEventListener("load", function () {
    if (fired) { return; }
    fired = true;
    window.print();
  });
})();
</script>`

// PreviewHTML documento para abrir en una superficie de vista nueva, sin
// invocar el diálogo de impresión.
func PreviewHTML(doc Document) string {
	return doc.HTML
}

// PrintHTML documento con el script de impresión inyectado antes de </body>.
func PrintHTML(doc Document) string {
	idx := strings.LastIndex(doc.HTML, "</body>")
	if idx < 0 {
		return doc.HTML + printScript
	}
	return doc.HTML[:idx] + printScript + "\n" + doc.HTML[idx:]
}

// DownloadPayload empaqueta el documento como archivo descargable
// (Invoice-<número>.html) con su content type.
func DownloadPayload(doc Document) (filename, contentType string, body []byte) {
	return doc.Filename, ContentType, []byte(doc.HTML)
}
