// Package render compone el documento final de una factura: HTML autocontenido
// (sin referencias externas salvo la hoja del web font y data-URIs de imágenes)
// listo para vista previa, impresión, descarga o adjunto de correo.
//
// Orden fijo de secciones:
//
//	header (logo/título/números) → direcciones from/to → envío (si shipping) →
//	GST (si gst) → transporte (si transport) → tabla de ítems (siempre) →
//	totales (siempre) → información de pago (si cuenta o UPI) → notas (si hay) →
//	términos (si hay) → firma (siempre) → footer (siempre)
//
// Render es una función pura sobre un snapshot por valor: nunca muta estado de
// la aplicación ni retiene referencias. El I/O vive solo en los sinks.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Alakh11/bizztrack-api/internal/domain/entity"
	"github.com/Alakh11/bizztrack-api/internal/domain/metadata"
)

// Input snapshot inmutable de todo lo que el documento necesita.
type Input struct {
	Business BusinessView
	Invoice  InvoiceView
	Items    []ItemView
	Meta     *metadata.InvoiceMetadata
}

// BusinessView identidad del negocio emisor.
type BusinessView struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// InvoiceView cabecera de la factura (los campos Client* son el snapshot
// copiado al momento de facturar).
type InvoiceView struct {
	Number        string
	Date          time.Time
	DueDate       time.Time
	Status        string
	ClientName    string
	ClientAddress string
	ClientEmail   string
	ClientPhone   string
	Notes         string
	Terms         string
}

// ItemView una línea de la tabla.
type ItemView struct {
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	Amount      decimal.Decimal
}

// Document salida del renderer: markup inmutable más nombre de archivo sugerido.
type Document struct {
	HTML     string
	Filename string
}

// InputFromRecord arma el snapshot desde un registro persistido y sus líneas.
// La metadata llega ya deserializada (fail-soft) por el caller.
func InputFromRecord(business *entity.BusinessProfile, inv *entity.Invoice, items []*entity.InvoiceItem, meta *metadata.InvoiceMetadata) Input {
	in := Input{
		Invoice: InvoiceView{
			Number:        inv.InvoiceNumber,
			Date:          inv.InvoiceDate,
			DueDate:       inv.DueDate,
			Status:        inv.Status,
			ClientName:    inv.ClientName,
			ClientAddress: inv.ClientAddress,
			ClientEmail:   inv.ClientEmail,
			ClientPhone:   inv.ClientPhone,
			Notes:         inv.Notes,
			Terms:         inv.Terms,
		},
		Meta: meta.Clone(),
	}
	if business != nil {
		in.Business = BusinessView{
			Name:    business.BusinessName,
			Address: business.BusinessAddress,
			Phone:   business.BusinessPhone,
			Email:   business.BusinessEmail,
		}
	}
	for _, it := range items {
		in.Items = append(in.Items, ItemView{
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.UnitPrice,
			Amount:      it.Amount,
		})
	}
	return in
}

// Render compone el documento. Es pura y a prueba de fallos: cualquier pánico
// durante la composición (ej. metadata envenenada) se convierte en un documento
// de error mínimo pero válido — los sinks siempre reciben algo renderizable.
func Render(in Input) (doc Document) {
	defer func() {
		if r := recover(); r != nil {
			doc = errorDocument(in.Invoice.Number, fmt.Errorf("pánico en composición: %v", r))
		}
	}()

	view := buildView(in)
	var buf bytes.Buffer
	if err := documentTmpl.Execute(&buf, view); err != nil {
		return errorDocument(in.Invoice.Number, err)
	}
	return Document{HTML: buf.String(), Filename: suggestedFilename(in.Invoice.Number)}
}

// ── Vista interna del template ───────────────────────────────────────────────

type docView struct {
	// Estilo resuelto (nunca vacío: los tokens desconocidos caen al default).
	// template.CSS porque los valores salen de mapas cerrados del paquete
	// metadata; el filtro CSS de html/template rechazaría las comillas de
	// font-family.
	ColorHex   template.CSS
	FontFamily template.CSS
	FontCSSURL string
	PaperSize  template.CSS
	Template   string

	Title    string
	Subtitle string

	Business BusinessView
	Number   string
	Date     string
	DueDate  string
	Status   string

	ClientName    string
	ClientAddress string
	ClientEmail   string
	ClientPhone   string

	PONumber        string
	ReferenceNumber string

	LogoURL        template.URL
	SignatureURL   template.URL
	SignatureLabel string

	Watermark string

	Shipping    *metadata.Shipping
	GST         *metadata.GST
	Transport   *metadata.Transport
	Payment     *metadata.Payment
	HasShipFrom bool
	HasShipTo   bool
	HasPayment  bool

	Items    []itemRow
	Subtotal string
	Total    string

	Notes string
	Terms string
}

type itemRow struct {
	Index       int
	Description string
	Quantity    string
	Rate        string
	Amount      string
}

func buildView(in Input) docView {
	meta := in.Meta
	if meta == nil {
		meta = metadata.Default()
	}

	design := meta.Design
	if design == nil {
		design = &metadata.Design{}
	}
	font := metadata.ResolveFont(design.Font)
	currency := meta.Currency()

	v := docView{
		ColorHex:   template.CSS(metadata.ResolveColor(design.Color)),
		FontFamily: template.CSS(font.Family),
		FontCSSURL: font.CSSURL,
		PaperSize:  template.CSS(metadata.PaperCSSSize(design.PaperSize)),
		Template:   templateToken(design.Template),
		Title:      nonEmpty(design.Title, "INVOICE"),
		Business:   in.Business,
		Number:     in.Invoice.Number,
		Date:       formatDate(in.Invoice.Date),
		DueDate:    formatDate(in.Invoice.DueDate),
		Status:     in.Invoice.Status,
		// Cliente ausente: placeholders visibles en lugar de fallar
		ClientName:     nonEmpty(in.Invoice.ClientName, "Client Name"),
		ClientAddress:  nonEmpty(in.Invoice.ClientAddress, "Client Address"),
		ClientEmail:    in.Invoice.ClientEmail,
		ClientPhone:    in.Invoice.ClientPhone,
		SignatureLabel: nonEmpty(design.SignatureLabel, "Authorised Signatory"),
		Watermark:      design.WatermarkText,
		Shipping:       meta.Shipping,
		GST:            meta.GST,
		Transport:      meta.Transport,
		Notes:          in.Invoice.Notes,
		Terms:          in.Invoice.Terms,
	}

	if meta.Additional != nil {
		v.Subtitle = meta.Additional.Subtitle
		v.PONumber = meta.Additional.PONumber
		v.ReferenceNumber = meta.Additional.ReferenceNumber
	}

	// Imágenes embebidas: solo data-URIs de imagen pasan al markup
	v.LogoURL = imageDataURL(design.LogoData)
	v.SignatureURL = imageDataURL(design.SignatureData)

	if meta.Shipping != nil {
		s := meta.Shipping
		v.HasShipFrom = s.FromName != "" || s.FromAddress != "" || s.FromCity != ""
		v.HasShipTo = s.ToName != "" || s.ToAddress != "" || s.ToCity != ""
	}

	// Bloque de pago: solo si hay al menos cuenta bancaria o UPI
	if meta.Payment != nil && (meta.Payment.AccountNumber != "" || meta.Payment.UPIID != "") {
		v.Payment = meta.Payment
		v.HasPayment = true
	}

	subtotal := decimal.Zero
	for i, it := range in.Items {
		subtotal = subtotal.Add(it.Amount)
		v.Items = append(v.Items, itemRow{
			Index:       i + 1,
			Description: it.Description,
			Quantity:    it.Quantity.String(),
			Rate:        metadata.FormatAmount(it.Rate, currency),
			Amount:      metadata.FormatAmount(it.Amount, currency),
		})
	}
	// Subtotal y total son idénticos: este motor no modela descuentos ni
	// deducciones, solo suma simple.
	v.Subtotal = metadata.FormatAmount(subtotal, currency)
	v.Total = v.Subtotal

	return v
}

// errorDocument documento mínimo pero válido cuando la composición falla:
// nunca un string vacío, nunca un pánico hacia los sinks.
func errorDocument(number string, err error) Document {
	var buf bytes.Buffer
	_ = errorTmpl.Execute(&buf, struct {
		Number string
		Reason string
	}{Number: number, Reason: err.Error()})
	return Document{HTML: buf.String(), Filename: suggestedFilename(number)}
}

func suggestedFilename(number string) string {
	number = strings.TrimSpace(number)
	if number == "" {
		number = "draft"
	}
	number = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':':
			return '-'
		}
		return r
	}, number)
	return "Invoice-" + number + ".html"
}

// imageDataURL acepta únicamente data-URIs de imagen; cualquier otra cosa se
// descarta para que el documento siga siendo autocontenido.
func imageDataURL(raw string) template.URL {
	if strings.HasPrefix(raw, "data:image/") {
		return template.URL(raw)
	}
	return ""
}

func templateToken(token string) string {
	switch token {
	case "modern", "minimal", "classic":
		return token
	}
	return metadata.DefaultTemplate
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan 2006")
}

func nonEmpty(v, fallback string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}
