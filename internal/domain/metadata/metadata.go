// Package metadata modela el árbol de configuración opcional de una factura
// (diseño, datos adicionales, envío, transporte, GST y pago) y su serialización
// al blob JSON que viaja en el campo metadata del registro persistido.
package metadata

import (
	"encoding/json"
	"fmt"
)

// Version versión actual del esquema serializado. Deserialize tolera campos
// desconocidos y versión ausente (se trata como 1) para que futuras ramas no
// rompan el contrato fail-soft.
const Version = 1

// Design apariencia del documento: plantilla, tema de color, fuente, papel,
// logo y firma (data-URI), marca de agua y título.
type Design struct {
	Template       string `json:"template,omitempty"`
	Color          string `json:"color,omitempty"`
	Font           string `json:"font,omitempty"`
	PaperSize      string `json:"paperSize,omitempty"`
	LogoData       string `json:"logoData,omitempty"`      // data-URI de la imagen del logo
	SignatureData  string `json:"signatureData,omitempty"` // data-URI de la firma subida
	SignatureLabel string `json:"signatureLabel,omitempty"`
	WatermarkText  string `json:"watermarkText,omitempty"`
	Title          string `json:"title,omitempty"`
}

// Additional campos sueltos opcionales de la factura.
type Additional struct {
	Currency        string `json:"currency,omitempty"`
	PONumber        string `json:"poNumber,omitempty"`
	ReferenceNumber string `json:"referenceNumber,omitempty"`
	Subtitle        string `json:"subtitle,omitempty"`
}

// Shipping direcciones de despacho (rama presente solo si la sección está habilitada).
type Shipping struct {
	FromName    string `json:"fromName,omitempty"`
	FromAddress string `json:"fromAddress,omitempty"`
	FromCity    string `json:"fromCity,omitempty"`
	FromState   string `json:"fromState,omitempty"`
	FromPostal  string `json:"fromPostal,omitempty"`
	ToName      string `json:"toName,omitempty"`
	ToAddress   string `json:"toAddress,omitempty"`
	ToCity      string `json:"toCity,omitempty"`
	ToState     string `json:"toState,omitempty"`
	ToPostal    string `json:"toPostal,omitempty"`
}

// Transport datos del transportador (rama presente solo si la sección está habilitada).
type Transport struct {
	Transporter   string `json:"transporter,omitempty"`
	Mode          string `json:"mode,omitempty"`
	VehicleNumber string `json:"vehicleNumber,omitempty"`
	DocNumber     string `json:"docNumber,omitempty"`
	DocDate       string `json:"docDate,omitempty"`
}

// GST campos tributarios. El motor almacena y muestra lo que recibe; no valida
// normativa tributaria.
type GST struct {
	Type               string `json:"type,omitempty"`
	PlaceOfSupply      string `json:"placeOfSupply,omitempty"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`
	ReverseCharge      bool   `json:"reverseCharge,omitempty"`
	NonGST             bool   `json:"nonGst,omitempty"`
}

// Payment datos bancarios y UPI para el bloque de información de pago.
type Payment struct {
	BankName      string `json:"bankName,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	IFSC          string `json:"ifsc,omitempty"`
	AccountHolder string `json:"accountHolder,omitempty"`
	UPIID         string `json:"upiId,omitempty"`
	UPIName       string `json:"upiName,omitempty"`
}

// InvoiceMetadata árbol de ramas opcionales. Una rama deshabilitada es nil y
// serializa como null, de modo que el renderer pueda probar presencia sin
// inspeccionar strings vacíos.
type InvoiceMetadata struct {
	Design     *Design     `json:"design"`
	Additional *Additional `json:"additional"`
	Shipping   *Shipping   `json:"shipping"`
	Transport  *Transport  `json:"transport"`
	GST        *GST        `json:"gst"`
	Payment    *Payment    `json:"payment"`
}

// Default metadata con todas las ramas ausentes.
func Default() *InvoiceMetadata {
	return &InvoiceMetadata{}
}

// SetDesign fusiona (shallow-merge) los campos no vacíos sobre la rama design,
// creándola si no existía. Nunca toca otras ramas.
func (m *InvoiceMetadata) SetDesign(partial Design) {
	if m.Design == nil {
		m.Design = &Design{}
	}
	mergeStr(&m.Design.Template, partial.Template)
	mergeStr(&m.Design.Color, partial.Color)
	mergeStr(&m.Design.Font, partial.Font)
	mergeStr(&m.Design.PaperSize, partial.PaperSize)
	mergeStr(&m.Design.LogoData, partial.LogoData)
	mergeStr(&m.Design.SignatureData, partial.SignatureData)
	mergeStr(&m.Design.SignatureLabel, partial.SignatureLabel)
	mergeStr(&m.Design.WatermarkText, partial.WatermarkText)
	mergeStr(&m.Design.Title, partial.Title)
}

// SetWatermark fija el texto de la marca de agua. A diferencia del merge, el
// string vacío sí se asigna: apagar la marca de agua es una operación válida.
func (m *InvoiceMetadata) SetWatermark(text string) {
	if m.Design == nil {
		if text == "" {
			return
		}
		m.Design = &Design{}
	}
	m.Design.WatermarkText = text
}

// SetAdditional fusiona los campos no vacíos sobre la rama additional.
func (m *InvoiceMetadata) SetAdditional(partial Additional) {
	if m.Additional == nil {
		m.Additional = &Additional{}
	}
	mergeStr(&m.Additional.Currency, partial.Currency)
	mergeStr(&m.Additional.PONumber, partial.PONumber)
	mergeStr(&m.Additional.ReferenceNumber, partial.ReferenceNumber)
	mergeStr(&m.Additional.Subtitle, partial.Subtitle)
}

// SetShipping fusiona los campos no vacíos sobre la rama shipping, habilitándola.
func (m *InvoiceMetadata) SetShipping(partial Shipping) {
	if m.Shipping == nil {
		m.Shipping = &Shipping{}
	}
	mergeStr(&m.Shipping.FromName, partial.FromName)
	mergeStr(&m.Shipping.FromAddress, partial.FromAddress)
	mergeStr(&m.Shipping.FromCity, partial.FromCity)
	mergeStr(&m.Shipping.FromState, partial.FromState)
	mergeStr(&m.Shipping.FromPostal, partial.FromPostal)
	mergeStr(&m.Shipping.ToName, partial.ToName)
	mergeStr(&m.Shipping.ToAddress, partial.ToAddress)
	mergeStr(&m.Shipping.ToCity, partial.ToCity)
	mergeStr(&m.Shipping.ToState, partial.ToState)
	mergeStr(&m.Shipping.ToPostal, partial.ToPostal)
}

// SetTransport fusiona los campos no vacíos sobre la rama transport, habilitándola.
func (m *InvoiceMetadata) SetTransport(partial Transport) {
	if m.Transport == nil {
		m.Transport = &Transport{}
	}
	mergeStr(&m.Transport.Transporter, partial.Transporter)
	mergeStr(&m.Transport.Mode, partial.Mode)
	mergeStr(&m.Transport.VehicleNumber, partial.VehicleNumber)
	mergeStr(&m.Transport.DocNumber, partial.DocNumber)
	mergeStr(&m.Transport.DocDate, partial.DocDate)
}

// SetGST fusiona los campos string no vacíos sobre la rama gst. Los booleanos
// se copian siempre tal cual (son flags, no hay "vacío" distinguible).
func (m *InvoiceMetadata) SetGST(partial GST) {
	if m.GST == nil {
		m.GST = &GST{}
	}
	mergeStr(&m.GST.Type, partial.Type)
	mergeStr(&m.GST.PlaceOfSupply, partial.PlaceOfSupply)
	mergeStr(&m.GST.RegistrationNumber, partial.RegistrationNumber)
	m.GST.ReverseCharge = partial.ReverseCharge
	m.GST.NonGST = partial.NonGST
}

// SetPayment fusiona los campos no vacíos sobre la rama payment.
func (m *InvoiceMetadata) SetPayment(partial Payment) {
	if m.Payment == nil {
		m.Payment = &Payment{}
	}
	mergeStr(&m.Payment.BankName, partial.BankName)
	mergeStr(&m.Payment.AccountNumber, partial.AccountNumber)
	mergeStr(&m.Payment.IFSC, partial.IFSC)
	mergeStr(&m.Payment.AccountHolder, partial.AccountHolder)
	mergeStr(&m.Payment.UPIID, partial.UPIID)
	mergeStr(&m.Payment.UPIName, partial.UPIName)
}

// EnableShipping habilita o deshabilita la sección de envío. Al deshabilitar,
// la rama se anula por completo (no solo se oculta) para que serialice como null.
func (m *InvoiceMetadata) EnableShipping(enabled bool) {
	if !enabled {
		m.Shipping = nil
		return
	}
	if m.Shipping == nil {
		m.Shipping = &Shipping{}
	}
}

// EnableTransport habilita o deshabilita la sección de transporte (misma regla
// que EnableShipping).
func (m *InvoiceMetadata) EnableTransport(enabled bool) {
	if !enabled {
		m.Transport = nil
		return
	}
	if m.Transport == nil {
		m.Transport = &Transport{}
	}
}

// Currency código de moneda vigente ("" si la rama additional está ausente).
func (m *InvoiceMetadata) Currency() string {
	if m.Additional == nil {
		return ""
	}
	return m.Additional.Currency
}

// Clone copia profunda del árbol (snapshots para el renderer).
func (m *InvoiceMetadata) Clone() *InvoiceMetadata {
	out := &InvoiceMetadata{}
	if m == nil {
		return out
	}
	if m.Design != nil {
		d := *m.Design
		out.Design = &d
	}
	if m.Additional != nil {
		a := *m.Additional
		out.Additional = &a
	}
	if m.Shipping != nil {
		s := *m.Shipping
		out.Shipping = &s
	}
	if m.Transport != nil {
		t := *m.Transport
		out.Transport = &t
	}
	if m.GST != nil {
		g := *m.GST
		out.GST = &g
	}
	if m.Payment != nil {
		p := *m.Payment
		out.Payment = &p
	}
	return out
}

// envelope forma serializada: el árbol más la versión del esquema.
type envelope struct {
	V int `json:"v"`
	InvoiceMetadata
}

// Serialize produce el blob JSON persistido. Las ramas deshabilitadas van como
// null; las presentes conservan solo sus campos no vacíos.
func (m *InvoiceMetadata) Serialize() (string, error) {
	b, err := json.Marshal(envelope{V: Version, InvoiceMetadata: *m})
	if err != nil {
		return "", fmt.Errorf("serializar metadata: %w", err)
	}
	return string(b), nil
}

// Deserialize reconstruye el árbol desde el blob persistido. Falla suave: con
// entrada malformada retorna el default con todas las ramas en nil Y un error
// no-nil para que el caller lo registre como warning — el render continúa.
// El string vacío se trata como "sin metadata" y no reporta error.
func Deserialize(raw string) (*InvoiceMetadata, error) {
	if raw == "" {
		return Default(), nil
	}
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return Default(), fmt.Errorf("metadata malformada, se usa default: %w", err)
	}
	m := env.InvoiceMetadata
	return &m, nil
}

func mergeStr(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
