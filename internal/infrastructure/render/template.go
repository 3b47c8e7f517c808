package render

import "html/template"

var (
	documentTmpl = template.Must(template.New("invoice").Parse(documentMarkup))
	errorTmpl    = template.Must(template.New("invoice-error").Parse(errorMarkup))
)

// documentMarkup markup autocontenido del documento. Las únicas referencias
// externas permitidas son la hoja de estilos del web font y los data-URIs de
// logo/firma; el archivo debe abrirse de forma independiente sin la aplicación.
const documentMarkup = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} {{.Number}}</title>
{{if .FontCSSURL}}<link rel="stylesheet" href="{{.FontCSSURL}}">{{end}}
<style>
  @page { size: {{.PaperSize}}; margin: 14mm; }
  * { box-sizing: border-box; }
  body { font-family: {{.FontFamily}}; color: #1f2937; margin: 0; padding: 32px; font-size: 13px; }
  .accent { color: {{.ColorHex}}; }
  .doc-header { display: flex; justify-content: space-between; align-items: flex-start; border-bottom: 3px solid {{.ColorHex}}; padding-bottom: 16px; }
  .doc-header h1 { margin: 0; font-size: 26px; letter-spacing: 2px; color: {{.ColorHex}}; }
  .doc-header .subtitle { margin: 2px 0 0; color: #6b7280; font-size: 12px; }
  .doc-header img.logo { max-height: 64px; max-width: 180px; }
  .invoice-meta { text-align: right; font-size: 12px; }
  .invoice-meta .number { font-size: 15px; font-weight: 700; }
  .addresses { display: flex; gap: 24px; margin-top: 20px; }
  .addresses .block { flex: 1; }
  .block h3 { margin: 0 0 6px; font-size: 11px; text-transform: uppercase; letter-spacing: 1px; color: {{.ColorHex}}; }
  .block p { margin: 2px 0; }
  section { margin-top: 18px; }
  table.items { width: 100%; border-collapse: collapse; margin-top: 4px; }
  table.items th { background: {{.ColorHex}}; color: #ffffff; text-align: left; padding: 8px 10px; font-size: 11px; text-transform: uppercase; }
  table.items td { padding: 8px 10px; border-bottom: 1px solid #e5e7eb; }
  table.items td.num, table.items th.num { text-align: right; }
  .totals { margin-top: 12px; margin-left: auto; width: 260px; }
  .totals .line { display: flex; justify-content: space-between; padding: 4px 0; }
  .totals .grand { border-top: 2px solid {{.ColorHex}}; font-weight: 700; font-size: 15px; padding-top: 8px; }
  .kv { display: grid; grid-template-columns: max-content 1fr; gap: 2px 14px; }
  .kv span.k { color: #6b7280; }
  .signature-section { margin-top: 44px; display: flex; justify-content: flex-end; }
  .signature-box { text-align: center; min-width: 200px; }
  .signature-box img { max-height: 56px; }
  .signature-line { border-top: 1px solid #9ca3af; margin-top: 48px; }
  .signature-box .label { margin-top: 6px; font-size: 11px; color: #6b7280; }
  footer { margin-top: 36px; border-top: 1px solid #e5e7eb; padding-top: 10px; text-align: center; color: #9ca3af; font-size: 11px; }
  .watermark { position: fixed; top: 42%; left: 8%; right: 8%; text-align: center; font-size: 110px; font-weight: 700; color: {{.ColorHex}}; opacity: 0.07; transform: rotate(-30deg); pointer-events: none; z-index: 0; }
  .content { position: relative; z-index: 1; }
  @media print { body { padding: 0; } }
</style>
</head>
<body class="tpl-{{.Template}}">
{{if .Watermark}}<div class="watermark">{{.Watermark}}</div>{{end}}
<div class="content">

<header class="doc-header">
  <div>
    {{if .LogoURL}}<img class="logo" src="{{.LogoURL}}" alt="logo">{{end}}
    <h1>{{.Title}}</h1>
    {{if .Subtitle}}<p class="subtitle">{{.Subtitle}}</p>{{end}}
  </div>
  <div class="invoice-meta">
    <div class="number">{{.Number}}</div>
    <div>Date: {{.Date}}</div>
    <div>Due: {{.DueDate}}</div>
    {{if .PONumber}}<div>PO: {{.PONumber}}</div>{{end}}
    {{if .ReferenceNumber}}<div>Ref: {{.ReferenceNumber}}</div>{{end}}
  </div>
</header>

<div class="addresses">
  <div class="block">
    <h3>From</h3>
    <p><strong>{{.Business.Name}}</strong></p>
    {{if .Business.Address}}<p>{{.Business.Address}}</p>{{end}}
    {{if .Business.Phone}}<p>{{.Business.Phone}}</p>{{end}}
    {{if .Business.Email}}<p>{{.Business.Email}}</p>{{end}}
  </div>
  <div class="block">
    <h3>Bill To</h3>
    <p><strong>{{.ClientName}}</strong></p>
    <p>{{.ClientAddress}}</p>
    {{if .ClientEmail}}<p>{{.ClientEmail}}</p>{{end}}
    {{if .ClientPhone}}<p>{{.ClientPhone}}</p>{{end}}
  </div>
</div>

{{if .Shipping}}
<section class="shipping-section">
  <h3 class="accent">Shipping Details</h3>
  <div class="addresses">
    {{if .HasShipFrom}}
    <div class="block ship-from">
      <h3>Ship From</h3>
      {{if .Shipping.FromName}}<p><strong>{{.Shipping.FromName}}</strong></p>{{end}}
      {{if .Shipping.FromAddress}}<p>{{.Shipping.FromAddress}}</p>{{end}}
      {{if or .Shipping.FromCity .Shipping.FromState .Shipping.FromPostal}}<p>{{.Shipping.FromCity}} {{.Shipping.FromState}} {{.Shipping.FromPostal}}</p>{{end}}
    </div>
    {{end}}
    {{if .HasShipTo}}
    <div class="block ship-to">
      <h3>Ship To</h3>
      {{if .Shipping.ToName}}<p><strong>{{.Shipping.ToName}}</strong></p>{{end}}
      {{if .Shipping.ToAddress}}<p>{{.Shipping.ToAddress}}</p>{{end}}
      {{if or .Shipping.ToCity .Shipping.ToState .Shipping.ToPostal}}<p>{{.Shipping.ToCity}} {{.Shipping.ToState}} {{.Shipping.ToPostal}}</p>{{end}}
    </div>
    {{end}}
  </div>
</section>
{{end}}

{{if .GST}}
<section class="gst-section">
  <h3 class="accent">GST Details</h3>
  <div class="kv">
    {{if .GST.Type}}<span class="k">Tax Type</span><span>{{.GST.Type}}</span>{{end}}
    {{if .GST.PlaceOfSupply}}<span class="k">Place of Supply</span><span>{{.GST.PlaceOfSupply}}</span>{{end}}
    {{if .GST.RegistrationNumber}}<span class="k">GSTIN</span><span>{{.GST.RegistrationNumber}}</span>{{end}}
    {{if .GST.ReverseCharge}}<span class="k">Reverse Charge</span><span>Yes</span>{{end}}
    {{if .GST.NonGST}}<span class="k">Non-GST Supply</span><span>Yes</span>{{end}}
  </div>
</section>
{{end}}

{{if .Transport}}
<section class="transport-section">
  <h3 class="accent">Transport Details</h3>
  <div class="kv">
    {{if .Transport.Transporter}}<span class="k">Transporter</span><span>{{.Transport.Transporter}}</span>{{end}}
    {{if .Transport.Mode}}<span class="k">Mode</span><span>{{.Transport.Mode}}</span>{{end}}
    {{if .Transport.VehicleNumber}}<span class="k">Vehicle No.</span><span>{{.Transport.VehicleNumber}}</span>{{end}}
    {{if .Transport.DocNumber}}<span class="k">Doc No.</span><span>{{.Transport.DocNumber}}</span>{{end}}
    {{if .Transport.DocDate}}<span class="k">Doc Date</span><span>{{.Transport.DocDate}}</span>{{end}}
  </div>
</section>
{{end}}

<section>
<table class="items">
  <thead>
    <tr><th>#</th><th>Description</th><th class="num">Qty</th><th class="num">Rate</th><th class="num">Amount</th></tr>
  </thead>
  <tbody>
    {{range .Items}}
    <tr><td>{{.Index}}</td><td>{{.Description}}</td><td class="num">{{.Quantity}}</td><td class="num">{{.Rate}}</td><td class="num">{{.Amount}}</td></tr>
    {{end}}
  </tbody>
</table>
</section>

<div class="totals">
  <div class="line"><span>Subtotal</span><span>{{.Subtotal}}</span></div>
  <div class="line grand"><span>Total</span><span class="accent">{{.Total}}</span></div>
</div>

{{if .HasPayment}}
<section class="payment-section">
  <h3 class="accent">Payment Information</h3>
  <div class="kv">
    {{if .Payment.BankName}}<span class="k">Bank</span><span>{{.Payment.BankName}}</span>{{end}}
    {{if .Payment.AccountHolder}}<span class="k">Account Holder</span><span>{{.Payment.AccountHolder}}</span>{{end}}
    {{if .Payment.AccountNumber}}<span class="k">Account No.</span><span>{{.Payment.AccountNumber}}</span>{{end}}
    {{if .Payment.IFSC}}<span class="k">IFSC</span><span>{{.Payment.IFSC}}</span>{{end}}
    {{if .Payment.UPIID}}<span class="k">UPI ID</span><span>{{.Payment.UPIID}}</span>{{end}}
    {{if .Payment.UPIName}}<span class="k">UPI Name</span><span>{{.Payment.UPIName}}</span>{{end}}
  </div>
</section>
{{end}}

{{if .Notes}}
<section class="notes-section">
  <h3 class="accent">Notes</h3>
  <p>{{.Notes}}</p>
</section>
{{end}}

{{if .Terms}}
<section class="terms-section">
  <h3 class="accent">Terms &amp; Conditions</h3>
  <p>{{.Terms}}</p>
</section>
{{end}}

<div class="signature-section">
  <div class="signature-box">
    {{if .SignatureURL}}<img src="{{.SignatureURL}}" alt="signature">{{else}}<div class="signature-line"></div>{{end}}
    <div class="label">{{.SignatureLabel}}</div>
  </div>
</div>

<footer>Thank you for your business.</footer>

</div>
</body>
</html>
`

// errorMarkup documento mínimo cuando la composición falla. Sigue siendo HTML
// válido y autocontenido para que todos los sinks tengan algo que entregar.
const errorMarkup = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Invoice {{.Number}}</title>
<style>body{font-family:sans-serif;padding:40px;color:#1f2937}p{color:#6b7280}</style>
</head>
<body>
<h1>Invoice {{.Number}}</h1>
<p>This document could not be fully rendered. Please review the invoice details and try again.</p>
<p class="reason">{{.Reason}}</p>
</body>
</html>
`
