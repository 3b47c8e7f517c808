package metadata

import "github.com/shopspring/decimal"

// Resolución de tokens de estilo a valores concretos. Un token desconocido
// nunca produce salida vacía o inválida: cae al valor fijo por defecto
// (color "blue", fuente "inter").

// Tokens por defecto.
const (
	DefaultColor     = "blue"
	DefaultFont      = "inter"
	DefaultPaperSize = "a4"
	DefaultTemplate  = "classic"
)

// colorHex mapa cerrado de temas de color.
var colorHex = map[string]string{
	"blue":   "#2563eb",
	"green":  "#16a34a",
	"red":    "#dc2626",
	"purple": "#9333ea",
	"teal":   "#0d9488",
	"orange": "#ea580c",
	"pink":   "#db2777",
	"slate":  "#334155",
}

// FontDef familia CSS y hoja de estilos web de una fuente.
type FontDef struct {
	Family string // valor font-family listo para CSS
	CSSURL string // hoja de estilos del web font (única referencia externa permitida)
}

var fonts = map[string]FontDef{
	"inter":   {Family: "'Inter', sans-serif", CSSURL: "https://fonts.googleapis.com/css2?family=Inter:wght@400;600;700&display=swap"},
	"roboto":  {Family: "'Roboto', sans-serif", CSSURL: "https://fonts.googleapis.com/css2?family=Roboto:wght@400;500;700&display=swap"},
	"poppins": {Family: "'Poppins', sans-serif", CSSURL: "https://fonts.googleapis.com/css2?family=Poppins:wght@400;600;700&display=swap"},
	"lora":    {Family: "'Lora', serif", CSSURL: "https://fonts.googleapis.com/css2?family=Lora:wght@400;600;700&display=swap"},
	"courier": {Family: "'Courier New', monospace", CSSURL: ""},
}

// currencySymbols mapa fijo de símbolos. Cualquier código no listado (o vacío)
// usa el símbolo por defecto ₹.
var currencySymbols = map[string]string{
	"usd": "$",
	"eur": "€",
	"gbp": "£",
	"inr": "₹",
}

// DefaultCurrencySymbol símbolo usado cuando el código no está mapeado.
const DefaultCurrencySymbol = "₹"

// paperCSS tamaño de página para la regla @page (solo afecta impresión).
var paperCSS = map[string]string{
	"a4":     "A4",
	"letter": "letter",
	"legal":  "legal",
}

// ResolveColor devuelve el hex del tema. Token desconocido -> hex de "blue".
func ResolveColor(token string) string {
	if hex, ok := colorHex[token]; ok {
		return hex
	}
	return colorHex[DefaultColor]
}

// ResolveFont devuelve la definición de la fuente. Token desconocido -> "inter".
func ResolveFont(token string) FontDef {
	if def, ok := fonts[token]; ok {
		return def
	}
	return fonts[DefaultFont]
}

// CurrencySymbol devuelve el símbolo del código de moneda ("usd" -> "$").
func CurrencySymbol(code string) string {
	if sym, ok := currencySymbols[code]; ok {
		return sym
	}
	return DefaultCurrencySymbol
}

// PaperCSSSize devuelve el valor de tamaño para @page. Token desconocido -> A4.
func PaperCSSSize(token string) string {
	if size, ok := paperCSS[token]; ok {
		return size
	}
	return paperCSS[DefaultPaperSize]
}

// FormatAmount formatea un monto con el símbolo de la moneda y exactamente dos
// decimales: FormatAmount(1234.5, "usd") -> "$ 1234.50".
func FormatAmount(amount decimal.Decimal, currency string) string {
	return CurrencySymbol(currency) + " " + amount.StringFixed(2)
}
