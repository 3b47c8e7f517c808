package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alakh11/bizztrack-api/internal/domain/ledger"
)

// TestNew_FilaPorDefecto verifica que un ledger recién creado nace con una fila
// (quantity 1, rate 0, amount 0): el invariante de mínimo una fila rige desde el inicio.
func TestNew_FilaPorDefecto(t *testing.T) {
	l := ledger.New()

	require.Equal(t, 1, l.Len())
	items := l.Items()
	assert.True(t, items[0].Quantity.Equal(decimal.NewFromInt(1)))
	assert.True(t, items[0].Rate.IsZero())
	assert.True(t, items[0].Amount.IsZero())
	assert.True(t, l.Total().IsZero())
}

// TestAmountDerivado verifica que Amount == Quantity*Rate después de cada
// mutación, sin importar el orden de las llamadas.
func TestAmountDerivado(t *testing.T) {
	l := ledger.New()
	row := l.Items()[0]

	l.SetQuantity(row.ID, decimal.NewFromInt(3))
	assert.True(t, l.Items()[0].Amount.IsZero(), "rate sigue en 0, amount debe ser 0")

	l.SetRate(row.ID, decimal.NewFromFloat(12.5))
	got := l.Items()[0]
	assert.True(t, got.Amount.Equal(decimal.NewFromFloat(37.5)), "amount = 3 * 12.50")

	l.SetQuantity(row.ID, decimal.NewFromFloat(0.5))
	got = l.Items()[0]
	assert.True(t, got.Amount.Equal(decimal.NewFromFloat(6.25)), "amount se recalcula en la misma operación")
}

// TestAmountSinRedondeo verifica que el producto almacenado no se redondea:
// solo la presentación redondea a 2 decimales.
func TestAmountSinRedondeo(t *testing.T) {
	l := ledger.New()
	row := l.Items()[0]

	l.SetQuantity(row.ID, decimal.NewFromFloat(0.333))
	l.SetRate(row.ID, decimal.NewFromFloat(10.01))

	exact := decimal.NewFromFloat(0.333).Mul(decimal.NewFromFloat(10.01))
	assert.True(t, l.Items()[0].Amount.Equal(exact), "el amount almacenado conserva todos los decimales")
	assert.True(t, l.Total().Equal(exact))
}

// TestTotal_SumaDeFilas verifica que Total() es la suma de los Amount vigentes
// y se recalcula en cada lectura.
func TestTotal_SumaDeFilas(t *testing.T) {
	l := ledger.New()
	a := l.Items()[0]
	b := l.AddItem()

	l.SetQuantity(a.ID, decimal.NewFromInt(2))
	l.SetRate(a.ID, decimal.NewFromInt(50))
	l.SetQuantity(b.ID, decimal.NewFromInt(1))
	l.SetRate(b.ID, decimal.NewFromInt(100))

	require.True(t, l.Total().Equal(decimal.NewFromInt(200)), "2*50 + 1*100 = 200")

	// Mutar una fila y releer: el total no puede quedar cacheado
	l.SetRate(b.ID, decimal.NewFromInt(25))
	assert.True(t, l.Total().Equal(decimal.NewFromInt(125)))
}

// TestRemoveItem_MinimoUnaFila verifica que eliminar la última fila restante es no-op.
func TestRemoveItem_MinimoUnaFila(t *testing.T) {
	l := ledger.New()
	only := l.Items()[0]

	l.RemoveItem(only.ID)
	assert.Equal(t, 1, l.Len(), "el ledger nunca baja de una fila")

	second := l.AddItem()
	require.Equal(t, 2, l.Len())
	l.RemoveItem(only.ID)
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, second.ID, l.Items()[0].ID)
}

// TestIDs_MonotonicosSinReuso verifica que los IDs locales nunca se reutilizan
// aunque se eliminen filas intermedias.
func TestIDs_MonotonicosSinReuso(t *testing.T) {
	l := ledger.New()
	first := l.Items()[0]
	second := l.AddItem()

	l.RemoveItem(second.ID)
	third := l.AddItem()

	assert.Greater(t, third.ID, second.ID, "el contador no retrocede tras una eliminación")
	assert.NotEqual(t, first.ID, third.ID)
}

// TestSetters_IDDesconocidoNoOp verifica que mutar un ID inexistente no toca ninguna fila.
func TestSetters_IDDesconocidoNoOp(t *testing.T) {
	l := ledger.New()
	before := l.Items()

	l.SetDescription(999, "fantasma")
	l.SetQuantity(999, decimal.NewFromInt(7))
	l.SetRate(999, decimal.NewFromInt(7))
	l.RemoveItem(999)

	assert.Equal(t, before, l.Items())
}

// TestValoresNegativos_SeTratanComoCero cantidades y precios negativos se normalizan a cero.
func TestValoresNegativos_SeTratanComoCero(t *testing.T) {
	l := ledger.New()
	row := l.Items()[0]

	l.SetQuantity(row.ID, decimal.NewFromInt(-4))
	l.SetRate(row.ID, decimal.NewFromInt(-10))

	got := l.Items()[0]
	assert.True(t, got.Quantity.IsZero())
	assert.True(t, got.Rate.IsZero())
	assert.True(t, got.Amount.IsZero())
}

// TestHydrate verifica la rehidratación en modo edición: IDs locales nuevos,
// amounts recalculados y piso de una fila con lista vacía.
func TestHydrate(t *testing.T) {
	l := ledger.New()
	l.Hydrate([]ledger.HydrateRow{
		{Description: "Diseño web", Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(50)},
		{Description: "Hosting", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(100)},
	})

	require.Equal(t, 2, l.Len())
	items := l.Items()
	assert.Equal(t, "Diseño web", items[0].Description)
	assert.True(t, items[0].Amount.Equal(decimal.NewFromInt(100)))
	assert.True(t, l.Total().Equal(decimal.NewFromInt(200)))

	l.Hydrate(nil)
	assert.Equal(t, 1, l.Len(), "con lista vacía se restaura la fila por defecto")
}

// TestItems_EsCopia verifica que Items() devuelve un snapshot: mutar la copia
// no afecta el estado interno del ledger.
func TestItems_EsCopia(t *testing.T) {
	l := ledger.New()
	items := l.Items()
	items[0].Description = "mutado por fuera"

	assert.Empty(t, l.Items()[0].Description)
}
