// Package ledger implementa el libro de líneas de una factura en edición:
// lista ordenada de ítems con monto derivado (quantity * rate) y total agregado.
package ledger

import "github.com/shopspring/decimal"

// LineItem una línea editable del builder. ID es local al builder (contador
// monotónico, no es identidad persistida). Amount es siempre una proyección
// derivada de Quantity*Rate, nunca editable directamente; el valor se guarda
// sin redondear para que Total() no acumule error de redondeo — solo la capa
// de presentación redondea a 2 decimales.
type LineItem struct {
	ID          int
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	Amount      decimal.Decimal
}

// Ledger lista ordenada de líneas. Invariante: nunca queda con menos de una fila.
type Ledger struct {
	items  []*LineItem
	nextID int
}

// New crea un ledger con una fila por defecto (quantity 1, rate 0).
func New() *Ledger {
	l := &Ledger{}
	l.AddItem()
	return l
}

// AddItem agrega una fila nueva con ID único (el contador no se reutiliza
// aunque se eliminen filas), quantity 1 y rate 0. Siempre tiene éxito.
func (l *Ledger) AddItem() *LineItem {
	l.nextID++
	item := &LineItem{
		ID:       l.nextID,
		Quantity: decimal.NewFromInt(1),
		Rate:     decimal.Zero,
		Amount:   decimal.Zero,
	}
	l.items = append(l.items, item)
	return item
}

// SetDescription actualiza la descripción de la fila. ID desconocido: no-op.
func (l *Ledger) SetDescription(id int, description string) {
	if item := l.find(id); item != nil {
		item.Description = description
	}
}

// SetQuantity actualiza la cantidad y recalcula Amount en la misma operación.
// Cantidades negativas se tratan como cero. ID desconocido: no-op.
func (l *Ledger) SetQuantity(id int, quantity decimal.Decimal) {
	if item := l.find(id); item != nil {
		item.Quantity = clampNonNegative(quantity)
		item.Amount = item.Quantity.Mul(item.Rate)
	}
}

// SetRate actualiza el precio unitario y recalcula Amount en la misma operación.
// Precios negativos se tratan como cero. ID desconocido: no-op.
func (l *Ledger) SetRate(id int, rate decimal.Decimal) {
	if item := l.find(id); item != nil {
		item.Rate = clampNonNegative(rate)
		item.Amount = item.Quantity.Mul(item.Rate)
	}
}

// RemoveItem elimina la fila salvo que sea la última: el ledger nunca queda
// con cero filas, en ese caso la llamada se ignora.
func (l *Ledger) RemoveItem(id int) {
	if len(l.items) <= 1 {
		return
	}
	for i, item := range l.items {
		if item.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return
		}
	}
}

// Total suma los Amount de todas las filas. Se recalcula en cada lectura,
// nunca se cachea entre mutaciones.
func (l *Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range l.items {
		total = total.Add(item.Amount)
	}
	return total
}

// Items devuelve una copia por valor de las filas (snapshot para el renderer).
func (l *Ledger) Items() []LineItem {
	out := make([]LineItem, len(l.items))
	for i, item := range l.items {
		out[i] = *item
	}
	return out
}

// Len cantidad de filas actuales.
func (l *Ledger) Len() int {
	return len(l.items)
}

// Hydrate reemplaza las filas con datos persistidos (modo edición), reasignando
// IDs locales y recalculando Amount desde quantity*rate. Con lista vacía se
// restaura la fila por defecto para mantener el invariante de mínimo una fila.
func (l *Ledger) Hydrate(rows []HydrateRow) {
	l.items = nil
	for _, row := range rows {
		item := l.AddItem()
		item.Description = row.Description
		item.Quantity = clampNonNegative(row.Quantity)
		item.Rate = clampNonNegative(row.Rate)
		item.Amount = item.Quantity.Mul(item.Rate)
	}
	if len(l.items) == 0 {
		l.AddItem()
	}
}

// HydrateRow datos de una línea persistida para rehidratar el ledger.
type HydrateRow struct {
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
}

func (l *Ledger) find(id int) *LineItem {
	for _, item := range l.items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

func clampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
