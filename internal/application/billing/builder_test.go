package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alakh11/bizztrack-api/internal/application/billing"
	"github.com/Alakh11/bizztrack-api/internal/domain"
	"github.com/Alakh11/bizztrack-api/internal/domain/entity"
	"github.com/Alakh11/bizztrack-api/internal/domain/repository"
)

// ── Fakes en memoria ─────────────────────────────────────────────────────────

type fakeInvoiceRepo struct {
	invoices map[string]*entity.Invoice
	items    map[string][]*entity.InvoiceItem

	failCreate     bool
	failCreateItem bool
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: make(map[string]*entity.Invoice),
		items:    make(map[string][]*entity.InvoiceItem),
	}
}

func (f *fakeInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	if f.failCreate {
		return errors.New("db caída")
	}
	cp := *inv
	f.invoices[inv.ID] = &cp
	return nil
}

func (f *fakeInvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	cp := *inv
	f.invoices[inv.ID] = &cp
	return nil
}

func (f *fakeInvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeInvoiceRepo) List(_ context.Context) ([]*entity.Invoice, error) {
	out := make([]*entity.Invoice, 0, len(f.invoices))
	for _, inv := range f.invoices {
		cp := *inv
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeInvoiceRepo) CreateItem(_ context.Context, item *entity.InvoiceItem) error {
	if f.failCreateItem {
		return errors.New("insert de línea fallido")
	}
	cp := *item
	f.items[item.InvoiceID] = append(f.items[item.InvoiceID], &cp)
	return nil
}

func (f *fakeInvoiceRepo) ReplaceItems(_ context.Context, invoiceID string, items []*entity.InvoiceItem) error {
	rows := make([]*entity.InvoiceItem, 0, len(items))
	for _, it := range items {
		cp := *it
		rows = append(rows, &cp)
	}
	f.items[invoiceID] = rows
	return nil
}

func (f *fakeInvoiceRepo) GetItemsByInvoiceID(_ context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	return f.items[invoiceID], nil
}

var _ repository.InvoiceRepository = (*fakeInvoiceRepo)(nil)

// fakeTxRunner simula la transacción: todo o nada sobre un repo staging.
type fakeTxRunner struct {
	repo    *fakeInvoiceRepo
	fail    bool
	entered chan struct{} // si no es nil, señala la entrada a la tx
	release chan struct{} // si no es nil, bloquea hasta que el test lo cierre
}

func (f *fakeTxRunner) RunCommit(_ context.Context, fn func(repository.InvoiceRepository) error) error {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if f.fail {
		return errors.New("transacción abortada")
	}
	// Staging: si fn falla, nada de lo escrito llega al repo real
	staging := newFakeInvoiceRepo()
	staging.failCreate = f.repo.failCreate
	staging.failCreateItem = f.repo.failCreateItem
	if err := fn(staging); err != nil {
		return err
	}
	for id, inv := range staging.invoices {
		f.repo.invoices[id] = inv
	}
	for id, items := range staging.items {
		f.repo.items[id] = items
	}
	return nil
}

type fakeClientRepo struct {
	clients map[string]*entity.Client
}

func (f *fakeClientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	c, ok := f.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeClientRepo) List(_ context.Context) ([]*entity.Client, error) {
	out := make([]*entity.Client, 0, len(f.clients))
	for _, c := range f.clients {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeClientRepo) Update(_ context.Context, c *entity.Client) error {
	cp := *c
	f.clients[c.ID] = &cp
	return nil
}

type fixture struct {
	invoices *fakeInvoiceRepo
	clients  *fakeClientRepo
	tx       *fakeTxRunner
}

func newFixture() *fixture {
	invoices := newFakeInvoiceRepo()
	return &fixture{
		invoices: invoices,
		clients: &fakeClientRepo{clients: map[string]*entity.Client{
			"cl-1": {ID: "cl-1", Name: "Acme Traders", Address: "14 MG Road, Bengaluru", Email: "cuentas@acme.example", Phone: "+91 98 7654 3210"},
		}},
		tx: &fakeTxRunner{repo: invoices},
	}
}

func (fx *fixture) deps() billing.Deps {
	return billing.Deps{Clients: fx.clients, TxRunner: fx.tx}
}

func (fx *fixture) business() entity.BusinessProfile {
	return entity.BusinessProfile{
		ID:              "biz-1",
		BusinessName:    "Estudio Nube SAS",
		BusinessAddress: "Calle 10 # 5-51",
		BusinessEmail:   "hola@estudionube.co",
	}
}

// ── Navegación y validación ──────────────────────────────────────────────────

// TestBuilder_EstadoInicial borrador fresco: paso 0, número generado, fecha de
// hoy, vencimiento a 14 días y una fila en el ledger.
func TestBuilder_EstadoInicial(t *testing.T) {
	fx := newFixture()
	b := billing.NewBuilder(fx.business(), fx.deps())

	assert.Equal(t, billing.StepDetails, b.Current())
	assert.Equal(t, billing.ModeCreate, b.Mode())
	assert.False(t, b.Committed())

	d := b.Draft()
	assert.NotEmpty(t, d.InvoiceNumber)
	assert.Equal(t, entity.StatusDraft, d.Status)
	assert.Equal(t, 14*24*time.Hour, d.DueDate.Sub(d.InvoiceDate).Round(time.Hour), "vencimiento = emisión + 14 días")
	assert.Equal(t, 1, b.Ledger().Len())
}

// TestBuilder_NextValidaAntesDeAvanzar con el cliente vacío el paso 0 no
// avanza y el error reporta el campo.
func TestBuilder_NextValidaAntesDeAvanzar(t *testing.T) {
	fx := newFixture()
	b := billing.NewBuilder(fx.business(), fx.deps())

	err := b.Next()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	var verrs billing.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "client_name")
	assert.Equal(t, billing.StepDetails, b.Current(), "no se avanza con validación fallida")
	assert.False(t, b.CanAdvance())
}

// TestBuilder_FlujoLineal avanzar dos veces llega al paso final; allí Next es
// inválido y Back retrocede sin descartar estado.
func TestBuilder_FlujoLineal(t *testing.T) {
	fx := newFixture()
	b := billing.NewBuilder(fx.business(), fx.deps())
	require.NoError(t, b.SelectClient(context.Background(), "cl-1"))

	require.NoError(t, b.Next())
	assert.Equal(t, billing.StepBanking, b.Current())
	require.NoError(t, b.Next())
	assert.Equal(t, billing.StepDesignShare, b.Current())
	assert.True(t, b.IsFinalStep())

	err := b.Next()
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition), "en el último paso solo vale commit")

	b.Back()
	assert.Equal(t, billing.StepBanking, b.Current())
	assert.Equal(t, "Acme Traders", b.Draft().ClientName, "retroceder no descarta estado")

	b.Back()
	b.Back() // no-op en el paso 0
	assert.Equal(t, billing.StepDetails, b.Current())
}

// TestBuilder_VencimientoAnteriorALaEmision regla de fechas del paso 0.
func TestBuilder_VencimientoAnteriorALaEmision(t *testing.T) {
	fx := newFixture()
	b := billing.NewBuilder(fx.business(), fx.deps())
	require.NoError(t, b.SelectClient(context.Background(), "cl-1"))

	now := time.Now()
	b.SetInvoiceDetails("INV-9", now, now.AddDate(0, 0, -1), "", "")
	err := b.Next()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

// ── Snapshot del cliente ─────────────────────────────────────────────────────

// TestBuilder_SelectClient_Snapshot seleccionar copia los datos al momento;
// editar el cliente después no cambia el texto ya copiado, y editar el
// borrador no escribe de vuelta.
func TestBuilder_SelectClient_Snapshot(t *testing.T) {
	fx := newFixture()
	b := billing.NewBuilder(fx.business(), fx.deps())
	ctx := context.Background()

	require.NoError(t, b.SelectClient(ctx, "cl-1"))
	d := b.Draft()
	assert.Equal(t, "Acme Traders", d.ClientName)
	assert.Equal(t, "14 MG Road, Bengaluru", d.ClientAddress)

	// Editar el registro del cliente después de la selección
	fx.clients.clients["cl-1"].Name = "Acme Traders Renombrado"
	assert.Equal(t, "Acme Traders", b.Draft().ClientName, "el snapshot no sigue al registro")

	// Editar el borrador no toca el registro
	b.SetClientDetails("Acme Override", "", "", "")
	assert.Equal(t, "Acme Traders Renombrado", fx.clients.clients["cl-1"].Name)
}

// TestBuilder_SetClientDetails_VacioNoLimpia los overrides son "no vacío
// gana": pasar vacío no borra los campos copiados del snapshot.
func TestBuilder_SetClientDetails_VacioNoLimpia(t *testing.T) {
	fx := newFixture()
	b := billing.NewBuilder(fx.business(), fx.deps())
	require.NoError(t, b.SelectClient(context.Background(), "cl-1"))

	b.SetClientDetails("", "", "", "")
	d := b.Draft()
	assert.Equal(t, "Acme Traders", d.ClientName)
	assert.Equal(t, "14 MG Road, Bengaluru", d.ClientAddress)
	assert.Equal(t, "cuentas@acme.example", d.ClientEmail)
	assert.Equal(t, "+91 98 7654 3210", d.ClientPhone)

	b.SetClientDetails("", "", "", "+91 90 0000 0000")
	d = b.Draft()
	assert.Equal(t, "+91 90 0000 0000", d.ClientPhone, "solo el campo no vacío se pisa")
	assert.Equal(t, "Acme Traders", d.ClientName)
}

// TestBuilder_SaveClientDetails el write-back solo ocurre con la acción explícita.
func TestBuilder_SaveClientDetails(t *testing.T) {
	fx := newFixture()
	b := billing.NewBuilder(fx.business(), fx.deps())
	ctx := context.Background()

	require.NoError(t, b.SelectClient(ctx, "cl-1"))
	b.SetClientDetails("Acme Corregido", "Nueva dirección 5", "", "")

	require.NoError(t, b.SaveClientDetails(ctx))
	assert.Equal(t, "Acme Corregido", fx.clients.clients["cl-1"].Name)
	assert.Equal(t, "Nueva dirección 5", fx.clients.clients["cl-1"].Address)
}

// TestBuilder_SelectClientInexistente ErrNotFound y borrador sin tocar.
func TestBuilder_SelectClientInexistente(t *testing.T) {
	fx := newFixture()
	b := billing.NewBuilder(fx.business(), fx.deps())

	err := b.SelectClient(context.Background(), "cl-999")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Empty(t, b.Draft().ClientID)
}

// ── Commit ───────────────────────────────────────────────────────────────────

func buildReadyToCommit(t *testing.T, fx *fixture) *billing.Builder {
	t.Helper()
	b := billing.NewBuilder(fx.business(), fx.deps())
	require.NoError(t, b.SelectClient(context.Background(), "cl-1"))

	l := b.Ledger()
	first := l.Items()[0]
	l.SetDescription(first.ID, "A")
	l.SetQuantity(first.ID, decimal.NewFromInt(2))
	l.SetRate(first.ID, decimal.NewFromInt(50))
	second := l.AddItem()
	l.SetDescription(second.ID, "B")
	l.SetRate(second.ID, decimal.NewFromInt(100))

	require.NoError(t, b.Next())
	require.NoError(t, b.Next())
	return b
}

// TestBuilder_EscenarioCreate dos ítems (2x50 y 1x100) -> total 200; el
// colaborador de persistencia recibe total_amount 200 y dos filas con amount
// 100 y 100 en la forma {description, quantity, unit_price, amount}.
func TestBuilder_EscenarioCreate(t *testing.T) {
	fx := newFixture()
	b := buildReadyToCommit(t, fx)

	require.True(t, b.Total().Equal(decimal.NewFromInt(200)), "2*50 + 1*100")

	id, err := b.Commit(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.True(t, b.Committed(), "estado terminal tras el commit")

	saved := fx.invoices.invoices[id]
	require.NotNil(t, saved, "la cabecera llegó a la persistencia")
	assert.True(t, saved.TotalAmount.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, "Acme Traders", saved.ClientName)
	assert.NotEmpty(t, saved.Metadata, "la metadata serializada viaja en el registro")

	rows := fx.invoices.items[id]
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0].Description)
	assert.True(t, rows[0].Quantity.Equal(decimal.NewFromInt(2)))
	assert.True(t, rows[0].UnitPrice.Equal(decimal.NewFromInt(50)))
	assert.True(t, rows[0].Amount.Equal(decimal.NewFromInt(100)))
	assert.True(t, rows[1].Amount.Equal(decimal.NewFromInt(100)))
}

// TestBuilder_CommitSoloEnPasoFinal commit fuera del paso de diseño es una
// transición inválida.
func TestBuilder_CommitSoloEnPasoFinal(t *testing.T) {
	fx := newFixture()
	b := billing.NewBuilder(fx.business(), fx.deps())

	_, err := b.Commit(context.Background())
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

// TestBuilder_CommitFallido_BorradorIntacto si la persistencia falla, el
// builder sigue en el paso final con el borrador completo para reintentar.
func TestBuilder_CommitFallido_BorradorIntacto(t *testing.T) {
	fx := newFixture()
	b := buildReadyToCommit(t, fx)
	fx.tx.fail = true

	_, err := b.Commit(context.Background())
	require.Error(t, err)
	assert.False(t, b.Committed())
	assert.Equal(t, billing.StepDesignShare, b.Current())
	assert.True(t, b.Total().Equal(decimal.NewFromInt(200)), "ningún estado local se limpia")
	assert.Empty(t, fx.invoices.invoices)

	// Reintento tras recuperarse la persistencia
	fx.tx.fail = false
	id, err := b.Commit(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, fx.invoices.invoices[id])
}

// TestBuilder_CommitAtomico si el insert de una línea falla, la cabecera
// tampoco queda escrita (una sola transacción, sin registro padre huérfano).
func TestBuilder_CommitAtomico(t *testing.T) {
	fx := newFixture()
	b := buildReadyToCommit(t, fx)
	fx.invoices.failCreateItem = true

	_, err := b.Commit(context.Background())
	require.Error(t, err)
	assert.Empty(t, fx.invoices.invoices, "sin cabecera huérfana tras el fallo de líneas")
	assert.False(t, b.Committed())
}

// TestBuilder_DobleSubmit mientras un commit está en vuelo, el segundo recibe
// ErrCommitInFlight sin tocar la persistencia.
func TestBuilder_DobleSubmit(t *testing.T) {
	fx := newFixture()
	b := buildReadyToCommit(t, fx)

	fx.tx.entered = make(chan struct{}, 1)
	fx.tx.release = make(chan struct{})

	type result struct {
		id  string
		err error
	}
	done := make(chan result, 1)
	go func() {
		id, err := b.Commit(context.Background())
		done <- result{id, err}
	}()

	<-fx.tx.entered // el primer commit ya está dentro de la transacción
	_, err := b.Commit(context.Background())
	assert.True(t, errors.Is(err, domain.ErrCommitInFlight))

	close(fx.tx.release)
	first := <-done
	require.NoError(t, first.err)
	assert.True(t, b.Committed())

	// Estado terminal: un tercer intento ya no es un doble submit sino un re-commit
	_, err = b.Commit(context.Background())
	assert.True(t, errors.Is(err, domain.ErrAlreadyCommitted))
}

// ── Hidratación en modo edición ──────────────────────────────────────────────

func persistedRecord(metaBlob string) (*entity.Invoice, []*entity.InvoiceItem) {
	inv := &entity.Invoice{
		ID:            "inv-7",
		InvoiceNumber: "INV-000777",
		ClientID:      "cl-1",
		ClientName:    "Acme Traders",
		ClientAddress: "14 MG Road, Bengaluru",
		ClientEmail:   "cuentas@acme.example",
		InvoiceDate:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
		Status:        entity.StatusSent,
		Metadata:      metaBlob,
		TotalAmount:   decimal.NewFromInt(350),
	}
	items := []*entity.InvoiceItem{
		{ID: "it-1", InvoiceID: "inv-7", Description: "Consultoría", Quantity: decimal.NewFromInt(7), UnitPrice: decimal.NewFromInt(50), Amount: decimal.NewFromInt(350)},
	}
	return inv, items
}

// TestBuilder_HidratacionEdit un registro con design.color=green y shipping
// null hidrata un builder cuya metadata reporta exactamente eso, con el paso
// visible en 0 y las líneas recalculadas.
func TestBuilder_HidratacionEdit(t *testing.T) {
	fx := newFixture()
	inv, items := persistedRecord(`{"v":1,"design":{"color":"green"},"additional":null,"shipping":null,"transport":null,"gst":null,"payment":null}`)

	b := billing.NewBuilderFromRecord(inv, items, fx.deps())

	assert.Equal(t, billing.ModeEdit, b.Mode())
	assert.Equal(t, "inv-7", b.ExistingID())
	assert.Equal(t, billing.StepDetails, b.Current(), "la edición también arranca en el paso 0")

	meta := b.Metadata()
	require.NotNil(t, meta.Design)
	assert.Equal(t, "green", meta.Design.Color)
	assert.Nil(t, meta.Shipping)

	d := b.Draft()
	assert.Equal(t, "Acme Traders", d.ClientName, "los campos del cliente se copian como texto editable")
	assert.Equal(t, 1, b.Ledger().Len())
	assert.True(t, b.Total().Equal(decimal.NewFromInt(350)))
}

// TestBuilder_HidratacionMetadataCorrupta el blob ilegible degrada a metadata
// vacía sin impedir la edición.
func TestBuilder_HidratacionMetadataCorrupta(t *testing.T) {
	fx := newFixture()
	inv, items := persistedRecord("{esto no es json")

	b := billing.NewBuilderFromRecord(inv, items, fx.deps())

	meta := b.Metadata()
	require.NotNil(t, meta)
	assert.Nil(t, meta.Design)
	assert.Nil(t, meta.Shipping)
}

// TestBuilder_CommitEdit en modo edición el commit es una sola actualización
// con la lista completa de reemplazo.
func TestBuilder_CommitEdit(t *testing.T) {
	fx := newFixture()
	inv, items := persistedRecord(`{"v":1,"design":null,"additional":null,"shipping":null,"transport":null,"gst":null,"payment":null}`)
	fx.invoices.invoices[inv.ID] = inv
	fx.invoices.items[inv.ID] = items

	b := billing.NewBuilderFromRecord(inv, items, fx.deps())
	l := b.Ledger()
	row := l.Items()[0]
	l.SetRate(row.ID, decimal.NewFromInt(60))
	extra := l.AddItem()
	l.SetDescription(extra.ID, "Soporte")
	l.SetRate(extra.ID, decimal.NewFromInt(80))

	require.NoError(t, b.Next())
	require.NoError(t, b.Next())
	id, err := b.Commit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "inv-7", id, "la edición conserva el ID del registro")

	saved := fx.invoices.invoices["inv-7"]
	assert.True(t, saved.TotalAmount.Equal(decimal.NewFromInt(500)), "7*60 + 1*80")
	assert.Len(t, fx.invoices.items["inv-7"], 2, "lista de líneas reemplazada por completo")
}

// TestBuilder_BuildRecordSinEfectos armar el payload no muta el builder ni la
// persistencia (se usa para renderizar borradores).
func TestBuilder_BuildRecordSinEfectos(t *testing.T) {
	fx := newFixture()
	b := buildReadyToCommit(t, fx)

	rec, rows, err := b.BuildRecord()
	require.NoError(t, err)
	assert.True(t, rec.TotalAmount.Equal(decimal.NewFromInt(200)))
	require.Len(t, rows, 2)
	assert.True(t, rows[0].UnitPrice.Equal(decimal.NewFromInt(50)), "rate viaja como unit_price")

	assert.Empty(t, fx.invoices.invoices)
	assert.False(t, b.Committed())
	assert.NotEmpty(t, rec.ID)
}
