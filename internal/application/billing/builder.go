// Package billing contiene el motor de composición de facturas: el builder de
// tres pasos que acumula el estado del borrador (detalles → banco/pago →
// diseño/compartir), deriva los campos calculados vía el ledger y arma el
// payload de persistencia en el commit.
package billing

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alakh11/bizztrack-api/internal/domain"
	"github.com/Alakh11/bizztrack-api/internal/domain/entity"
	"github.com/Alakh11/bizztrack-api/internal/domain/ledger"
	"github.com/Alakh11/bizztrack-api/internal/domain/metadata"
	"github.com/Alakh11/bizztrack-api/internal/domain/repository"
	"github.com/Alakh11/bizztrack-api/pkg/logger"
)

// Step paso visible del builder. El orden es lineal: no se salta hacia
// adelante; hacia atrás siempre se permite y nunca descarta estado.
type Step int

const (
	StepDetails     Step = iota // datos de factura, cliente e ítems
	StepBanking                 // banco, UPI, GST
	StepDesignShare             // diseño y compartir; único paso desde el que se hace commit
)

// Mode discrimina borrador nuevo vs. edición de un registro existente.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// Draft estado mutable del borrador, propiedad exclusiva del Builder durante
// la sesión de edición. El Renderer solo recibe snapshots por valor.
type Draft struct {
	Business entity.BusinessProfile

	// Referencia al cliente seleccionado más la copia editable de sus datos.
	// La copia es un snapshot: editar el cliente después no cambia estos
	// campos, y editarlos aquí no escribe de vuelta salvo SaveClientDetails.
	ClientID      string
	ClientName    string
	ClientAddress string
	ClientEmail   string
	ClientPhone   string

	InvoiceNumber string
	InvoiceDate   time.Time
	DueDate       time.Time
	Status        string
	Notes         string
	Terms         string
}

// Builder máquina de estados del flujo de creación/edición. Una instancia por
// sesión de edición; no se comparte entre ediciones concurrentes de la misma
// factura.
type Builder struct {
	mode       Mode
	existingID string

	step      Step
	committed bool

	commitMu   sync.Mutex
	committing bool

	draft  Draft
	ledger *ledger.Ledger
	meta   *metadata.InvoiceMetadata

	clients  repository.ClientRepository
	txRunner CommitTxRunner
	log      *logger.Logger
}

// Deps colaboradores externos del builder.
type Deps struct {
	Clients  repository.ClientRepository
	TxRunner CommitTxRunner
	Log      *logger.Logger
}

// NewBuilder crea un borrador fresco en modo Create: número generado, fecha de
// hoy, vencimiento a 14 días, ledger con una fila y metadata sin ramas.
func NewBuilder(business entity.BusinessProfile, deps Deps) *Builder {
	now := time.Now()
	b := &Builder{
		mode: ModeCreate,
		draft: Draft{
			Business:      business,
			InvoiceNumber: generateInvoiceNumber(now),
			InvoiceDate:   now,
			DueDate:       now.AddDate(0, 0, 14),
			Status:        entity.StatusDraft,
		},
		ledger: ledger.New(),
		meta:   metadata.Default(),
	}
	b.applyDeps(deps)
	return b
}

// NewBuilderFromRecord hidrata un builder en modo Edit desde un registro
// persistido: todos los pasos quedan poblados de entrada pero el paso visible
// arranca en StepDetails. La metadata se deserializa con falla suave: si el
// blob está corrupto se degrada a metadata vacía y se registra un warning.
func NewBuilderFromRecord(record *entity.Invoice, items []*entity.InvoiceItem, deps Deps) *Builder {
	b := &Builder{
		mode:       ModeEdit,
		existingID: record.ID,
		draft: Draft{
			ClientID:      record.ClientID,
			ClientName:    record.ClientName,
			ClientAddress: record.ClientAddress,
			ClientEmail:   record.ClientEmail,
			ClientPhone:   record.ClientPhone,
			InvoiceNumber: record.InvoiceNumber,
			InvoiceDate:   record.InvoiceDate,
			DueDate:       record.DueDate,
			Status:        nonEmptyStatus(record.Status),
			Notes:         record.Notes,
			Terms:         record.Terms,
		},
		ledger: ledger.New(),
	}
	b.applyDeps(deps)

	rows := make([]ledger.HydrateRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, ledger.HydrateRow{
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.UnitPrice,
		})
	}
	b.ledger.Hydrate(rows)

	meta, err := metadata.Deserialize(record.Metadata)
	if err != nil {
		b.log.Warn().Err(err).Str("invoice_id", record.ID).Msg("metadata corrupta, se continúa con metadata vacía")
	}
	b.meta = meta

	return b
}

func (b *Builder) applyDeps(deps Deps) {
	b.clients = deps.Clients
	b.txRunner = deps.TxRunner
	b.log = deps.Log
	if b.log == nil {
		b.log = logger.Nop()
	}
}

// SetBusiness fija la identidad del negocio emisor (modo Edit, donde el
// registro no la trae embebida).
func (b *Builder) SetBusiness(business entity.BusinessProfile) {
	b.draft.Business = business
}

// Mode modo del builder.
func (b *Builder) Mode() Mode { return b.mode }

// ExistingID id del registro en modo Edit ("" en Create).
func (b *Builder) ExistingID() string { return b.existingID }

// Current paso visible actual.
func (b *Builder) Current() Step { return b.step }

// IsFinalStep true en el paso de diseño/compartir.
func (b *Builder) IsFinalStep() bool { return b.step == StepDesignShare }

// Committed true después de un commit exitoso (estado terminal).
func (b *Builder) Committed() bool { return b.committed }

// Draft copia por valor del borrador (solo lectura para el caller).
func (b *Builder) Draft() Draft { return b.draft }

// Ledger acceso al libro de líneas del borrador.
func (b *Builder) Ledger() *ledger.Ledger { return b.ledger }

// Metadata acceso al árbol de metadata del borrador.
func (b *Builder) Metadata() *metadata.InvoiceMetadata { return b.meta }

// ── Navegación ───────────────────────────────────────────────────────────────

// CanAdvance true si el paso actual pasa validación y no es el último.
func (b *Builder) CanAdvance() bool {
	return b.step != StepDesignShare && len(b.validateStep(b.step)) == 0
}

// Next avanza al siguiente paso. Valida el paso actual antes de avanzar: con
// campos requeridos faltantes retorna ValidationErrors (envuelve
// domain.ErrValidation) y no se mueve. En el último paso Next es inválido; la
// única acción hacia adelante es Commit.
func (b *Builder) Next() error {
	if b.committed {
		return domain.ErrAlreadyCommitted
	}
	if b.step == StepDesignShare {
		return fmt.Errorf("%w: en el último paso la acción válida es commit", domain.ErrInvalidTransition)
	}
	if errs := b.validateStep(b.step); len(errs) > 0 {
		return errs
	}
	b.step++
	return nil
}

// Back retrocede un paso sin descartar estado. En StepDetails es no-op.
func (b *Builder) Back() {
	if b.step > StepDetails {
		b.step--
	}
}

// ── Mutadores del borrador ───────────────────────────────────────────────────

// SetInvoiceDetails fija número, fechas, notas y términos.
func (b *Builder) SetInvoiceDetails(number string, date, due time.Time, notes, terms string) {
	if number != "" {
		b.draft.InvoiceNumber = number
	}
	if !date.IsZero() {
		b.draft.InvoiceDate = date
	}
	if !due.IsZero() {
		b.draft.DueDate = due
	}
	b.draft.Notes = notes
	b.draft.Terms = terms
}

// SetStatus fija el estado de la factura (draft, sent, paid...).
func (b *Builder) SetStatus(status string) {
	if status != "" {
		b.draft.Status = status
	}
}

// SelectClient copia name/address/email/phone del cliente al borrador en el
// momento de la selección (semántica de snapshot: ediciones posteriores del
// cliente no cambian el texto ya copiado, y viceversa).
func (b *Builder) SelectClient(ctx context.Context, clientID string) error {
	if b.clients == nil {
		return fmt.Errorf("select client: %w", domain.ErrInvalidInput)
	}
	client, err := b.clients.GetByID(ctx, clientID)
	if err != nil {
		return fmt.Errorf("select client: %w", err)
	}
	if client == nil {
		return domain.ErrNotFound
	}
	b.draft.ClientID = client.ID
	b.draft.ClientName = client.Name
	b.draft.ClientAddress = client.Address
	b.draft.ClientEmail = client.Email
	b.draft.ClientPhone = client.Phone
	return nil
}

// SetClientDetails edita la copia local de los datos del cliente sin tocar el
// registro del cliente. Gana el valor no vacío: el vacío significa "sin
// override", no "limpiar" (limpiar un campo pasa por editar el registro del
// cliente y volver a seleccionarlo).
func (b *Builder) SetClientDetails(name, address, email, phone string) {
	mergeStr(&b.draft.ClientName, name)
	mergeStr(&b.draft.ClientAddress, address)
	mergeStr(&b.draft.ClientEmail, email)
	mergeStr(&b.draft.ClientPhone, phone)
}

// SaveClientDetails acción explícita "guardar en los datos del cliente":
// escribe la copia editada de vuelta en el registro del cliente. Es la única
// vía de write-back; las ediciones normales del borrador nunca lo tocan.
func (b *Builder) SaveClientDetails(ctx context.Context) error {
	if b.draft.ClientID == "" {
		return fmt.Errorf("sin cliente seleccionado: %w", domain.ErrInvalidInput)
	}
	client, err := b.clients.GetByID(ctx, b.draft.ClientID)
	if err != nil {
		return fmt.Errorf("save client details: %w", err)
	}
	if client == nil {
		return domain.ErrNotFound
	}
	client.Name = b.draft.ClientName
	client.Address = b.draft.ClientAddress
	client.Email = b.draft.ClientEmail
	client.Phone = b.draft.ClientPhone
	if err := b.clients.Update(ctx, client); err != nil {
		return fmt.Errorf("save client details: %w", err)
	}
	return nil
}

// ── Validación ───────────────────────────────────────────────────────────────

// FieldError error de validación a nivel de campo.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors lista de errores por campo. Envuelve domain.ErrValidation
// para que errors.Is funcione en los handlers.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validación fallida: " + strings.Join(parts, "; ")
}

// Unwrap permite errors.Is(err, domain.ErrValidation).
func (v ValidationErrors) Unwrap() error { return domain.ErrValidation }

// validateStep reglas por paso. El builder nunca descarta datos requeridos en
// silencio: o pasan o se reportan campo a campo.
func (b *Builder) validateStep(step Step) ValidationErrors {
	var errs ValidationErrors
	switch step {
	case StepDetails:
		if strings.TrimSpace(b.draft.InvoiceNumber) == "" {
			errs = append(errs, FieldError{Field: "invoice_number", Message: "el número de factura es requerido"})
		}
		if strings.TrimSpace(b.draft.ClientName) == "" {
			errs = append(errs, FieldError{Field: "client_name", Message: "el cliente es requerido"})
		}
		if b.draft.InvoiceDate.IsZero() {
			errs = append(errs, FieldError{Field: "invoice_date", Message: "la fecha de emisión es requerida"})
		}
		if b.draft.DueDate.IsZero() {
			errs = append(errs, FieldError{Field: "due_date", Message: "la fecha de vencimiento es requerida"})
		} else if !b.draft.InvoiceDate.IsZero() && b.draft.DueDate.Before(b.draft.InvoiceDate) {
			errs = append(errs, FieldError{Field: "due_date", Message: "el vencimiento no puede ser anterior a la emisión"})
		}
	case StepBanking, StepDesignShare:
		// Banco, UPI, GST y diseño son opcionales: el motor almacena lo que
		// recibe sin validar normativa.
	}
	return errs
}

// ── Commit ───────────────────────────────────────────────────────────────────

// BuildRecord arma la cabecera y las líneas en la forma de persistencia
// (description, quantity, unit_price, amount) sin efectos secundarios. Lo usan
// tanto Commit como el render de borradores.
func (b *Builder) BuildRecord() (*entity.Invoice, []*entity.InvoiceItem, error) {
	metaBlob, err := b.meta.Serialize()
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:            b.existingID,
		InvoiceNumber: b.draft.InvoiceNumber,
		ClientID:      b.draft.ClientID,
		ClientName:    b.draft.ClientName,
		ClientAddress: b.draft.ClientAddress,
		ClientEmail:   b.draft.ClientEmail,
		ClientPhone:   b.draft.ClientPhone,
		InvoiceDate:   b.draft.InvoiceDate,
		DueDate:       b.draft.DueDate,
		Status:        b.draft.Status,
		Notes:         b.draft.Notes,
		Terms:         b.draft.Terms,
		TotalAmount:   b.ledger.Total(),
		Metadata:      metaBlob,
		UpdatedAt:     now,
	}
	if inv.ID == "" {
		inv.ID = uuid.New().String()
		inv.CreatedAt = now
	}

	items := make([]*entity.InvoiceItem, 0, b.ledger.Len())
	for _, row := range b.ledger.Items() {
		items = append(items, &entity.InvoiceItem{
			ID:          uuid.New().String(),
			InvoiceID:   inv.ID,
			Description: row.Description,
			Quantity:    row.Quantity,
			UnitPrice:   row.Rate,
			Amount:      row.Amount, // congelado al momento del commit, sin redondear
		})
	}
	return inv, items, nil
}

// Commit guarda el borrador. Solo es válido en el paso de diseño/compartir.
// Cabecera y líneas se escriben en UNA transacción (no hay ventana de registro
// padre huérfano). Mientras un commit está en vuelo, los reintentos reciben
// ErrCommitInFlight. Si la persistencia falla, el borrador queda intacto en el
// último paso para reintentar; en éxito el builder pasa al estado terminal.
func (b *Builder) Commit(ctx context.Context) (string, error) {
	if b.committed {
		return "", domain.ErrAlreadyCommitted
	}
	if b.step != StepDesignShare {
		return "", fmt.Errorf("%w: commit solo es válido en el paso de diseño", domain.ErrInvalidTransition)
	}
	// Validación completa antes de tocar la persistencia
	for step := StepDetails; step <= StepDesignShare; step++ {
		if errs := b.validateStep(step); len(errs) > 0 {
			return "", errs
		}
	}

	if !b.beginCommit() {
		return "", domain.ErrCommitInFlight
	}
	defer b.endCommit()

	inv, items, err := b.BuildRecord()
	if err != nil {
		return "", fmt.Errorf("armar payload: %w", err)
	}

	err = b.txRunner.RunCommit(ctx, func(repo repository.InvoiceRepository) error {
		if b.mode == ModeCreate {
			if err := repo.Create(ctx, inv); err != nil {
				return err
			}
			for _, item := range items {
				if err := repo.CreateItem(ctx, item); err != nil {
					return err
				}
			}
			return nil
		}
		if err := repo.Update(ctx, inv); err != nil {
			return err
		}
		return repo.ReplaceItems(ctx, inv.ID, items)
	})
	if err != nil {
		// Borrador intacto: el caller puede corregir y reintentar
		return "", fmt.Errorf("guardar factura: %w", err)
	}

	b.committed = true
	return inv.ID, nil
}

// beginCommit marca un commit en vuelo; false si ya había uno (no doble submit).
func (b *Builder) beginCommit() bool {
	b.commitMu.Lock()
	defer b.commitMu.Unlock()
	if b.committing {
		return false
	}
	b.committing = true
	return true
}

func (b *Builder) endCommit() {
	b.commitMu.Lock()
	b.committing = false
	b.commitMu.Unlock()
}

// generateInvoiceNumber número por defecto para borradores nuevos.
func generateInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%d", now.Unix())
}

func nonEmptyStatus(s string) string {
	if s == "" {
		return entity.StatusDraft
	}
	return s
}

func mergeStr(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Total total vigente del borrador (derivado del ledger, nunca cacheado).
func (b *Builder) Total() decimal.Decimal {
	return b.ledger.Total()
}
