package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/Alakh11/bizztrack-api/internal/application/dto"
	"github.com/Alakh11/bizztrack-api/internal/domain"
	"github.com/Alakh11/bizztrack-api/internal/domain/entity"
	"github.com/Alakh11/bizztrack-api/internal/domain/ledger"
	"github.com/Alakh11/bizztrack-api/internal/domain/metadata"
	"github.com/Alakh11/bizztrack-api/internal/domain/repository"
	"github.com/Alakh11/bizztrack-api/internal/infrastructure/render"
	"github.com/Alakh11/bizztrack-api/pkg/logger"
)

const dateLayout = "2006-01-02"

// InvoiceUseCase conduce un Builder por los tres pasos a partir del payload
// HTTP y expone las consultas de facturas.
type InvoiceUseCase struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	profileRepo repository.ProfileRepository
	txRunner    CommitTxRunner
	log         *logger.Logger
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	profileRepo repository.ProfileRepository,
	txRunner CommitTxRunner,
	log *logger.Logger,
) *InvoiceUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &InvoiceUseCase{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		profileRepo: profileRepo,
		txRunner:    txRunner,
		log:         log,
	}
}

// CreateInvoice crea un borrador fresco, aplica el payload y hace commit.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, in dto.SaveInvoiceRequest) (*dto.InvoiceResponse, error) {
	profile, err := uc.profileRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("perfil del negocio: %w", err)
	}
	business := entity.BusinessProfile{}
	if profile != nil {
		business = *profile
	}

	b := NewBuilder(business, uc.deps())
	if err := uc.applyRequest(ctx, b, in); err != nil {
		return nil, err
	}
	return uc.commitAndRespond(ctx, b)
}

// UpdateInvoice rehidrata un builder desde el registro persistido, aplica el
// payload y hace commit (una sola actualización con la lista completa de líneas).
func (uc *InvoiceUseCase) UpdateInvoice(ctx context.Context, id string, in dto.SaveInvoiceRequest) (*dto.InvoiceResponse, error) {
	record, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener líneas: %w", err)
	}

	b := NewBuilderFromRecord(record, items, uc.deps())
	if profile, err := uc.profileRepo.Get(ctx); err == nil && profile != nil {
		b.SetBusiness(*profile)
	}
	if err := uc.applyRequest(ctx, b, in); err != nil {
		return nil, err
	}
	return uc.commitAndRespond(ctx, b)
}

// GetInvoice factura por ID con detalle y metadata deserializada.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	record, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener líneas: %w", err)
	}
	return uc.toResponse(record, items), nil
}

// ListInvoices listado de cabeceras.
func (uc *InvoiceUseCase) ListInvoices(ctx context.Context) ([]dto.InvoiceSummary, error) {
	records, err := uc.invoiceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar facturas: %w", err)
	}
	out := make([]dto.InvoiceSummary, 0, len(records))
	for _, r := range records {
		out = append(out, dto.InvoiceSummary{
			ID:            r.ID,
			InvoiceNumber: r.InvoiceNumber,
			InvoiceDate:   r.InvoiceDate.Format(dateLayout),
			DueDate:       r.DueDate.Format(dateLayout),
			ClientName:    r.ClientName,
			Status:        r.Status,
			TotalAmount:   r.TotalAmount,
		})
	}
	return out, nil
}

// PreviewDraft renderiza un borrador sin guardarlo: arma el builder desde el
// payload, congela un snapshot por valor y lo pasa al renderizador. No valida
// pasos ni toca la persistencia (el write-back opcional se ignora aquí).
func (uc *InvoiceUseCase) PreviewDraft(ctx context.Context, in dto.SaveInvoiceRequest) (string, error) {
	profile, err := uc.profileRepo.Get(ctx)
	if err != nil {
		uc.log.Warn().Err(err).Msg("perfil del negocio no disponible, se previsualiza con placeholders")
		profile = nil
	}
	business := entity.BusinessProfile{}
	if profile != nil {
		business = *profile
	}

	b := NewBuilder(business, uc.deps())
	in.SaveToClient = false
	if err := uc.applyRequest(ctx, b, in); err != nil {
		return "", err
	}

	rec, items, err := b.BuildRecord()
	if err != nil {
		return "", fmt.Errorf("armar snapshot: %w", err)
	}
	doc := render.Render(render.InputFromRecord(profile, rec, items, b.Metadata()))
	return render.PreviewHTML(doc), nil
}

func (uc *InvoiceUseCase) deps() Deps {
	return Deps{Clients: uc.clientRepo, TxRunner: uc.txRunner, Log: uc.log}
}

// applyRequest vuelca el payload sobre el builder en el orden del flujo:
// cliente (snapshot), detalles, líneas, metadata y write-back opcional.
func (uc *InvoiceUseCase) applyRequest(ctx context.Context, b *Builder, in dto.SaveInvoiceRequest) error {
	if in.ClientID != "" && in.ClientID != b.Draft().ClientID {
		if err := b.SelectClient(ctx, in.ClientID); err != nil {
			return err
		}
	}
	// Overrides ad hoc de los datos copiados (no tocan el registro del cliente)
	b.SetClientDetails(in.ClientName, in.ClientAddress, in.ClientEmail, in.ClientPhone)

	// Una fecha presente pero ilegible nunca se descarta en silencio: sube
	// como error de campo en lugar de guardar la fecha por defecto
	var dateErrs ValidationErrors
	date, err := parseDate(in.InvoiceDate)
	if err != nil {
		dateErrs = append(dateErrs, FieldError{Field: "invoice_date", Message: "fecha inválida, formato esperado YYYY-MM-DD"})
	}
	due, err := parseDate(in.DueDate)
	if err != nil {
		dateErrs = append(dateErrs, FieldError{Field: "due_date", Message: "fecha inválida, formato esperado YYYY-MM-DD"})
	}
	if len(dateErrs) > 0 {
		return dateErrs
	}
	b.SetInvoiceDetails(in.InvoiceNumber, date, due, in.Notes, in.Terms)
	b.SetStatus(in.Status)

	if len(in.Items) > 0 {
		rows := make([]ledger.HydrateRow, 0, len(in.Items))
		for _, it := range in.Items {
			rows = append(rows, ledger.HydrateRow{Description: it.Description, Quantity: it.Quantity, Rate: it.Rate})
		}
		b.Ledger().Hydrate(rows)
	}

	applyMetadata(b.Metadata(), in.Metadata)

	if in.SaveToClient {
		if err := b.SaveClientDetails(ctx); err != nil {
			return err
		}
	}
	return nil
}

// applyMetadata aplica el árbol del request sobre el del borrador. Request nil
// deja la metadata existente intacta (edición parcial). Con request presente,
// la ausencia de shipping/transport deshabilita esas secciones (sus toggles
// viven en el modelo, no como booleanos paralelos).
func applyMetadata(dst *metadata.InvoiceMetadata, src *metadata.InvoiceMetadata) {
	if src == nil {
		return
	}
	if src.Design != nil {
		dst.SetDesign(*src.Design)
		// El vacío apaga la marca de agua; el merge normal lo ignoraría
		dst.SetWatermark(src.Design.WatermarkText)
	}
	if src.Additional != nil {
		dst.SetAdditional(*src.Additional)
	}
	dst.EnableShipping(src.Shipping != nil)
	if src.Shipping != nil {
		dst.SetShipping(*src.Shipping)
	}
	dst.EnableTransport(src.Transport != nil)
	if src.Transport != nil {
		dst.SetTransport(*src.Transport)
	}
	if src.GST != nil {
		dst.SetGST(*src.GST)
	}
	if src.Payment != nil {
		dst.SetPayment(*src.Payment)
	}
}

// commitAndRespond avanza los pasos restantes y hace commit. La validación de
// cada paso corre en Next(); los errores de campo suben como ValidationErrors.
func (uc *InvoiceUseCase) commitAndRespond(ctx context.Context, b *Builder) (*dto.InvoiceResponse, error) {
	for !b.IsFinalStep() {
		if err := b.Next(); err != nil {
			return nil, err
		}
	}
	id, err := b.Commit(ctx)
	if err != nil {
		return nil, err
	}
	return uc.GetInvoice(ctx, id)
}

func (uc *InvoiceUseCase) toResponse(record *entity.Invoice, items []*entity.InvoiceItem) *dto.InvoiceResponse {
	meta, err := metadata.Deserialize(record.Metadata)
	if err != nil {
		uc.log.Warn().Err(err).Str("invoice_id", record.ID).Msg("metadata corrupta en lectura, se responde vacía")
	}
	resp := &dto.InvoiceResponse{
		ID:            record.ID,
		InvoiceNumber: record.InvoiceNumber,
		InvoiceDate:   record.InvoiceDate.Format(dateLayout),
		DueDate:       record.DueDate.Format(dateLayout),
		ClientID:      record.ClientID,
		ClientName:    record.ClientName,
		ClientAddress: record.ClientAddress,
		ClientEmail:   record.ClientEmail,
		ClientPhone:   record.ClientPhone,
		Status:        record.Status,
		Notes:         record.Notes,
		Terms:         record.Terms,
		TotalAmount:   record.TotalAmount,
		Metadata:      meta,
		Items:         make([]dto.InvoiceItemResponse, 0, len(items)),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
		})
	}
	return resp
}

// parseDate fecha del payload. Vacía es válida (se mantiene la existente);
// presente pero ilegible es un error para el caller.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha %q: %w", s, domain.ErrValidation)
	}
	return t, nil
}
