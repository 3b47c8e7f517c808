package billing

import (
	"context"
	"fmt"

	"github.com/Alakh11/bizztrack-api/internal/application/dto"
	"github.com/Alakh11/bizztrack-api/internal/domain"
	"github.com/Alakh11/bizztrack-api/internal/domain/entity"
	"github.com/Alakh11/bizztrack-api/internal/domain/metadata"
	"github.com/Alakh11/bizztrack-api/internal/domain/repository"
	"github.com/Alakh11/bizztrack-api/internal/infrastructure/render"
	"github.com/Alakh11/bizztrack-api/pkg/logger"
)

// DocumentUseCase entrega el documento renderizado de una factura persistida
// por los cuatro sinks: vista previa, impresión, descarga y correo.
//
// Cada sink aísla sus errores: un fallo en uno no impide reintentar otro ni
// toca el registro (salvo el cambio de estado a "sent" tras un correo exitoso).
type DocumentUseCase struct {
	invoiceRepo repository.InvoiceRepository
	profileRepo repository.ProfileRepository
	sender      EmailSender
	log         *logger.Logger
}

// NewDocumentUseCase construye el caso de uso. sender puede ser nil si el
// envío de correo está deshabilitado.
func NewDocumentUseCase(
	invoiceRepo repository.InvoiceRepository,
	profileRepo repository.ProfileRepository,
	sender EmailSender,
	log *logger.Logger,
) *DocumentUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &DocumentUseCase{
		invoiceRepo: invoiceRepo,
		profileRepo: profileRepo,
		sender:      sender,
		log:         log,
	}
}

// Preview documento para abrir en una superficie nueva (sin diálogo de impresión).
func (uc *DocumentUseCase) Preview(ctx context.Context, invoiceID string) (string, error) {
	doc, _, _, err := uc.buildDocument(ctx, invoiceID)
	if err != nil {
		return "", err
	}
	return render.PreviewHTML(doc), nil
}

// Print documento con el disparo de impresión diferido a la carga completa.
func (uc *DocumentUseCase) Print(ctx context.Context, invoiceID string) (string, error) {
	doc, _, _, err := uc.buildDocument(ctx, invoiceID)
	if err != nil {
		return "", err
	}
	return render.PrintHTML(doc), nil
}

// Download documento empaquetado como archivo Invoice-<número>.html.
func (uc *DocumentUseCase) Download(ctx context.Context, invoiceID string) (filename, contentType string, body []byte, err error) {
	doc, _, _, err := uc.buildDocument(ctx, invoiceID)
	if err != nil {
		return "", "", nil, err
	}
	filename, contentType, body = render.DownloadPayload(doc)
	return filename, contentType, body, nil
}

// Email arma el payload y lo entrega al colaborador de correo; el resultado
// del colaborador sube tal cual al usuario. Destinatario vacío usa el email
// del cliente copiado en la factura. Tras un envío exitoso, un borrador pasa
// a estado "sent" (error al actualizar solo se registra: el correo ya salió).
func (uc *DocumentUseCase) Email(ctx context.Context, invoiceID string, in dto.EmailInvoiceRequest) error {
	if uc.sender == nil {
		return domain.ErrEmailDisabled
	}
	doc, inv, profile, err := uc.buildDocument(ctx, invoiceID)
	if err != nil {
		return err
	}

	to := in.To
	if to == "" {
		to = inv.ClientEmail
	}
	if to == "" {
		return fmt.Errorf("%w: la factura no tiene email de destinatario", domain.ErrInvalidInput)
	}
	subject := in.Subject
	if subject == "" {
		subject = "Invoice " + inv.InvoiceNumber
	}

	msg := EmailMessage{
		To:            to,
		Subject:       subject,
		Body:          in.Body,
		ReplyTo:       replyTo(profile),
		RecipientName: inv.ClientName,
		InvoiceID:     inv.ID,
		HTML:          doc.HTML,
	}
	if err := uc.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("enviar correo: %w", err)
	}

	if inv.Status == entity.StatusDraft {
		inv.Status = entity.StatusSent
		if err := uc.invoiceRepo.Update(ctx, inv); err != nil {
			uc.log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("no se pudo marcar la factura como enviada")
		}
	}
	return nil
}

// buildDocument carga el registro y produce el documento. La metadata corrupta
// degrada a vacía (warning); el perfil ausente degrada a placeholders. Render
// nunca falla: en el peor caso entrega el documento de error mínimo.
func (uc *DocumentUseCase) buildDocument(ctx context.Context, invoiceID string) (render.Document, *entity.Invoice, *entity.BusinessProfile, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return render.Document{}, nil, nil, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return render.Document{}, nil, nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(ctx, invoiceID)
	if err != nil {
		return render.Document{}, nil, nil, fmt.Errorf("obtener líneas: %w", err)
	}

	profile, err := uc.profileRepo.Get(ctx)
	if err != nil {
		uc.log.Warn().Err(err).Msg("perfil del negocio no disponible, se renderiza con placeholders")
		profile = nil
	}

	meta, err := metadata.Deserialize(inv.Metadata)
	if err != nil {
		uc.log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("metadata corrupta, se renderiza sin metadata")
	}

	doc := render.Render(render.InputFromRecord(profile, inv, items, meta))
	return doc, inv, profile, nil
}

func replyTo(profile *entity.BusinessProfile) string {
	if profile == nil {
		return ""
	}
	return profile.BusinessEmail
}
