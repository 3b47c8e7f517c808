package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrValidation        = errors.New("validación fallida")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInvalidTransition = errors.New("transición de paso inválida")
	ErrCommitInFlight    = errors.New("ya hay un guardado en curso")
	ErrAlreadyCommitted  = errors.New("el borrador ya fue guardado")
	ErrEmailDisabled     = errors.New("envío de correo deshabilitado")
)
