package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrAlreadyReversed   = errors.New("movimiento ya revertido")
	// ErrLockTimeout indica que no se pudo obtener el bloqueo de fila dentro
	// del tiempo límite. La operación es atómica, por lo que es seguro reintentarla.
	ErrLockTimeout = errors.New("tiempo de espera de bloqueo agotado")
)
