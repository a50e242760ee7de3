package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	// ErrStore agrupa fallos de conexión y de consulta contra el almacén del kardex.
	// Las lecturas son idempotentes: el caller puede reintentar la misma llamada.
	ErrStore = errors.New("almacén de datos no disponible")
)
