package kardex

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// DateLayout formato de fecha de los movimientos (YYYY-MM-DD).
const DateLayout = "2006-01-02"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// NormalizeCode recorta y pasa a mayúsculas con reglas del español ("dañado" -> "DAÑADO").
// Se aplica a tipos, estados, operadores y tipos de movimiento ingresados por el usuario.
func NormalizeCode(s string) string {
	return cases.Upper(language.Spanish).String(strings.TrimSpace(s))
}

// ParseKind interpreta un tipo de movimiento. Acepta ENTRADA/SALIDA en cualquier
// capitalización y los alias inbound/outbound.
func ParseKind(s string) (string, error) {
	switch NormalizeCode(s) {
	case entity.MovementKindEntrada, "INBOUND":
		return entity.MovementKindEntrada, nil
	case entity.MovementKindSalida, "OUTBOUND":
		return entity.MovementKindSalida, nil
	}
	return "", domain.ErrInvalidInput
}

// ParseDate valida el formato YYYY-MM-DD y que la fecha exista en el calendario.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !datePattern.MatchString(s) {
		return time.Time{}, domain.ErrInvalidInput
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, domain.ErrInvalidInput
	}
	return d, nil
}

// SameDay compara solo año, mes y día (sin normalizar zona horaria).
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// OptionalID recorta un identificador opcional (lote) sin cambiar mayúsculas; vacío = nil.
func OptionalID(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// OptionalCode normaliza un filtro opcional: nil o vacío se tratan como ausente.
func OptionalCode(s *string) *string {
	if s == nil {
		return nil
	}
	v := NormalizeCode(*s)
	if v == "" {
		return nil
	}
	return &v
}
