package dto

import (
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
type RegisterMovementRequest struct {
	ProductID     string  `json:"product_id"`
	Kind          string  `json:"kind"` // ENTRADA | SALIDA
	Quantity      int64   `json:"quantity"`
	LotID         *string `json:"lot_id,omitempty"`
	EnvironmentID *string `json:"environment_id,omitempty"`
	Date          string  `json:"date,omitempty"` // YYYY-MM-DD; vacío = hoy
	PostStatus    string  `json:"post_status,omitempty"`
}

// MovementResponse fila del kardex. Los seis primeros campos forman el detalle diario.
type MovementResponse struct {
	Seq            int64   `json:"seq"`
	ProductID      string  `json:"product_id"`
	Quantity       int64   `json:"quantity"`
	LotID          *string `json:"lot_id"`
	EnvironmentID  *string `json:"environment_id"`
	PostStatus     string  `json:"post_status"`
	Kind           string  `json:"kind"`
	Date           string  `json:"date"`
	CreatedBy      string  `json:"created_by,omitempty"`
	CompensatesSeq *int64  `json:"compensates_seq,omitempty"`
}

// MovementsOnDateResponse respuesta de GET /api/movements.
type MovementsOnDateResponse struct {
	Date      string             `json:"date"`
	Kind      string             `json:"kind"`
	Count     int64              `json:"count"`
	Movements []MovementResponse `json:"movements"`
}

func ToMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		Seq:            m.Seq,
		ProductID:      m.ProductID,
		Quantity:       m.Quantity,
		LotID:          m.LotID,
		EnvironmentID:  m.EnvironmentID,
		PostStatus:     m.PostStatus,
		Kind:           m.Kind,
		Date:           m.Date.Format(kardex.DateLayout),
		CreatedBy:      m.CreatedBy,
		CompensatesSeq: m.CompensatesSeq,
	}
}

func ToMovementResponses(list []entity.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for i := range list {
		out = append(out, ToMovementResponse(&list[i]))
	}
	return out
}
