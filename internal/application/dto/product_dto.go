package dto

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// ProductResponse salida de un producto del catálogo.
type ProductResponse struct {
	ID           string `json:"id"`
	Description  string `json:"description"`
	Type         string `json:"type"`
	Model        string `json:"model,omitempty"`
	Operator     string `json:"operator,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`
	ICCID        string `json:"iccid,omitempty"`
	MAC          string `json:"mac,omitempty"`
	Technology   string `json:"technology,omitempty"`
	Ownership    string `json:"ownership,omitempty"`
	Status       string `json:"status,omitempty"`
	HasImage     bool   `json:"has_image"`
	ImageName    string `json:"image_name,omitempty"`
}

// ProductDetailsResponse producto con stock total y desglose por lote.
type ProductDetailsResponse struct {
	Product ProductResponse `json:"product"`
	Stock   int64           `json:"stock"`
	Lots    []LotStockDTO   `json:"lots"`
}

func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Description:  p.Description,
		Type:         p.Type,
		Model:        p.Model,
		Operator:     p.Operator,
		SerialNumber: p.SerialNumber,
		ICCID:        p.ICCID,
		MAC:          p.MAC,
		Technology:   p.Technology,
		Ownership:    p.Ownership,
		Status:       p.Status,
		HasImage:     p.ImagePath != "",
		ImageName:    p.ImageName,
	}
}
