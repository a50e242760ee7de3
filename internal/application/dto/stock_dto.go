package dto

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// NetStockResponse respuesta de GET /api/stock/:productId.
type NetStockResponse struct {
	ProductID     string  `json:"product_id"`
	LotID         *string `json:"lot_id,omitempty"`
	EnvironmentID *string `json:"environment_id,omitempty"`
	Stock         int64   `json:"stock"`
}

// LotStockDTO stock de un lote. LotID vacío = movimientos sin lote.
type LotStockDTO struct {
	LotID string `json:"lot_id"`
	Stock int64  `json:"stock"`
}

// ProductStockDTO fila del stock de todos los productos.
type ProductStockDTO struct {
	ProductID   string `json:"product_id"`
	Description string `json:"description"`
	Stock       int64  `json:"stock"`
}

// EnvironmentProductDTO producto ubicado en un entorno.
type EnvironmentProductDTO struct {
	ProductID  string `json:"product_id"`
	PostStatus string `json:"post_status"`
	LastSeq    int64  `json:"last_seq"`
}

// EnvironmentProductsResponse respuesta de GET /api/environments/:envId/products.
type EnvironmentProductsResponse struct {
	EnvironmentID string                  `json:"environment_id"`
	Policy        string                  `json:"policy"`
	Products      []EnvironmentProductDTO `json:"products"`
}

func ToLotStocks(list []entity.LotStock) []LotStockDTO {
	out := make([]LotStockDTO, 0, len(list))
	for _, l := range list {
		out = append(out, LotStockDTO{LotID: l.LotID, Stock: l.Stock})
	}
	return out
}

func ToProductStocks(list []entity.ProductStock) []ProductStockDTO {
	out := make([]ProductStockDTO, 0, len(list))
	for _, p := range list {
		out = append(out, ProductStockDTO{ProductID: p.ProductID, Description: p.Description, Stock: p.Stock})
	}
	return out
}

func ToEnvironmentProducts(list []entity.EnvironmentProduct) []EnvironmentProductDTO {
	out := make([]EnvironmentProductDTO, 0, len(list))
	for _, p := range list {
		out = append(out, EnvironmentProductDTO{ProductID: p.ProductID, PostStatus: p.PostStatus, LastSeq: p.LastSeq})
	}
	return out
}
