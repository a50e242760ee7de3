package usecase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// Límites del ancho de miniatura en píxeles.
const (
	DefaultThumbnailWidth = 200
	MaxThumbnailWidth     = 1024
)

// ImageProcessor redimensiona una imagen y la devuelve codificada en JPEG.
type ImageProcessor interface {
	Thumbnail(path string, width int) ([]byte, error)
}

// ProductUseCase lectura del catálogo e imagen asociada al producto.
type ProductUseCase struct {
	repo   repository.ProductRepository
	images ImageProcessor
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, images ImageProcessor) *ProductUseCase {
	return &ProductUseCase{repo: repo, images: images}
}

// GetByID obtiene un producto por código (domain.ErrNotFound si no existe).
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%w: get product: %w", domain.ErrStore, err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	resp := dto.ToProductResponse(product)
	return &resp, nil
}

// List devuelve el catálogo completo.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list products: %w", domain.ErrStore, err)
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.ToProductResponse(p))
	}
	return out, nil
}

// Thumbnail miniatura JPEG de la imagen del producto. width <= 0 usa el ancho por defecto.
// Producto sin imagen o archivo inexistente = domain.ErrNotFound.
func (uc *ProductUseCase) Thumbnail(ctx context.Context, id string, width int) ([]byte, error) {
	if width <= 0 {
		width = DefaultThumbnailWidth
	}
	if width > MaxThumbnailWidth {
		return nil, fmt.Errorf("%w: width máximo %d", domain.ErrInvalidInput, MaxThumbnailWidth)
	}
	product, err := uc.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%w: get product: %w", domain.ErrStore, err)
	}
	if product == nil || product.ImagePath == "" {
		return nil, domain.ErrNotFound
	}
	if _, err := os.Stat(product.ImagePath); errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	data, err := uc.images.Thumbnail(product.ImagePath, width)
	if err != nil {
		return nil, fmt.Errorf("thumbnail %s: %w", id, err)
	}
	return data, nil
}
