// Package imaging genera miniaturas de las imágenes de producto con disintegration/imaging.
package imaging

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/jhoicas/kardex-api/internal/application/usecase"
)

var _ usecase.ImageProcessor = (*Thumbnailer)(nil)

// Thumbnailer redimensiona manteniendo la proporción (alto 0) con filtro Lanczos y codifica en JPEG.
type Thumbnailer struct {
	quality int
}

func NewThumbnailer() *Thumbnailer { return &Thumbnailer{quality: 85} }

func (t *Thumbnailer) Thumbnail(path string, width int) ([]byte, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("abrir imagen: %w", err)
	}
	if img.Bounds().Dx() > width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(t.quality)); err != nil {
		return nil, fmt.Errorf("codificar miniatura: %w", err)
	}
	return buf.Bytes(), nil
}
