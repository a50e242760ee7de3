package imaging_test

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	thumb "github.com/jhoicas/kardex-api/internal/infrastructure/imaging"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "producto.png")
	require.NoError(t, imaging.Save(imaging.New(w, h, color.NRGBA{R: 200, A: 255}), path))
	return path
}

func TestThumbnailer_ReduceManteniendoProporcion(t *testing.T) {
	data, err := thumb.NewThumbnailer().Thumbnail(writePNG(t, 800, 400), 200)
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 200, cfg.Width)
	assert.Equal(t, 100, cfg.Height)
}

func TestThumbnailer_NoAmpliaImagenesPequenas(t *testing.T) {
	data, err := thumb.NewThumbnailer().Thumbnail(writePNG(t, 50, 50), 200)
	require.NoError(t, err)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Width)
}

func TestThumbnailer_ArchivoInvalido(t *testing.T) {
	_, err := thumb.NewThumbnailer().Thumbnail(filepath.Join(t.TempDir(), "no-existe.png"), 200)
	assert.Error(t, err)
}
