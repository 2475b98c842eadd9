package image

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D}

func TestExtract_PNG(t *testing.T) {
	out, err := New().Extract(context.Background(), "slide.png", pngHeader)

	require.NoError(t, err)
	assert.Equal(t, domain.KindImage, out.Kind)
	assert.Equal(t, "image/png", out.MIMEType)
	assert.Equal(t, pngHeader, out.Image)
}

func TestExtract_JPEG(t *testing.T) {
	out, err := New().Extract(context.Background(), "photo.jpg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0x10})

	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", out.MIMEType)
}

func TestExtract_NotAnImage(t *testing.T) {
	_, err := New().Extract(context.Background(), "fake.png", []byte("just text"))
	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestExtract_Empty(t *testing.T) {
	_, err := New().Extract(context.Background(), "empty.jpg", nil)
	assert.ErrorIs(t, err, domain.ErrDecode)
}
