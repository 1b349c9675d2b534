package preprocess

import (
	"EmotionGolang/internal/entity"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradientImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 255 / width), uint8(y * 255 / height), 90, 255})
		}
	}
	return img
}

func TestPreprocess_ShapeAndRange(t *testing.T) {
	img := gradientImage(200, 150)
	boxes := []entity.FaceBox{
		{X: 10, Y: 10, Width: 100, Height: 100},
		{X: 0, Y: 0, Width: 200, Height: 150},
		{X: 150, Y: 100, Width: 3, Height: 2},
		{X: -20, Y: -20, Width: 60, Height: 60},
		{X: 180, Y: 120, Width: 500, Height: 500},
	}

	for _, box := range boxes {
		tensor, err := Preprocess(img, box)
		require.NoError(t, err)

		assert.Equal(t, [4]int{1, 48, 48, 1}, tensor.Shape)
		require.Len(t, tensor.Data, 48*48)
		assert.Equal(t, tensor.Len(), len(tensor.Data))
		for _, v := range tensor.Data {
			require.GreaterOrEqual(t, v, float32(0))
			require.LessOrEqual(t, v, float32(1))
		}
	}
}

func TestPreprocess_Deterministic(t *testing.T) {
	img := gradientImage(120, 90)
	box := entity.FaceBox{X: 5, Y: 7, Width: 80, Height: 70, Confidence: 0.9}

	a, err := Preprocess(img, box)
	require.NoError(t, err)
	b, err := Preprocess(img, box)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestPreprocess_UniformColourUsesLuma(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{255, 255, 255, 255})
		}
	}

	tensor, err := Preprocess(img, entity.FaceBox{X: 0, Y: 0, Width: 64, Height: 64})
	require.NoError(t, err)

	for _, v := range tensor.Data {
		assert.InDelta(t, 1.0, v, 0.01)
	}
}

func TestPreprocess_InvalidCrop(t *testing.T) {
	img := gradientImage(100, 100)
	boxes := []entity.FaceBox{
		{X: 10, Y: 10, Width: 0, Height: 30},
		{X: 10, Y: 10, Width: 30, Height: 0},
		{X: 100, Y: 0, Width: 30, Height: 30},
		{X: -50, Y: 0, Width: 50, Height: 30},
		{X: 0, Y: 0, Width: -5, Height: 30},
		{X: 60, Y: 60, Width: -40, Height: -40},
		{X: 60, Y: 10, Width: 20, Height: -40},
	}

	for _, box := range boxes {
		_, err := Preprocess(img, box)
		assert.ErrorIs(t, err, ErrInvalidCrop, "box %+v", box)
	}
}

func TestClampBox_ReversedCorners(t *testing.T) {
	r, err := ClampBox(image.Rect(0, 0, 100, 100), entity.FaceBox{X: 60, Y: 60, Width: -40, Height: -40})

	assert.ErrorIs(t, err, ErrInvalidCrop)
	assert.True(t, r.Empty())
}

func TestClampBox_OffsetBounds(t *testing.T) {
	bounds := image.Rect(10, 20, 110, 120)

	r, err := ClampBox(bounds, entity.FaceBox{X: 90, Y: 90, Width: 40, Height: 40})

	require.NoError(t, err)
	assert.Equal(t, image.Rect(100, 110, 110, 120), r)
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, gradientImage(32, 16)))

	img, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())

	_, err = Decode([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrDecode)

	_, err = Decode(nil)
	assert.ErrorIs(t, err, ErrDecode)
}
