package preprocess

import (
	"EmotionGolang/internal/entity"
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

var (
	ErrDecode      = errors.New("unable to decode image")
	ErrInvalidCrop = errors.New("face region has zero area after clamping")
)

// Decode reads any registered format (jpeg, png, gif, bmp, tiff, webp) and applies
// the EXIF orientation so boxes from the detector line up with the pixels.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrDecode)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// ClampBox intersects the face box with the image bounds. Box coordinates are
// relative to the image's top-left corner. Non-positive sizes are rejected
// rather than letting image.Rect swap the corners.
func ClampBox(bounds image.Rectangle, box entity.FaceBox) (image.Rectangle, error) {
	if box.Width <= 0 || box.Height <= 0 {
		return image.Rectangle{}, fmt.Errorf("%w: box %+v has no area", ErrInvalidCrop, box)
	}

	r := image.Rect(
		bounds.Min.X+box.X,
		bounds.Min.Y+box.Y,
		bounds.Min.X+box.X+box.Width,
		bounds.Min.Y+box.Y+box.Height,
	).Intersect(bounds)

	if r.Dx() <= 0 || r.Dy() <= 0 {
		return image.Rectangle{}, fmt.Errorf("%w: box %+v in %v", ErrInvalidCrop, box, bounds)
	}
	return r, nil
}

// Preprocess turns a face region into the classifier input: crop, 48x48 linear
// resize, luma grayscale, [0,1] scaling, single-item NHWC batch.
func Preprocess(img image.Image, box entity.FaceBox) (entity.Tensor, error) {
	region, err := ClampBox(img.Bounds(), box)
	if err != nil {
		return entity.Tensor{}, err
	}

	cropped := imaging.Crop(img, region)
	resized := imaging.Resize(cropped, entity.InputSize, entity.InputSize, imaging.Linear)
	gray := imaging.Grayscale(resized)

	tensor := entity.Tensor{
		Shape: [4]int{1, entity.InputSize, entity.InputSize, entity.InputChannels},
		Data:  make([]float32, entity.InputSize*entity.InputSize*entity.InputChannels),
	}

	b := gray.Bounds()
	for y := 0; y < entity.InputSize; y++ {
		for x := 0; x < entity.InputSize; x++ {
			// grayscale NRGBA keeps luma in every colour channel
			off := gray.PixOffset(b.Min.X+x, b.Min.Y+y)
			tensor.Data[y*entity.InputSize+x] = float32(gray.Pix[off]) / 255
		}
	}

	return tensor, nil
}
