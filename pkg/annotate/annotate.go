package annotate

import (
	"EmotionGolang/internal/entity"
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	boxThickness = 2
	labelOffset  = 10
	jpegQuality  = 90
)

var (
	boxColor   = color.RGBA{0, 255, 0, 255}
	labelColor = color.RGBA{255, 255, 255, 255}
)

// Caption is the text drawn above the face, e.g. "Joie: 87.3%".
func Caption(labelFR string, confidence float64) string {
	return fmt.Sprintf("%s: %.1f%%", labelFR, confidence*100)
}

// Annotate draws the face box and caption on a copy of img and returns it as JPEG.
func Annotate(img image.Image, box entity.FaceBox, caption string) ([]byte, error) {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	x1, y1 := bounds.Min.X+box.X, bounds.Min.Y+box.Y
	x2, y2 := x1+box.Width, y1+box.Height
	drawRect(rgba, x1, y1, x2, y2, boxColor, boxThickness)

	d := &font.Drawer{
		Dst:  rgba,
		Src:  image.NewUniform(labelColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x1, y1-labelOffset),
	}
	d.DrawString(asciiFold(caption))

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, rgba, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode annotated image: %w", err)
	}
	return buf.Bytes(), nil
}

// asciiFold strips diacritics; basicfont only has glyphs for ASCII.
func asciiFold(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return folded
}

func DataURI(jpegData []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegData)
}

func drawRect(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	b := img.Bounds()
	set := func(x, y int) {
		if image.Pt(x, y).In(b) {
			img.SetRGBA(x, y, col)
		}
	}

	for t := 0; t < thickness; t++ {
		for x := x1; x <= x2; x++ {
			set(x, y1+t)
			set(x, y2-t)
		}
		for y := y1; y <= y2; y++ {
			set(x1+t, y)
			set(x2-t, y)
		}
	}
}
