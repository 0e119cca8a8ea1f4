package video

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// SnapshotQuality is the JPEG quality of saved frames.
const SnapshotQuality = 92

// RGBImage wraps a packed RGB24 payload as an image.
func RGBImage(payload []byte, width, height int) (*image.RGBA, error) {
	if len(payload) != width*height*3 {
		return nil, fmt.Errorf("payload is %d bytes, want %d for %dx%d", len(payload), width*height*3, width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, j := 0, 0; i < len(payload); i, j = i+3, j+4 {
		img.Pix[j] = payload[i]
		img.Pix[j+1] = payload[i+1]
		img.Pix[j+2] = payload[i+2]
		img.Pix[j+3] = 0xff
	}
	return img, nil
}

// SaveSnapshot writes payload to path as a JPEG.
func SaveSnapshot(path string, payload []byte, width, height int) error {
	img, err := RGBImage(payload, width, height)
	if err != nil {
		return err
	}
	return saveJPEG(path, img)
}

// SaveStampedSnapshot writes payload to path with label drawn black on a
// white band in the top-left corner.
func SaveStampedSnapshot(path string, payload []byte, width, height int, label string) error {
	img, err := RGBImage(payload, width, height)
	if err != nil {
		return err
	}
	Stamp(img, label)
	return saveJPEG(path, img)
}

// Stamp draws label onto img. The text is rendered in a 7x13 bitmap face
// and scaled up with the image width so it stays legible on large frames.
func Stamp(img *image.RGBA, label string) {
	face := basicfont.Face7x13
	pad := 4
	textW := font.MeasureString(face, label).Ceil()
	band := image.NewRGBA(image.Rect(0, 0, textW+2*pad, face.Height+2*pad))
	draw.Draw(band, band.Bounds(), image.White, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  band,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(pad, pad+face.Ascent),
	}
	d.DrawString(label)

	scale := max(1, img.Bounds().Dx()/640)
	dst := image.Rect(0, 0, band.Bounds().Dx()*scale, band.Bounds().Dy()*scale).
		Add(img.Bounds().Min).
		Intersect(img.Bounds())
	draw.NearestNeighbor.Scale(img, dst, band, band.Bounds(), draw.Src, nil)
}

func saveJPEG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: SnapshotQuality}); err != nil {
		f.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return f.Close()
}
