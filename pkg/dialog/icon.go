package dialog

import (
	"bytes"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// iconSize is the edge length the native title icon is rendered at.
const iconSize = 48

// Icon sets the title-row icon. The image is scaled to the native icon size
// and transmitted PNG-encoded.
func (b *Builder) Icon(img image.Image) *Builder {
	return b.add(phaseTitle, "icon", func(d *description) error {
		data, err := encodeIcon(img)
		if err != nil {
			return err
		}
		d.fields["icon"] = data
		return nil
	})
}

func encodeIcon(img image.Image) ([]byte, error) {
	bounds := img.Bounds()
	if bounds.Dx() != iconSize || bounds.Dy() != iconSize {
		dst := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
