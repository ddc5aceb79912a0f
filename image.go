package bundlebase

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
)

// ImageKind selects the file format an image is stored in.
type ImageKind int

const (
	KindPNG ImageKind = iota
	KindJPEG
)

// ImageFormat describes how an image is encoded.  Quality only applies
// to JPEG and ranges from 1 to 100.
type ImageFormat struct {
	Kind    ImageKind
	Quality int
}

// PNG stores images losslessly.
var PNG = ImageFormat{Kind: KindPNG}

// JPEG stores images as JPEG at the given quality.
func JPEG(quality int) ImageFormat {
	return ImageFormat{Kind: KindJPEG, Quality: quality}
}

func (f ImageFormat) String() string {
	switch f.Kind {
	case KindPNG:
		return "png"
	case KindJPEG:
		return fmt.Sprintf("jpeg(%d)", f.Quality)
	}
	return fmt.Sprintf("ImageKind(%d)", int(f.Kind))
}

// EncodeImage encodes img in format f.
func EncodeImage(img image.Image, f ImageFormat) ([]byte, error) {
	var buf bytes.Buffer
	switch f.Kind {
	case KindPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	case KindJPEG:
		q := f.Quality
		if q < 1 || q > 100 {
			q = jpeg.DefaultQuality
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported image format %v", f)
	}
	return buf.Bytes(), nil
}

// DecodeImage decodes a PNG or JPEG image; the format is detected from
// the data.
func DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}
