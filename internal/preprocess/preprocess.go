package preprocess

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// Filter constants matching the original preprocessing pipeline.
const (
	unsharpRadius    = 1.0
	unsharpPercent   = 150
	unsharpThreshold = 3
	sharpenFactor    = 1.2
)

// Normalizer converts arbitrary input images into the canonical form the
// recognizer consumes: three-channel color, bounded dimensions, sharpened,
// JPEG-encoded.
type Normalizer struct {
	// MaxSize is the largest allowed width or height. Larger images are
	// downscaled preserving aspect ratio.
	MaxSize int

	// Quality is the JPEG encoding quality for the output file.
	Quality int
}

// New creates a Normalizer with the given size bound and JPEG quality.
func New(maxSize, quality int) *Normalizer {
	return &Normalizer{MaxSize: maxSize, Quality: quality}
}

// NormalizedImage describes the preprocessed copy of an input image.
//
// TempPath names a freshly allocated temporary JPEG file. The caller owns
// its deletion.
type NormalizedImage struct {
	TempPath string

	// Original dimensions of the source image, before any resize.
	OriginalWidth  int
	OriginalHeight int

	// Dimensions of the preprocessed image.
	Width  int
	Height int
}

// Normalize decodes the image at path, canonicalizes it for OCR, and writes
// the result to a new temporary JPEG file.
//
// The steps are applied in full or not at all:
//  1. Decode.
//  2. Flatten to three-channel color, compositing any alpha over white.
//  3. Downscale if either dimension exceeds MaxSize (Lanczos).
//  4. Unsharp mask (radius 1, 150%, threshold 3), then a 1.2x sharpness
//     enhancement to make glyph edges more distinct.
//  5. Encode as JPEG at the configured quality.
func (n *Normalizer) Normalize(path string) (*NormalizedImage, error) {
	src, err := decode(path)
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	origW, origH := bounds.Dx(), bounds.Dy()

	img := flatten(src)
	img = n.downscale(img)
	img = unsharpMask(img, unsharpRadius, unsharpPercent, unsharpThreshold)
	img = enhanceSharpness(img, sharpenFactor)

	tmpFile, err := os.CreateTemp("", "preprocessed-*.jpg")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if err := imaging.Encode(tmpFile, img, imaging.JPEG, imaging.JPEGQuality(n.Quality)); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to encode preprocessed image: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to write preprocessed image: %w", err)
	}

	out := img.Bounds()
	return &NormalizedImage{
		TempPath:       tmpPath,
		OriginalWidth:  origW,
		OriginalHeight: origH,
		Width:          out.Dx(),
		Height:         out.Dy(),
	}, nil
}

// decode opens and decodes an image file using all registered formats.
func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// flatten canonicalizes any decoded image to three-channel color.
//
// Images carrying an alpha channel are composited over an opaque white
// background with the alpha channel as the blend mask. Paletted images are
// composited only when the palette contains a transparent entry; everything
// else converts directly.
func flatten(src image.Image) *image.NRGBA {
	if hasAlpha(src) {
		white := imaging.New(src.Bounds().Dx(), src.Bounds().Dy(), color.White)
		return imaging.Overlay(white, src, image.Pt(0, 0), 1.0)
	}
	return imaging.Clone(src)
}

// hasAlpha reports whether the image can contain non-opaque pixels.
func hasAlpha(img image.Image) bool {
	switch v := img.(type) {
	case *image.NRGBA, *image.RGBA, *image.NRGBA64, *image.RGBA64, *image.NYCbCrA:
		return true
	case *image.Paletted:
		for _, c := range v.Palette {
			if _, _, _, a := c.RGBA(); a < 0xffff {
				return true
			}
		}
	}
	return false
}

// downscale resizes the image so the larger dimension equals MaxSize when
// either dimension exceeds it. Aspect ratio is preserved with the same
// truncating arithmetic the original pipeline used.
func (n *Normalizer) downscale(img *image.NRGBA) *image.NRGBA {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	if w <= n.MaxSize && h <= n.MaxSize {
		return img
	}

	var newW, newH int
	if w > h {
		newW = n.MaxSize
		newH = int(float64(h) * (float64(n.MaxSize) / float64(w)))
	} else {
		newH = n.MaxSize
		newW = int(float64(w) * (float64(n.MaxSize) / float64(h)))
	}

	return imaging.Resize(img, newW, newH, imaging.Lanczos)
}

// unsharpMask applies an unsharp-mask filter: the image is Gaussian-blurred
// and each channel is pushed away from its blurred value by percent/100,
// but only where the difference exceeds the threshold. This sharpens glyph
// edges without amplifying flat-area noise.
func unsharpMask(img *image.NRGBA, radius float64, percent, threshold int) *image.NRGBA {
	blurred := blur.Gaussian(img, radius)

	bounds := img.Bounds()
	out := image.NewNRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			oi := img.PixOffset(x, y)
			bo := blurred.PixOffset(x, y)
			no := out.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				orig := int(img.Pix[oi+c])
				diff := orig - int(blurred.Pix[bo+c])
				if diff < -threshold || diff > threshold {
					out.Pix[no+c] = clampUint8(orig + diff*percent/100)
				} else {
					out.Pix[no+c] = uint8(orig)
				}
			}
			out.Pix[no+3] = 0xff
		}
	}
	return out
}

// smoothKernel is the 3x3 smoothing kernel the sharpness enhancement
// extrapolates against (center-weighted box, normalized to 1).
var smoothKernel = [9]float64{
	1.0 / 13, 1.0 / 13, 1.0 / 13,
	1.0 / 13, 5.0 / 13, 1.0 / 13,
	1.0 / 13, 1.0 / 13, 1.0 / 13,
}

// enhanceSharpness interpolates between a smoothed copy and the original.
// A factor of 1.0 returns the image unchanged; factors above 1.0
// extrapolate past the original, increasing edge contrast.
func enhanceSharpness(img *image.NRGBA, factor float64) *image.NRGBA {
	smoothed := imaging.Convolve3x3(img, smoothKernel, nil)

	bounds := img.Bounds()
	out := image.NewNRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			oi := img.PixOffset(x, y)
			so := smoothed.PixOffset(x, y)
			no := out.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				orig := float64(img.Pix[oi+c])
				smooth := float64(smoothed.Pix[so+c])
				out.Pix[no+c] = clampUint8(int(smooth + factor*(orig-smooth)))
			}
			out.Pix[no+3] = 0xff
		}
	}
	return out
}

func clampUint8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
