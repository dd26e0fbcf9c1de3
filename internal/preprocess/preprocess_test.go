package preprocess

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

// createTestImage writes a solid-color PNG and returns its path.
// The caller is responsible for removing the file.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	tmpFile, err := os.CreateTemp("", "preprocess-test-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	if err := png.Encode(tmpFile, img); err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to encode image: %v", err)
	}
	return tmpFile.Name()
}

// normalize runs the default Normalizer and registers cleanup of the temp
// output so tests only assert.
func normalize(t *testing.T, path string) *NormalizedImage {
	t.Helper()
	n, err := New(1920, 95).Normalize(path)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	t.Cleanup(func() { os.Remove(n.TempPath) })
	return n
}

// decodeOutput decodes the normalized temp file.
func decodeOutput(t *testing.T, n *NormalizedImage) image.Image {
	t.Helper()
	f, err := os.Open(n.TempPath)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		t.Fatalf("output not decodable: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg output, got %s", format)
	}
	return img
}

func TestNormalize_SmallImagePreservesDimensions(t *testing.T) {
	path := createTestImage(t, 640, 480, color.RGBA{200, 10, 10, 255})
	defer os.Remove(path)

	n := normalize(t, path)

	if n.Width != 640 || n.Height != 480 {
		t.Errorf("dimensions changed: got %dx%d, want 640x480", n.Width, n.Height)
	}
	if n.OriginalWidth != 640 || n.OriginalHeight != 480 {
		t.Errorf("unexpected original size: %dx%d", n.OriginalWidth, n.OriginalHeight)
	}

	out := decodeOutput(t, n)
	if out.Bounds().Dx() != 640 || out.Bounds().Dy() != 480 {
		t.Errorf("output file dimensions: got %dx%d, want 640x480",
			out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestNormalize_DownscalesWideImage(t *testing.T) {
	path := createTestImage(t, 3840, 1000, color.White)
	defer os.Remove(path)

	n := normalize(t, path)

	if n.Width != 1920 {
		t.Errorf("max dimension: got %d, want 1920", n.Width)
	}
	// 1000 * (1920/3840) = 500
	if n.Height != 500 {
		t.Errorf("aspect ratio not preserved: got height %d, want 500", n.Height)
	}
}

func TestNormalize_DownscalesTallImage(t *testing.T) {
	path := createTestImage(t, 600, 2400, color.White)
	defer os.Remove(path)

	n := normalize(t, path)

	if n.Height != 1920 {
		t.Errorf("max dimension: got %d, want 1920", n.Height)
	}
	// 600 * (1920/2400) = 480
	if n.Width != 480 {
		t.Errorf("aspect ratio not preserved: got width %d, want 480", n.Width)
	}
}

func TestNormalize_CustomMaxSize(t *testing.T) {
	path := createTestImage(t, 1000, 400, color.White)
	defer os.Remove(path)

	n, err := New(500, 95).Normalize(path)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	defer os.Remove(n.TempPath)

	if n.Width != 500 || n.Height != 200 {
		t.Errorf("got %dx%d, want 500x200", n.Width, n.Height)
	}
}

// TestNormalize_TransparencyCompositesOverWhite checks that fully
// transparent pixels become white and fully opaque pixels keep their color.
func TestNormalize_TransparencyComposite(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	opaque := color.NRGBA{R: 180, G: 40, B: 40, A: 255}
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if x < 32 {
				img.Set(x, y, opaque)
			} else {
				img.Set(x, y, color.NRGBA{A: 0})
			}
		}
	}

	tmpFile, err := os.CreateTemp("", "preprocess-alpha-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	if err := png.Encode(tmpFile, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	tmpFile.Close()
	defer os.Remove(tmpFile.Name())

	n := normalize(t, tmpFile.Name())
	out := decodeOutput(t, n)

	// Sample away from the opaque/transparent boundary so sharpening and
	// JPEG artifacts do not dominate.
	transparent, ok := colorful.MakeColor(out.At(56, 32))
	if !ok {
		t.Fatal("sample pixel has zero alpha")
	}
	white := colorful.Color{R: 1, G: 1, B: 1}
	if d := transparent.DistanceRgb(white); d > 0.05 {
		t.Errorf("transparent area not white: distance %f", d)
	}

	kept, ok := colorful.MakeColor(out.At(8, 32))
	if !ok {
		t.Fatal("sample pixel has zero alpha")
	}
	want, _ := colorful.MakeColor(opaque)
	if d := kept.DistanceRgb(want); d > 0.1 {
		t.Errorf("opaque area changed color: distance %f", d)
	}
}

func TestNormalize_UndecodableInput(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "preprocess-junk-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	if _, err := tmpFile.WriteString("this is not an image"); err != nil {
		t.Fatalf("failed to write junk: %v", err)
	}
	tmpFile.Close()
	defer os.Remove(tmpFile.Name())

	if _, err := New(1920, 95).Normalize(tmpFile.Name()); err == nil {
		t.Error("expected decode error for non-image input")
	}
}

func TestNormalize_MissingFile(t *testing.T) {
	if _, err := New(1920, 95).Normalize("/nonexistent/missing.png"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestHasAlpha(t *testing.T) {
	if !hasAlpha(image.NewNRGBA(image.Rect(0, 0, 1, 1))) {
		t.Error("NRGBA should report alpha")
	}
	if hasAlpha(image.NewGray(image.Rect(0, 0, 1, 1))) {
		t.Error("Gray should not report alpha")
	}

	opaquePal := image.NewPaletted(image.Rect(0, 0, 1, 1),
		color.Palette{color.Black, color.White})
	if hasAlpha(opaquePal) {
		t.Error("opaque palette should not report alpha")
	}

	transPal := image.NewPaletted(image.Rect(0, 0, 1, 1),
		color.Palette{color.Black, color.Transparent})
	if !hasAlpha(transPal) {
		t.Error("palette with transparent entry should report alpha")
	}
}
