package recognize

import (
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// tessLanguages maps wire-level language codes (PaddleOCR convention) to
// tesseract traineddata names. Codes without an entry pass through
// unchanged, so native tesseract codes like "eng" keep working.
var tessLanguages = map[string]string{
	"ch":          "chi_sim+eng",
	"chinese_cht": "chi_tra",
	"en":          "eng",
	"japan":       "jpn",
	"korean":      "kor",
	"french":      "fra",
	"german":      "deu",
	"it":          "ita",
	"es":          "spa",
	"pt":          "por",
	"ru":          "rus",
	"ar":          "ara",
	"hi":          "hin",
	"latin":       "lat",
}

// TesseractHandle is a Handle backed by a persistent tesseract client
// configured for one language. The client is configured for single-image,
// lowest-latency processing with orientation/script detection disabled.
type TesseractHandle struct {
	mu       sync.Mutex
	client   *gosseract.Client
	language string
}

// NewTesseractHandle constructs a handle for the given wire-level language
// code. tessdataPrefix overrides the training-data directory when non-empty.
//
// Missing training data does not necessarily fail here; tesseract may only
// report it on the first recognition call, and that error propagates to the
// caller untouched.
func NewTesseractHandle(language, tessdataPrefix string) (*TesseractHandle, error) {
	client := gosseract.NewClient()

	if tessdataPrefix != "" {
		if err := client.SetTessdataPrefix(tessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}

	langs := tessLanguages[language]
	if langs == "" {
		langs = language
	}
	if err := client.SetLanguage(strings.Split(langs, "+")...); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language %q: %w", language, err)
	}

	// PSM_AUTO segments pages without the orientation-and-script pass.
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	return &TesseractHandle{client: client, language: language}, nil
}

// Recognize runs recognition on the image file at imagePath and returns a
// single page with line-level texts and bounding boxes.
//
// The underlying client is not reentrant, so calls are serialized.
func (h *TesseractHandle) Recognize(imagePath string) ([]Page, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := h.client.Text()
	if err != nil {
		return nil, fmt.Errorf("recognition failed: %w", err)
	}

	res := &Result{}
	if boxes, err := h.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE); err == nil && len(boxes) > 0 {
		for _, box := range boxes {
			line := strings.TrimRight(box.Word, "\n")
			if strings.TrimSpace(line) == "" {
				continue
			}
			res.Texts = append(res.Texts, line)
			res.Boxes = append(res.Boxes, Box{
				XMin: box.Box.Min.X,
				YMin: box.Box.Min.Y,
				XMax: box.Box.Max.X,
				YMax: box.Box.Max.Y,
			})
		}
	} else {
		// Geometry is best-effort; fall back to the plain text split into
		// lines so recognition still succeeds without boxes.
		for _, line := range strings.Split(text, "\n") {
			if strings.TrimSpace(line) != "" {
				res.Texts = append(res.Texts, line)
			}
		}
	}

	return []Page{res}, nil
}

// Close releases the underlying tesseract client.
func (h *TesseractHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.client.Close()
}
