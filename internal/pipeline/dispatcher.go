// Package pipeline orchestrates one OCR request end to end: validate the
// arguments, normalize the image, recognize, and write the output files.
package pipeline

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ocrtools/paddleocr-mcp/internal/markdown"
	"github.com/ocrtools/paddleocr-mcp/internal/preprocess"
	"github.com/ocrtools/paddleocr-mcp/internal/recognize"
	"github.com/ocrtools/paddleocr-mcp/internal/snapshot"
)

// Error taxonomy. Validation failures are distinguishable via errors.Is;
// everything else that goes wrong during processing is uniformly tagged
// ErrProcessing.
var (
	// ErrInvalidArgument marks a missing or wrongly typed request argument.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound marks an image path that does not exist.
	ErrNotFound = errors.New("image file not found")

	// ErrInvalidPath marks a path that exists but is not a regular file.
	ErrInvalidPath = errors.New("path is not a file")

	// ErrProcessing marks any failure past validation: decode, recognizer
	// construction, recognition, or output writing.
	ErrProcessing = errors.New("processing failed")
)

// Dispatcher executes OCR requests. It owns the recognizer cache and the
// normalizer; both are injected at construction so tests can substitute
// fakes and each instance is isolated.
type Dispatcher struct {
	normalizer      *preprocess.Normalizer
	recognizers     *recognize.Cache
	defaultLanguage string
	writeSnapshot   bool
}

// New creates a Dispatcher. defaultLanguage replaces an absent or blank
// language argument; writeSnapshot additionally emits the YAML snapshot
// artifact per request.
func New(normalizer *preprocess.Normalizer, recognizers *recognize.Cache, defaultLanguage string, writeSnapshot bool) *Dispatcher {
	if defaultLanguage == "" {
		defaultLanguage = recognize.DefaultLanguage
	}
	return &Dispatcher{
		normalizer:      normalizer,
		recognizers:     recognizers,
		defaultLanguage: defaultLanguage,
		writeSnapshot:   writeSnapshot,
	}
}

// Output names the artifacts written for one request.
type Output struct {
	// MarkdownPath is the markdown summary, always written on success.
	MarkdownPath string

	// SnapshotPath is the YAML snapshot, written only when snapshot output
	// is enabled. Empty otherwise.
	SnapshotPath string
}

// Handle runs one OCR request.
//
// Validation failures (empty path, missing file, directory) are reported
// as their distinct error kinds before any filesystem or recognition work
// beyond the stat. Any later failure is wrapped with the image path,
// logged to the error stream, and returned as a single uniform
// ErrProcessing error. Nothing is retried; no partial results are
// returned.
func (d *Dispatcher) Handle(imagePath, language string) (*Output, error) {
	if imagePath == "" {
		return nil, fmt.Errorf("%w: image_path must be a non-empty string", ErrInvalidArgument)
	}

	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		lang = d.defaultLanguage
	}

	info, err := os.Stat(imagePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, imagePath)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPath, imagePath)
	}

	out, err := d.process(imagePath, lang)
	if err != nil {
		wrapped := fmt.Errorf("%w: error processing image %s: %v", ErrProcessing, imagePath, err)
		log.Print(wrapped)
		return nil, wrapped
	}
	return out, nil
}

// process performs the post-validation work. The preprocessed temp file is
// removed on every exit path; removal errors are swallowed.
func (d *Dispatcher) process(imagePath, lang string) (*Output, error) {
	norm, err := d.normalizer.Normalize(imagePath)
	if err != nil {
		return nil, err
	}
	defer os.Remove(norm.TempPath)

	handle, err := d.recognizers.Get(lang)
	if err != nil {
		return nil, err
	}

	pages, err := handle.Recognize(norm.TempPath)
	if err != nil {
		return nil, err
	}

	texts := recognize.CollectTexts(pages)

	// The .md suffix is appended literally; photo.png becomes photo.png.md.
	mdPath := imagePath + ".md"
	doc := markdown.Render(imagePath, lang, texts)
	if err := os.WriteFile(mdPath, []byte(doc), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write markdown file: %w", err)
	}

	out := &Output{MarkdownPath: mdPath}

	if d.writeSnapshot {
		snapPath := imagePath + ".snapshot.log"
		snap, err := snapshot.Render(pages, imagePath, lang, snapshot.Geometry{
			OriginalWidth:   norm.OriginalWidth,
			OriginalHeight:  norm.OriginalHeight,
			ProcessedWidth:  norm.Width,
			ProcessedHeight: norm.Height,
		})
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(snapPath, []byte(snap), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write snapshot file: %w", err)
		}
		out.SnapshotPath = snapPath
	}

	return out, nil
}
