// Package snapshot renders recognition results as a YAML accessibility
// snapshot, the second artifact the server can write next to the markdown
// summary. Each node carries a unique "ref-" identifier; text nodes carry
// bounding boxes converted back to original-image coordinates.
package snapshot

import (
	"bytes"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ocrtools/paddleocr-mcp/internal/recognize"
)

// Node is one element of the snapshot tree.
type Node struct {
	Role     string  `yaml:"role"`
	Ref      string  `yaml:"ref,omitempty"`
	Name     string  `yaml:"name,omitempty"`
	BBox     *BBox   `yaml:"bbox,omitempty"`
	Children []*Node `yaml:"children,omitempty"`
}

// BBox is a rectangular bounding box in original-image pixel coordinates.
type BBox struct {
	XMin int `yaml:"x_min"`
	YMin int `yaml:"y_min"`
	XMax int `yaml:"x_max"`
	YMax int `yaml:"y_max"`
}

// Geometry describes the size relationship between the original image and
// the preprocessed copy the recognizer actually saw. Box coordinates are
// scaled by the ratio of the two; equal sizes mean identity.
type Geometry struct {
	OriginalWidth   int
	OriginalHeight  int
	ProcessedWidth  int
	ProcessedHeight int
}

const refAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// newRef generates a snapshot reference ID of the form ref-xxxxxxxxxxx.
func newRef() string {
	var b strings.Builder
	b.WriteString("ref-")
	for i := 0; i < 11; i++ {
		b.WriteByte(refAlphabet[rand.Intn(len(refAlphabet))])
	}
	return b.String()
}

// Render produces the YAML snapshot document for a recognition run.
func Render(pages []recognize.Page, imagePath, language string, geom Geometry) (string, error) {
	root := &Node{
		Role: "generic",
		Ref:  newRef(),
		Name: "OCR Result: " + filepath.Base(imagePath),
		Children: []*Node{
			{
				Role: "generic",
				Ref:  newRef(),
				Children: []*Node{
					{Role: "text", Name: "Source Image: " + imagePath, Ref: newRef()},
					{Role: "text", Name: "Language: " + language, Ref: newRef()},
				},
			},
		},
	}

	for _, page := range pages {
		texts := recognize.ExtractTexts(page)
		if len(texts) == 0 {
			continue
		}
		boxes := recognize.ExtractBoxes(page)

		container := &Node{Role: "generic", Ref: newRef()}
		for i, text := range texts {
			node := &Node{
				Role: "text",
				Name: strings.TrimSpace(text),
				Ref:  newRef(),
			}
			if i < len(boxes) {
				node.BBox = convertBox(boxes[i], geom)
			}
			container.Children = append(container.Children, node)
		}
		if len(container.Children) > 0 {
			root.Children = append(root.Children, container)
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode([]*Node{root}); err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return buf.String(), nil
}

// convertBox scales a box from preprocessed-image coordinates back into
// original-image coordinates.
func convertBox(b recognize.Box, g Geometry) *BBox {
	if g.ProcessedWidth == g.OriginalWidth && g.ProcessedHeight == g.OriginalHeight {
		return &BBox{XMin: b.XMin, YMin: b.YMin, XMax: b.XMax, YMax: b.YMax}
	}
	if g.ProcessedWidth <= 0 || g.ProcessedHeight <= 0 {
		return &BBox{XMin: b.XMin, YMin: b.YMin, XMax: b.XMax, YMax: b.YMax}
	}

	scaleX := float64(g.OriginalWidth) / float64(g.ProcessedWidth)
	scaleY := float64(g.OriginalHeight) / float64(g.ProcessedHeight)
	return &BBox{
		XMin: int(float64(b.XMin) * scaleX),
		YMin: int(float64(b.YMin) * scaleY),
		XMax: int(float64(b.XMax) * scaleX),
		YMax: int(float64(b.YMax) * scaleY),
	}
}
