package snapshot

import (
	"regexp"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/ocrtools/paddleocr-mcp/internal/recognize"
)

var refPattern = regexp.MustCompile(`^ref-[a-z0-9]{11}$`)

func identityGeometry() Geometry {
	return Geometry{
		OriginalWidth: 800, OriginalHeight: 600,
		ProcessedWidth: 800, ProcessedHeight: 600,
	}
}

// decodeSnapshot parses the rendered YAML back into the node tree.
func decodeSnapshot(t *testing.T, doc string) []*Node {
	t.Helper()

	var nodes []*Node
	if err := yaml.Unmarshal([]byte(doc), &nodes); err != nil {
		t.Fatalf("snapshot does not parse as YAML: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("expected a single root node, got %d", len(nodes))
	}
	return nodes
}

func TestRender_Structure(t *testing.T) {
	pages := []recognize.Page{
		&recognize.Result{Texts: []string{"Hello", "World"}},
	}

	doc, err := Render(pages, "/tmp/photo.png", "ch", identityGeometry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	root := decodeSnapshot(t, doc)[0]
	if root.Name != "OCR Result: photo.png" {
		t.Errorf("root name: got %q", root.Name)
	}
	if root.Role != "generic" {
		t.Errorf("root role: got %q", root.Role)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected metadata and text containers, got %d children", len(root.Children))
	}

	meta := root.Children[0]
	if len(meta.Children) != 2 {
		t.Fatalf("expected two metadata nodes, got %d", len(meta.Children))
	}
	if meta.Children[0].Name != "Source Image: /tmp/photo.png" {
		t.Errorf("source node: got %q", meta.Children[0].Name)
	}
	if meta.Children[1].Name != "Language: ch" {
		t.Errorf("language node: got %q", meta.Children[1].Name)
	}

	texts := root.Children[1]
	if len(texts.Children) != 2 {
		t.Fatalf("expected two text nodes, got %d", len(texts.Children))
	}
	if texts.Children[0].Name != "Hello" || texts.Children[1].Name != "World" {
		t.Errorf("text nodes: got %q, %q", texts.Children[0].Name, texts.Children[1].Name)
	}
}

func TestRender_RefFormat(t *testing.T) {
	pages := []recognize.Page{
		&recognize.Result{Texts: []string{"a"}},
	}

	doc, err := Render(pages, "img.png", "en", identityGeometry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := map[string]bool{}
	var walk func(n *Node)
	walk = func(n *Node) {
		if !refPattern.MatchString(n.Ref) {
			t.Errorf("bad ref format: %q", n.Ref)
		}
		if seen[n.Ref] {
			t.Errorf("duplicate ref: %q", n.Ref)
		}
		seen[n.Ref] = true
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(decodeSnapshot(t, doc)[0])
}

func TestRender_BoxScaling(t *testing.T) {
	pages := []recognize.Page{
		&recognize.Result{
			Texts: []string{"scaled"},
			Boxes: []recognize.Box{{XMin: 100, YMin: 50, XMax: 300, YMax: 150}},
		},
	}
	geom := Geometry{
		OriginalWidth: 3840, OriginalHeight: 2000,
		ProcessedWidth: 1920, ProcessedHeight: 1000,
	}

	doc, err := Render(pages, "big.png", "en", geom)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	root := decodeSnapshot(t, doc)[0]
	bbox := root.Children[1].Children[0].BBox
	if bbox == nil {
		t.Fatal("expected a bounding box")
	}
	want := BBox{XMin: 200, YMin: 100, XMax: 600, YMax: 300}
	if *bbox != want {
		t.Errorf("bbox: got %+v, want %+v", *bbox, want)
	}
}

func TestRender_IdentityGeometry(t *testing.T) {
	pages := []recognize.Page{
		&recognize.Result{
			Texts: []string{"same"},
			Boxes: []recognize.Box{{XMin: 10, YMin: 20, XMax: 30, YMax: 40}},
		},
	}

	doc, err := Render(pages, "small.png", "en", identityGeometry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	root := decodeSnapshot(t, doc)[0]
	bbox := root.Children[1].Children[0].BBox
	want := BBox{XMin: 10, YMin: 20, XMax: 30, YMax: 40}
	if bbox == nil || *bbox != want {
		t.Errorf("bbox: got %+v, want %+v", bbox, want)
	}
}

func TestRender_EmptyPages(t *testing.T) {
	doc, err := Render(nil, "empty.png", "ch", identityGeometry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	root := decodeSnapshot(t, doc)[0]
	if len(root.Children) != 1 {
		t.Errorf("expected only the metadata container, got %d children", len(root.Children))
	}
	if !strings.Contains(doc, "OCR Result: empty.png") {
		t.Errorf("missing root name:\n%s", doc)
	}
}

func TestRender_SkipsBlankTexts(t *testing.T) {
	pages := []recognize.Page{
		&recognize.Result{Texts: []string{"  padded  ", "kept"}},
	}

	doc, err := Render(pages, "x.png", "en", identityGeometry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	root := decodeSnapshot(t, doc)[0]
	texts := root.Children[1].Children
	if texts[0].Name != "padded" {
		t.Errorf("expected trimmed node name, got %q", texts[0].Name)
	}
}
