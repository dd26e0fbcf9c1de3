package recognize

import (
	"reflect"
	"strings"
)

// Page is one unit of recognizer output. Backends differ in what they
// return, so pages are resolved through ExtractTexts rather than a fixed
// struct.
type Page any

// Handle runs recognition for a single configured language. Handles are
// shared across requests and must be safe to call repeatedly.
type Handle interface {
	// Recognize runs text recognition on the image file at the given path.
	// An image with no detectable text yields pages with empty text lists,
	// not an error.
	Recognize(imagePath string) ([]Page, error)
}

// TextLister is the capability a page can implement to expose its
// recognized text lines directly.
type TextLister interface {
	RecTexts() []string
}

// BoxLister is the optional capability a page can implement to expose a
// bounding box per recognized line, parallel to RecTexts.
type BoxLister interface {
	RecBoxes() []Box
}

// Box is a rectangular bounding box in preprocessed-image pixel coordinates.
type Box struct {
	XMin int
	YMin int
	XMax int
	YMax int
}

// Result is the concrete page type produced by the built-in backends.
type Result struct {
	// Texts holds the recognized lines in reading order.
	Texts []string

	// Boxes holds one bounding box per line when the backend provides
	// geometry. It is either empty or parallel to Texts.
	Boxes []Box
}

// RecTexts implements TextLister.
func (r *Result) RecTexts() []string { return r.Texts }

// RecBoxes implements BoxLister.
func (r *Result) RecBoxes() []Box { return r.Boxes }

// textListKey is the field name the map and struct shapes are probed for.
const textListKey = "rec_texts"

// ExtractTexts resolves the recognized-text list from a page, whichever
// shape the backend produced: a TextLister, a generic map keyed
// "rec_texts", or a struct (or pointer to one) with an exported RecTexts
// field. The shape decision happens here, once, at the boundary.
//
// Entries that are empty after trimming are dropped; the rest are returned
// in their original order and with their original spacing. A page whose
// list resolves to a single non-empty string yields that string alone.
// Unrecognized shapes yield nil.
func ExtractTexts(page Page) []string {
	switch v := page.(type) {
	case nil:
		return nil
	case TextLister:
		return filterTexts(v.RecTexts())
	case map[string]any:
		return textsFromValue(v[textListKey])
	case map[string][]string:
		return filterTexts(v[textListKey])
	case map[string]string:
		return textsFromValue(v[textListKey])
	}
	return textsFromValue(structField(page, "RecTexts"))
}

// ExtractBoxes resolves per-line bounding boxes from a page, or nil when
// the page carries no geometry.
func ExtractBoxes(page Page) []Box {
	if v, ok := page.(BoxLister); ok {
		return v.RecBoxes()
	}
	return nil
}

// CollectTexts aggregates the texts of all pages in order.
func CollectTexts(pages []Page) []string {
	var texts []string
	for _, p := range pages {
		texts = append(texts, ExtractTexts(p)...)
	}
	return texts
}

// textsFromValue normalizes a resolved field value into a text list.
func textsFromValue(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		return filterTexts(t)
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return []string{t}
	case []any:
		texts := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok && strings.TrimSpace(s) != "" {
				texts = append(texts, s)
			}
		}
		return texts
	}
	return nil
}

// structField reads an exported field by name from a struct or struct
// pointer, returning nil for any other shape.
func structField(page Page, name string) any {
	rv := reflect.ValueOf(page)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	f := rv.FieldByName(name)
	if !f.IsValid() || !f.CanInterface() {
		return nil
	}
	return f.Interface()
}

// filterTexts drops entries that are empty after trimming, preserving the
// original values and order of the rest.
func filterTexts(texts []string) []string {
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			out = append(out, t)
		}
	}
	return out
}
