// Package recognize manages text-recognition backends and their results.
//
// A Handle wraps one recognizer configured for one language. Handles are
// expensive to construct (model loading), so the Cache builds each one
// lazily on first request and keeps it for the process lifetime. The cache
// only grows; unbounded growth across many distinct languages is an
// accepted limitation.
//
// Recognizer output is deliberately loose: different backends expose the
// recognized text list as a method, a map entry, or a struct field.
// ExtractTexts resolves all three shapes in one place so the rest of the
// pipeline works with plain string slices.
//
// The built-in backend is tesseract via gosseract. Wire-level language
// codes follow the PaddleOCR convention ("ch", "en", "japan", ...) and are
// translated to traineddata names internally.
package recognize
