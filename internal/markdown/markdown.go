// Package markdown renders the OCR result document.
package markdown

import "strings"

// noTextPlaceholder is emitted when recognition found nothing.
const noTextPlaceholder = "- No text detected\n"

// Render produces the markdown summary for a recognition run. The template
// is fixed: a header, the source path and language in backticks, a rule,
// then one list item per recognized line (or a placeholder when the list is
// empty). Render is pure and deterministic.
func Render(imagePath, language string, texts []string) string {
	var b strings.Builder

	b.WriteString("# OCR Result\n\n")
	b.WriteString("**Source Image:** `" + imagePath + "`\n\n")
	b.WriteString("**Language:** `" + language + "`\n\n")
	b.WriteString("---\n\n")

	if len(texts) == 0 {
		b.WriteString(noTextPlaceholder)
		return b.String()
	}

	for _, t := range texts {
		b.WriteString("- " + t + "\n")
	}
	return b.String()
}
