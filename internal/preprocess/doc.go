// Package preprocess normalizes input images before text recognition.
//
// Recognition quality and speed both depend on the input: oversized photos
// slow detection down dramatically, transparency confuses binarization, and
// soft edges lose thin strokes. The Normalizer addresses all three with a
// fixed pipeline: flatten to opaque three-channel color, bound the larger
// dimension, then sharpen.
//
// The output is always a temporary JPEG file, because the recognizer
// consumes file paths rather than in-memory images. Callers must delete the
// temp file when done:
//
//	norm := preprocess.New(1920, 95)
//	n, err := norm.Normalize("/path/to/photo.png")
//	if err != nil {
//	    return err
//	}
//	defer os.Remove(n.TempPath)
//
// All steps are deterministic; the same input always produces the same
// output dimensions.
package preprocess
