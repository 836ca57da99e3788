// Package ocr is the Tesseract fallback used when the primary extractor
// fails or is disabled.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// ErrUnavailable is returned when no usable tesseract installation exists.
var ErrUnavailable = errors.New("tesseract not available")

// RecognizeFile runs Tesseract over the image at path and returns the
// trimmed plain text.
func RecognizeFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImage(path); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return strings.TrimSpace(text), nil
}
