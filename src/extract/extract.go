// Package extract defines the capability that maps a captured image to its
// question/answer text, independent of how the engine is invoked.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"scrollsnap/src/llm"
)

var (
	// ErrTimeout is returned when the engine exceeds its deadline.
	ErrTimeout = errors.New("extraction timed out")
	// ErrFailed is returned when the engine exits non-zero or cannot run.
	ErrFailed = errors.New("extraction failed")
	// ErrEmpty is returned when the engine ran but produced no usable field.
	ErrEmpty = errors.New("extraction returned no text")
)

// Extraction is the engine's parsed output. Either field may be empty.
type Extraction struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Pick chooses which field to keep: the answer when preferAnswer is set and
// one exists, otherwise the question, otherwise the answer.
func (e Extraction) Pick(preferAnswer bool) string {
	if preferAnswer && e.Answer != "" {
		return e.Answer
	}
	if e.Question != "" {
		return e.Question
	}
	return e.Answer
}

// Extractor maps an image file to extracted text.
type Extractor interface {
	Extract(ctx context.Context, imagePath string) (Extraction, error)
}

// Parse decodes engine output. Unparseable or field-less output maps to
// ErrEmpty so callers can fall through to OCR.
func Parse(output []byte) (Extraction, error) {
	var ex Extraction
	if err := json.Unmarshal(output, &ex); err != nil {
		return Extraction{}, fmt.Errorf("%w: %v", ErrEmpty, err)
	}
	if ex.Question == "" && ex.Answer == "" {
		return Extraction{}, ErrEmpty
	}
	return ex, nil
}

// CommandExtractor invokes an external process that prints an extraction
// JSON object on stdout. The image path is appended to the argv.
type CommandExtractor struct {
	Argv []string
}

func (c CommandExtractor) Extract(ctx context.Context, imagePath string) (Extraction, error) {
	if len(c.Argv) == 0 {
		return Extraction{}, fmt.Errorf("%w: no extractor command configured", ErrFailed)
	}

	args := append(append([]string{}, c.Argv[1:]...), "--image", imagePath)
	cmd := exec.CommandContext(ctx, c.Argv[0], args...)
	out, err := cmd.Output()
	if ctx.Err() == context.DeadlineExceeded {
		return Extraction{}, ErrTimeout
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Extraction{}, fmt.Errorf("%w: exit code %d: %s", ErrFailed, exitErr.ExitCode(), exitErr.Stderr)
		}
		return Extraction{}, fmt.Errorf("%w: %v", ErrFailed, err)
	}

	return Parse(out)
}

// LLMExtractor sends the image to the vision model configured in src/llm.
type LLMExtractor struct{}

func (LLMExtractor) Extract(ctx context.Context, imagePath string) (Extraction, error) {
	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return Extraction{}, fmt.Errorf("%w: %v", ErrFailed, err)
	}

	type result struct {
		text string
		err  error
	}
	resCh := make(chan result, 1)
	go func() {
		text, err := llm.QueryVision(imageData)
		resCh <- result{text: text, err: err}
	}()

	select {
	case r := <-resCh:
		if r.err != nil {
			return Extraction{}, fmt.Errorf("%w: %v", ErrFailed, r.err)
		}
		return Parse([]byte(r.text))
	case <-ctx.Done():
		return Extraction{}, ErrTimeout
	}
}
