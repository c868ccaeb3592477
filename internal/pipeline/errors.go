package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCompute tags a failure inside the scoring function. It is caught per
// item inside a worker and never terminates the worker's loop.
var ErrCompute = errors.New("compute error")

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification with errors.Is.
func Wrap(marker error, stage, operation string, err error) error {
	parts := make([]string, 0, 2)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	detail := strings.Join(parts, ": ")
	if detail == "" {
		detail = "pipeline failure"
	}
	if marker == nil {
		if err != nil {
			return fmt.Errorf("%s: %w", detail, err)
		}
		return errors.New(detail)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}
