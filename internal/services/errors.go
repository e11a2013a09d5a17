package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingField marks a row that lacks its sequence or shot identity.
	// The normalizer skips such rows and keeps going.
	ErrMissingField = errors.New("missing field")
	// ErrParse marks a numeric or timecode field that cannot be parsed.
	// Grouping aborts for the whole batch; partial aggregation would be
	// silently wrong downstream.
	ErrParse = errors.New("parse error")
	// ErrLookup marks a tracking-database query failure. Resolution aborts
	// with no local fallback.
	ErrLookup = errors.New("tracking database unavailable")
	// ErrExternalTool marks a conversion-tool invocation failure.
	ErrExternalTool = errors.New("external tool error")
	// ErrValidation marks input that fails a pre-flight check.
	ErrValidation = errors.New("validation error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrValidation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether an error must abort the whole batch. Missing-field
// errors are row-local; everything else stops the run.
func Fatal(err error) bool {
	return err != nil && !errors.Is(err, ErrMissingField)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
