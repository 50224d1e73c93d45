package errors_test

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/concordhq/concord/pkg/errors"
)

func TestNoCandidatesError(t *testing.T) {
	err := errors.NewNoCandidatesError("ebitda")

	if !errors.IsNoCandidates(err) {
		t.Error("IsNoCandidates = false for NoCandidatesError")
	}
	if !stderrors.Is(err, errors.ErrNoCandidates) {
		t.Error("errors.Is does not match the sentinel")
	}
	if err.Error() == "" {
		t.Error("empty error message")
	}

	if errors.IsNoCandidates(stderrors.New("other")) {
		t.Error("IsNoCandidates = true for unrelated error")
	}
}

func TestValidationError(t *testing.T) {
	err := &errors.ValidationError{Field: "tolerance", Value: -1.0, Message: "cannot be negative"}

	if !errors.IsValidationError(err) {
		t.Error("IsValidationError = false for ValidationError")
	}
	msg := err.Error()
	if msg == "" {
		t.Fatal("empty error message")
	}
}

func TestNotFoundSentinel(t *testing.T) {
	err := fmt.Errorf("candidate file deals.yaml: %w", errors.ErrNotFound)

	if !errors.IsNotFound(err) {
		t.Error("IsNotFound = false for wrapped ErrNotFound")
	}
	if errors.IsNotFound(stderrors.New("other")) {
		t.Error("IsNotFound = true for unrelated error")
	}
}

func TestAPIKeySentinel(t *testing.T) {
	err := fmt.Errorf("llm parser unavailable: %w", errors.ErrAPIKeyRequired)

	if !errors.IsAPIKeyError(err) {
		t.Error("IsAPIKeyError = false for wrapped ErrAPIKeyRequired")
	}
	if errors.IsAPIKeyError(stderrors.New("other")) {
		t.Error("IsAPIKeyError = true for unrelated error")
	}
}

func TestWrappedErrorsUnwrap(t *testing.T) {
	cause := fs.ErrNotExist

	ioErr := errors.WrapIO("read", "/tmp/candidates.yaml", cause)
	if !stderrors.Is(ioErr, fs.ErrNotExist) {
		t.Error("IOError does not unwrap to its cause")
	}

	parseErr := errors.WrapParse("yaml", "/tmp/candidates.yaml", cause)
	if !stderrors.Is(parseErr, fs.ErrNotExist) {
		t.Error("ParseError does not unwrap to its cause")
	}
}

func TestConfigError(t *testing.T) {
	cause := stderrors.New("bad key")
	err := &errors.ConfigError{Component: "scoring", Message: "failed to decode", Err: cause}

	if !stderrors.Is(err, cause) {
		t.Error("ConfigError does not unwrap to its cause")
	}
	if err.Error() == "" {
		t.Error("empty error message")
	}
}

func TestExtractionError(t *testing.T) {
	err := &errors.ExtractionError{Parser: "llm", Message: "empty response"}
	if err.Error() == "" {
		t.Error("empty error message")
	}
}
