package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/metalagman/uamc/internal/secrets"
	"github.com/metalagman/uamc/internal/validate"
)

var (
	// ErrUnknownAdapter is returned when a requested target id is not registered.
	ErrUnknownAdapter = errors.New("unknown adapter")
	// ErrNoTargets is returned when neither the caller nor the document names a target.
	ErrNoTargets = errors.New("no compile targets")
	// ErrSecretsDetected is matched by errors.Is for *SecretsError.
	ErrSecretsDetected = errors.New("secrets detected")
	// ErrPathConflict is returned when two targets produce the same file path.
	ErrPathConflict = errors.New("output path produced by more than one target")
)

// ValidationError carries every issue found in the payload.
type ValidationError struct {
	Issues []validate.Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, is.String())
	}
	return fmt.Sprintf("document is invalid: %s", strings.Join(parts, "; "))
}

// SecretsError is returned under the block policy when the scan found secrets.
type SecretsError struct {
	Scan secrets.Result
}

func (e *SecretsError) Error() string {
	return fmt.Sprintf("%s: %d match(es)", ErrSecretsDetected, len(e.Scan.Matches))
}

func (e *SecretsError) Unwrap() error {
	return ErrSecretsDetected
}
