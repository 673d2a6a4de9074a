package cli

import (
	"errors"
	"fmt"

	"github.com/roach88/evgen/internal/artifact"
	"github.com/roach88/evgen/internal/compiler"
	"github.com/roach88/evgen/internal/helpers"
	"github.com/roach88/evgen/internal/schema"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric          = "E001" // Generic/unknown error
	ErrCodeNotFound         = "E005" // Definition not found
	ErrCodeWriteFailed      = "E007" // File write error
	ErrCodeInvalidRoot      = "E010" // Everest or framework directory invalid
	ErrCodeSchemaValidation = "E011" // Definition violates its schema
	ErrCodeTypeMapping      = "E012" // Type declaration cannot be mapped
	ErrCodeInvalidArgument  = "E013" // Bad command-line argument
)

// InvalidRootError reports a root directory missing its expected subdirectory.
type InvalidRootError struct {
	Flag    string // flag that supplies the directory, e.g. "--everest-dir"
	Dir     string
	Missing string // required subdirectory
}

func (e *InvalidRootError) Error() string {
	return fmt.Sprintf("directory %s (set via %s) does not contain a %q directory and does not seem to be valid", e.Dir, e.Flag, e.Missing)
}

// InvalidArgumentError reports an argument value that cannot be used.
type InvalidArgumentError struct {
	Arg    string
	Value  string
	Reason string
	Err    error
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Arg, e.Value, e.Reason)
}

func (e *InvalidArgumentError) Unwrap() error {
	return e.Err
}

// errorCode maps an error to the code reported to the user.
func errorCode(err error) string {
	var (
		rootErr     *InvalidRootError
		argErr      *InvalidArgumentError
		notFound    *compiler.DefinitionNotFoundError
		validation  *schema.ValidationError
		typeMapping *compiler.TypeMappingError
		identifiers compiler.ValidationErrors
		categoryErr *artifact.UnknownCategoryError
	)
	switch {
	case errors.As(err, &rootErr):
		return ErrCodeInvalidRoot
	case errors.As(err, &argErr), errors.As(err, &categoryErr), errors.Is(err, helpers.ErrInvalidCount):
		return ErrCodeInvalidArgument
	case errors.As(err, &notFound):
		return ErrCodeNotFound
	case errors.As(err, &validation):
		return ErrCodeSchemaValidation
	case errors.As(err, &typeMapping):
		return ErrCodeTypeMapping
	case errors.As(err, &identifiers) && len(identifiers) > 0:
		return identifiers[0].Code
	default:
		return ErrCodeGeneric
	}
}

// fail reports err through the formatter and returns the ExitError the
// command should return. Every fatal error exits with ExitFailure.
func fail(f *OutputFormatter, message string, err error) error {
	code := errorCode(err)
	if outErr := f.Error(code, fmt.Sprintf("%s: %v", message, err), nil); outErr != nil {
		return outErr
	}
	return WrapExitError(ExitFailure, message, err)
}
