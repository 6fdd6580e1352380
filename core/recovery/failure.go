package recovery

import (
	"errors"
	"fmt"

	"github.com/leofalp/airecover/internal/utils"
)

// Stage names the pipeline step that produced a [Failure].
type Stage string

const (
	StageInput    Stage = "input"
	StageBoundary Stage = "boundary"
	StageParse    Stage = "parse"
)

// Failure classes. Use errors.Is against a returned error to tell them apart.
var (
	// ErrEmptyInput is reported for empty or whitespace-only text.
	ErrEmptyInput = errors.New("empty or invalid input")
	// ErrBoundaryNotFound is reported when no opening delimiter exists in the text.
	ErrBoundaryNotFound = errors.New("no structural delimiter found")
	// ErrSyntaxUnrecoverable is reported when every parse attempt failed.
	ErrSyntaxUnrecoverable = errors.New("syntax unrecoverable")
)

// excerptLength bounds the text copied into a Failure.
const excerptLength = utils.DefaultMaxStringLength

// Failure is the typed error returned by [Recover]. Kind is one of the
// package's sentinel errors; Err, when set, is the underlying parser error.
type Failure struct {
	Stage   Stage
	Kind    error
	Excerpt string
	Err     error
}

func newFailure(stage Stage, kind error, text string, cause error) *Failure {
	return &Failure{
		Stage:   stage,
		Kind:    kind,
		Excerpt: utils.TruncateString(text, excerptLength),
		Err:     cause,
	}
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("recovery failed at %s stage: %v", f.Stage, f.Kind)
	}
	return fmt.Sprintf("recovery failed at %s stage: %v: %v", f.Stage, f.Kind, f.Err)
}

// Is reports whether target is the failure's class.
func (f *Failure) Is(target error) bool {
	return target != nil && target == f.Kind
}

// Unwrap returns the underlying parser error, if any.
func (f *Failure) Unwrap() error {
	return f.Err
}
