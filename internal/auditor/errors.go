package auditor

import "errors"

// DefaultErrorMessage is the one public message for every failure that is not an input error.
const DefaultErrorMessage = "axe audit encountered an error. Check the config and try to re run again."

var (
	// ErrAudit matches every *AuditError via errors.Is.
	ErrAudit = errors.New(DefaultErrorMessage)

	ErrTagsNotList      = errors.New("AnalyzeWithTags requires input tags as a list")
	ErrContextNotList   = errors.New("AnalyzeWithContext requires input context as a list")
	ErrRulesTagsNotList = errors.New("Rules requires input tags as a list")
	ErrConfigNotObject  = errors.New("Configure requires input config as an object")
)

// AuditError hides the failure cause behind DefaultErrorMessage while keeping it reachable through Unwrap.
type AuditError struct {
	Op  string
	Err error
}

func (e *AuditError) Error() string {
	return DefaultErrorMessage
}

func (e *AuditError) Unwrap() error {
	return e.Err
}

func (e *AuditError) Is(target error) bool {
	return target == ErrAudit
}

// IsInputError reports whether err is one of the caller input errors.
func IsInputError(err error) bool {
	return errors.Is(err, ErrTagsNotList) ||
		errors.Is(err, ErrContextNotList) ||
		errors.Is(err, ErrRulesTagsNotList) ||
		errors.Is(err, ErrConfigNotObject)
}
