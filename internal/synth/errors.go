package synth

import "errors"

var (
	// ErrMissingPrompt rejects a request with an empty or absent prompt.
	ErrMissingPrompt = errors.New("missing prompt")

	// ErrAllHelpersFailed means every helper seat failed or returned blank
	// output, leaving nothing to synthesize.
	ErrAllHelpersFailed = errors.New("all helper seats failed")
)

// SynthesisError wraps a failure of the final synthesis call. The underlying
// message is surfaced to the caller verbatim.
type SynthesisError struct {
	Err error
}

func (e *SynthesisError) Error() string {
	return e.Err.Error()
}

func (e *SynthesisError) Unwrap() error {
	return e.Err
}
