package experiment

import "errors"

// Configuration errors. Each is fatal to the call that raised it and
// leaves the experiment usable.
var (
	// ErrNameLength indicates an experiment name over 10 characters.
	ErrNameLength = errors.New("experiment: name exceeds 10 characters")

	// ErrTagLength indicates an axis tag over 10 characters.
	ErrTagLength = errors.New("experiment: tag exceeds 10 characters")

	// ErrDescriptionLength indicates a description over 100 characters.
	ErrDescriptionLength = errors.New("experiment: description exceeds 100 characters")

	// ErrRepetitionCount indicates a repetition count below 1.
	ErrRepetitionCount = errors.New("experiment: repetitions must be at least 1")

	// ErrInvalidHorizon indicates a non-positive simulation horizon.
	ErrInvalidHorizon = errors.New("experiment: horizon must be positive")

	// ErrInvalidStep indicates a non-positive step size.
	ErrInvalidStep = errors.New("experiment: step size must be positive")

	// ErrNilPayload indicates a nil model, controller, disturbance or
	// observable passed to an axis-add method.
	ErrNilPayload = errors.New("experiment: nil payload")
)
