package domain

import "errors"

var (
	// ErrMalformedQuestionSet indicates the model's synthesis output could
	// not be parsed into the expected pillar→questions shape. Fatal for
	// the scenario; transitions it to FAILED rather than retrying.
	ErrMalformedQuestionSet = errors.New("malformed question set")

	// ErrScenarioNotFound indicates a referenced scenario row does not exist.
	ErrScenarioNotFound = errors.New("scenario not found")

	// ErrReportNotFound indicates a referenced evaluation report row does
	// not exist. Fatal for an evaluation run.
	ErrReportNotFound = errors.New("evaluation report not found")

	// ErrQuestionNotFound indicates a referenced report question row does
	// not exist.
	ErrQuestionNotFound = errors.New("report question not found")

	// ErrInvalidTransition indicates an attempt to move an entity to a
	// status its current status does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")
)
