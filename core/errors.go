package core

import "errors"

// Error taxonomy for the extraction pipelines. A schema violation or empty
// input aborts the current query; a malformed timestamp aborts the current
// issue's sprint time computation. None of them abort the overall batch run.
var (
	// ErrSchemaViolation means a requested field is absent from the issue's
	// field set entirely. This is a configuration or programming error; the
	// caller must pre-filter fields or ensure schema compatibility.
	ErrSchemaViolation = errors.New("field absent from tracker schema")

	// ErrEmptyInput means an issue carried no sprint memberships where the
	// filtered dataset guarantees at least one.
	ErrEmptyInput = errors.New("no sprint memberships")

	// ErrNoData means an extraction produced zero rows. Persistence has no
	// valid operation on an empty result, so callers treat this as a run
	// failure for that query rather than a silent no-op.
	ErrNoData = errors.New("no data found for this query")

	// ErrMalformedTimestamp means a tracker timestamp did not match its
	// expected format.
	ErrMalformedTimestamp = errors.New("malformed timestamp")
)
