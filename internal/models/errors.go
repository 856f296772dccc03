package models

import "fmt"

// InvalidInputError reports malformed caller input, such as a video URL no
// supported shape matches. Raised before any network call is made.
type InvalidInputError struct {
	Detail string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Detail
}

// ExternalAPIError reports an upstream YouTube API failure. Reason carries the
// upstream machine-readable reason (e.g. "quotaExceeded") untransformed;
// Message is the upstream human-readable detail.
type ExternalAPIError struct {
	StatusCode int
	Reason     string
	Message    string
}

func (e *ExternalAPIError) Error() string {
	switch {
	case e.Reason != "":
		return fmt.Sprintf("youtube API error %d (%s): %s", e.StatusCode, e.Reason, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("youtube API error %d: %s", e.StatusCode, e.Message)
	}
	// Transport failures never reach the API, so there is no status code.
	return "youtube API error: " + e.Message
}

// UnsupportedFormatError reports an export kind outside the supported enum.
type UnsupportedFormatError struct {
	Kind string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported export format %q", e.Kind)
}

// EmptyInputError reports an export attempted with zero records while the
// caller opted into a non-empty policy.
type EmptyInputError struct{}

func (e *EmptyInputError) Error() string {
	return "no comment records to export"
}
