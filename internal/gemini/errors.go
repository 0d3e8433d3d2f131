package gemini

import "strings"

// FailureKind classifies a generation-service failure for user-facing
// messaging. Classification inspects the error text for recognizable API
// markers; anything else is Unknown.
type FailureKind string

const (
	QuotaExceeded     FailureKind = "quota_exceeded"
	AuthInvalid       FailureKind = "auth_invalid"
	ServerUnavailable FailureKind = "server_unavailable"
	Unknown           FailureKind = "unknown"
)

var failureMarkers = []struct {
	kind    FailureKind
	markers []string
}{
	{QuotaExceeded, []string{"resource_exhausted", "quota", "429", "rate limit"}},
	{AuthInvalid, []string{"api key", "unauthenticated", "permission_denied", "401", "403"}},
	{ServerUnavailable, []string{"unavailable", "overloaded", "deadline", "503", "500", "internal"}},
}

// Classify maps a service error to its failure kind.
func Classify(err error) FailureKind {
	if err == nil {
		return Unknown
	}
	msg := strings.ToLower(err.Error())
	for _, f := range failureMarkers {
		for _, m := range f.markers {
			if strings.Contains(msg, m) {
				return f.kind
			}
		}
	}
	return Unknown
}

// Message renders a failure kind as a short user-facing string.
func Message(kind FailureKind) string {
	switch kind {
	case QuotaExceeded:
		return "The generation service quota is exhausted. Try again later."
	case AuthInvalid:
		return "The generation service rejected the API credentials."
	case ServerUnavailable:
		return "The generation service is temporarily unavailable."
	default:
		return "The generation service failed unexpectedly."
	}
}
