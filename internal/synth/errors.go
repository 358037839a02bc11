package synth

import (
	"fmt"
	"net/http"
	"strings"
)

// SynthesisError carries the service's structured failure detail so operators
// see the real reason, not a swallowed wrapper.
type SynthesisError struct {
	Status    int    // HTTP status of the failed attempt
	Code      string // service error code header, when present
	Detail    string // response body, trimmed
	Retriable bool
}

func (e *SynthesisError) Error() string {
	kind := "permanent"
	if e.Retriable {
		kind = "transient"
	}
	msg := fmt.Sprintf("synthesis failed (%s): status=%d", kind, e.Status)
	if e.Code != "" {
		msg += " code=" + e.Code
	}
	if e.Detail != "" {
		msg += " detail=" + e.Detail
	}
	return msg
}

// retriableKeywords classify cancellation reasons that indicate throttling or
// transient infrastructure failure.
var retriableKeywords = []string{
	"timeout", "throttle", "429", "temporarily", "connection",
	"network", "quota", "rate limit", "server busy",
}

func classify(status int, detail string) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests,
		http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	d := strings.ToLower(detail)
	for _, k := range retriableKeywords {
		if strings.Contains(d, k) {
			return true
		}
	}
	return false
}
