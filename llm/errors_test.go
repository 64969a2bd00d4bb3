package llm

import (
	"errors"
	"testing"
)

func TestIsRetryableClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil", nil, false},
		{"authentication", &AuthenticationError{}, false},
		{"access denied", &AccessDeniedError{}, false},
		{"invalid request", &InvalidRequestError{}, false},
		{"context length", &ContextLengthError{}, false},
		{"configuration", &ConfigurationError{}, false},
		{"abort", &AbortError{}, false},
		{"rate limit", &RateLimitError{}, true},
		{"server", &ServerError{}, true},
		{"network", &NetworkError{}, true},
		{"timeout", &RequestTimeoutError{}, true},
		{"unknown", errors.New("mystery"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.retryable {
				t.Errorf("IsRetryable(%T) = %v, want %v", tt.err, got, tt.retryable)
			}
		})
	}
}

func TestProviderErrorRetryableField(t *testing.T) {
	err := &ProviderError{
		BackendError: BackendError{Message: "provider hiccup"},
		Provider:     "openai",
		Retryable:    true,
	}
	if !IsRetryable(err) {
		t.Error("Retryable field must drive classification")
	}
	err.Retryable = false
	if IsRetryable(err) {
		t.Error("Retryable=false must not be retried")
	}
}

func TestBackendErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := &NetworkError{BackendError: BackendError{Message: "network failure", Cause: cause}}
	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose the cause")
	}
}
