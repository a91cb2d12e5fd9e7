// Package llm provides the OpenAI-compatible chat and embedding client.
package llm

import "errors"

var (
	// ErrProviderUnavailable indicates the LLM provider is unreachable
	ErrProviderUnavailable = errors.New("llm provider unavailable")

	// ErrInvalidResponse indicates the completion response is malformed
	ErrInvalidResponse = errors.New("invalid llm response")

	// ErrNoChoices indicates the provider returned an empty choice list
	ErrNoChoices = errors.New("llm response contained no choices")

	// ErrAuthenticationFailed indicates the API key was rejected
	ErrAuthenticationFailed = errors.New("llm authentication failed")

	// ErrRateLimited indicates the provider rejected the request for quota
	ErrRateLimited = errors.New("llm rate limit exceeded")

	// ErrNoJSONPayload indicates no JSON object could be extracted from a completion
	ErrNoJSONPayload = errors.New("no json payload in completion")
)
