package backend

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// Kind classifies a failed backend call by how the dashboard must react to it.
type Kind int

const (
	// KindServer is any other non-2xx answer; its body message is shown verbatim.
	KindServer Kind = iota
	// KindUnauthorized (401) sends the user back to the login page.
	KindUnauthorized
	// KindRateLimited (429) shows the rate-limit notice.
	KindRateLimited
	// KindNetwork is a transport failure or an unreadable response.
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindRateLimited:
		return "rate_limited"
	case KindNetwork:
		return "network"
	default:
		return "server"
	}
}

const (
	MessageRateLimited  = "Too many requests. Please try again later."
	MessageUnexpected   = "An unexpected error occurred."
	MessageUnauthorized = "Your session has expired. Please log in again."
	MessageNetwork      = "Unable to reach the server. Please try again."
)

// APIError is returned by every Client method when the call did not succeed.
// None of the kinds are retried automatically.
type APIError struct {
	Kind    Kind
	Status  int
	Method  string
	Path    string
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend %s %s: %s: %v", e.Method, e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("backend %s %s returned status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// UserMessage is the text shown to the admin for this failure.
func (e *APIError) UserMessage() string {
	switch e.Kind {
	case KindUnauthorized:
		return MessageUnauthorized
	case KindRateLimited:
		return MessageRateLimited
	case KindNetwork:
		return MessageNetwork
	default:
		if strings.TrimSpace(e.Message) != "" {
			return e.Message
		}
		return MessageUnexpected
	}
}

// HTTPStatus is the status the dashboard answers with when relaying this failure.
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindNetwork:
		return http.StatusBadGateway
	default:
		if e.Status >= 400 {
			return e.Status
		}
		return http.StatusBadGateway
	}
}

// IsKind reports whether err is an *APIError of kind k.
func IsKind(err error, k Kind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == k
}

// UserMessage extracts the user-facing message from any error, falling back to
// the generic text for errors that did not come from the backend.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return MessageUnexpected
}

// MessageFromBody pulls the "message" field out of an error body.
func MessageFromBody(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	return strings.TrimSpace(gjson.GetBytes(body, "message").String())
}

func classify(status int) Kind {
	switch status {
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindServer
	}
}
