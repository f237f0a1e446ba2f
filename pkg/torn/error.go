package torn

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// redactedKey stands in for the API key in error messages.
const redactedKey = "REDACTED"

// UpstreamError reports that the Torn API was unreachable or answered with a
// non-success status. It is the only failure kind the gateway surfaces.
type UpstreamError struct {
	Endpoint   Endpoint
	StatusCode int
	Cause      error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: upstream returned %d %s", e.Endpoint, e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Endpoint, e.Cause)
	}
	return fmt.Sprintf("%s: upstream unavailable", e.Endpoint)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// Timeout reports whether the failure was a deadline being exceeded.
func (e *UpstreamError) Timeout() bool {
	var t interface{ Timeout() bool }
	return errors.As(e.Cause, &t) && t.Timeout()
}

// redact strips the key query parameter from URLs carried by err.
func redact(err error) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}

	return &url.Error{
		Op:  uerr.Op,
		URL: redactURL(uerr.URL),
		Err: uerr.Err,
	}
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable url>"
	}

	q := u.Query()
	if q.Has("key") {
		q.Set("key", redactedKey)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// APIError is the error object Torn embeds in an HTTP 200 body.
type APIError struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

// EmbeddedError returns the error object Torn placed in body, if any.
func EmbeddedError(body []byte) (*APIError, bool) {
	var envelope struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error == nil {
		return nil, false
	}
	return envelope.Error, true
}
