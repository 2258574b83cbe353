package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotAuthenticated is returned before any request is sent when the
	// token source has no access token.
	ErrNotAuthenticated = errors.New("not authenticated - no JWT found")
	// ErrNoRows is returned by single-row reads that matched nothing.
	ErrNoRows = errors.New("no rows returned")
)

const defaultFailureMessage = "Function call failed"

// RemoteError is a non-2xx reply from the backend. Message is suitable for
// showing to the player.
type RemoteError struct {
	Procedure string
	Status    int
	Code      string
	Message   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s failed (%d): %s", e.Procedure, e.Status, e.Message)
}

// DecodeError is a 2xx reply whose payload did not match the expected shape.
type DecodeError struct {
	Procedure string
	Err       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode response: %v", e.Procedure, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Message returns the player-facing text for err.
func Message(err error) string {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// errorPayload covers the edge function ({"error": ...}) and PostgREST
// ({"message": ..., "code": ...}) error bodies.
type errorPayload struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

func newRemoteError(procedure string, status int, body []byte, isJSON bool) *RemoteError {
	re := &RemoteError{Procedure: procedure, Status: status, Message: defaultFailureMessage}
	if !isJSON {
		if text := strings.TrimSpace(string(body)); text != "" {
			re.Message = text
		}
		return re
	}

	var text string
	if json.Unmarshal(body, &text) == nil {
		if text != "" {
			re.Message = text
		}
		return re
	}

	var p errorPayload
	if json.Unmarshal(body, &p) != nil {
		return re
	}
	re.Code = p.Code
	var errText string
	switch {
	case json.Unmarshal(p.Error, &errText) == nil && errText != "":
		re.Message = errText
	case p.Message != "":
		re.Message = p.Message
	}
	return re
}
