package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/heartmarshall/bugtracker/internal/domain"
)

// Messages for bodies that cannot be read as a bug field set.
const (
	msgMalformedBody  = "Request body must be a valid JSON object"
	msgBodyTooLarge   = "Request body is too large"
	msgUnreadableBody = "Request body could not be read"
)

// decodeDraft reads a JSON object body into a draft. Each known field
// records whether it was supplied and whether it was a string; null is
// treated as not supplied. Unknown fields are ignored. An empty body is
// an empty field set.
func decodeDraft(w http.ResponseWriter, r *http.Request, maxBytes int64) (domain.BugDraft, error) {
	var d domain.BugDraft

	body := r.Body
	if maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return d, domain.NewValidationError("body", msgBodyTooLarge)
		}
		return d, domain.NewValidationError("body", msgUnreadableBody)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return d, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return d, domain.NewValidationError("body", msgMalformedBody)
	}

	d.Title = decodeField(fields["title"])
	d.Description = decodeField(fields["description"])
	d.Reporter = decodeField(fields["reporter"])
	d.Status = decodeField(fields["status"])
	d.Priority = decodeField(fields["priority"])
	return d, nil
}

func decodeField(raw json.RawMessage) domain.Field {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return domain.Absent()
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return domain.Field{Present: true, WrongType: true}
	}
	return domain.Str(s)
}
