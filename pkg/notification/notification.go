// Package notification fetches and parses the reminder payload.
package notification

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrInvalidPayload is returned when a fetched document cannot be shown.
var ErrInvalidPayload = errors.New("invalid payload")

// Payload is a reminder as served by the remote endpoint.
type Payload struct {
	Title      string
	Message    string
	TimeoutMs  int
	ShowForm   bool
	WebsiteURL string
	DiffDays   int
}

// ParsePayload parses a fetched document. Numeric fields may be JSON numbers
// or numeric strings; showForm may be a bool or a bool string.
func ParsePayload(body []byte) (Payload, error) {
	if !gjson.ValidBytes(body) {
		return Payload{}, fmt.Errorf("%w: malformed JSON", ErrInvalidPayload)
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return Payload{}, fmt.Errorf("%w: document is not an object", ErrInvalidPayload)
	}

	var p Payload
	var err error

	p.Title = text(doc.Get("title"))
	p.Message = text(doc.Get("message"))
	if p.Title == "" || p.Message == "" {
		return Payload{}, fmt.Errorf("%w: title and message are required", ErrInvalidPayload)
	}

	if p.TimeoutMs, err = integer(doc.Get("timeout")); err != nil {
		return Payload{}, fmt.Errorf("%w: timeout: %v", ErrInvalidPayload, err)
	}
	if p.DiffDays, err = integer(doc.Get("diffDays")); err != nil {
		return Payload{}, fmt.Errorf("%w: diffDays: %v", ErrInvalidPayload, err)
	}
	if p.ShowForm, err = boolean(doc.Get("showForm")); err != nil {
		return Payload{}, fmt.Errorf("%w: showForm: %v", ErrInvalidPayload, err)
	}
	p.WebsiteURL = strings.TrimSpace(text(doc.Get("websiteUrl")))

	return p, nil
}

func text(r gjson.Result) string {
	if !r.Exists() || r.Type == gjson.Null {
		return ""
	}
	return r.String()
}

func integer(r gjson.Result) (int, error) {
	switch r.Type {
	case gjson.Number:
		return strconv.Atoi(r.Raw)
	case gjson.String:
		return strconv.Atoi(strings.TrimSpace(r.Str))
	default:
		if !r.Exists() {
			return 0, errors.New("missing")
		}
		return 0, fmt.Errorf("not an integer: %s", r.Raw)
	}
}

func boolean(r gjson.Result) (bool, error) {
	switch r.Type {
	case gjson.True, gjson.False:
		return r.Bool(), nil
	case gjson.String:
		return strconv.ParseBool(strings.TrimSpace(r.Str))
	case gjson.Null:
		return false, nil
	default:
		if !r.Exists() {
			return false, nil
		}
		return false, fmt.Errorf("not a boolean: %s", r.Raw)
	}
}
