package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxBodySize caps an ingest payload at 4 MB. Batch endpoints carry whole
// collector runs, so the limit is sized for hundreds of mentions per request.
const MaxBodySize = 4 << 20

// DecodeJSON decodes a single JSON document from the request body into dst,
// rejecting unknown fields and trailing content. Decode failures come back
// as messages safe to echo to the caller.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	r.Body = http.MaxBytesReader(nil, r.Body, MaxBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return describeDecodeError(err)
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON document")
	}
	return nil
}

func describeDecodeError(err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.Is(err, io.EOF):
		return errors.New("request body is required")
	case errors.As(err, &syntaxErr):
		return fmt.Errorf("request body is not valid JSON (offset %d)", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			return fmt.Errorf("request body must be a JSON object, got %s", typeErr.Value)
		}
		return fmt.Errorf("field %q must be of type %s", typeErr.Field, typeErr.Type)
	case errors.As(err, &maxBytesErr):
		return fmt.Errorf("request body exceeds %d bytes; split the batch", MaxBodySize)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return fmt.Errorf("unrecognized field %s", strings.TrimPrefix(err.Error(), "json: unknown field "))
	default:
		return errors.New("request body could not be decoded")
	}
}
