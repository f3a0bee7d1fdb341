// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/config"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/response"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/validate"
)

// JSON decodes r.Body into dest and validates it. Every failure is a
// *response.HTTPError, so handlers can return it as is:
//
//   - empty body or malformed JSON → 400
//   - body over MAX_BODY_BYTES → 413
//   - validation failures → 400 with per-field messages
func JSON(r *http.Request, dest interface{}) error {
	if r.Body == nil {
		return response.NewError(http.StatusBadRequest, "Request body is required")
	}

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes()))
	if err := dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return response.NewError(http.StatusBadRequest, "Request body is required")
		case errors.As(err, &maxErr):
			return response.Wrap(http.StatusRequestEntityTooLarge, "Request body too large", err)
		default:
			return response.Wrap(http.StatusBadRequest, "Malformed JSON body", err)
		}
	}

	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return response.Invalid(errs)
	}
	return nil
}
