package response_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/response"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, response.StatusOf(errors.New("boom")))
	assert.Equal(t, http.StatusNotFound, response.StatusOf(response.NewError(http.StatusNotFound, "gone")))

	wrapped := fmt.Errorf("controller: %w", response.NewError(http.StatusConflict, "dup"))
	assert.Equal(t, http.StatusConflict, response.StatusOf(wrapped))
}

func TestHTTPErrorUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := response.Wrap(http.StatusBadRequest, "bad", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "bad: cause", err.Error())
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	response.WriteError(rec, errors.New("db password is hunter2"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":500,"message":"Internal Server Error"}`, rec.Body.String())
}

func TestWriteErrorWithFields(t *testing.T) {
	rec := httptest.NewRecorder()
	response.WriteError(rec, response.Invalid(map[string]string{"email": "The email field is required."}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t,
		`{"status":400,"message":"Validation failed","errors":{"email":"The email field is required."}}`,
		rec.Body.String())
}
