package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/metrics"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/router"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	r := router.New()
	r.Use(metrics.Middleware())
	r.Get("/things/{id}", "", func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusOK)
		return nil
	})
	h := r.Handler()

	before := testutil.ToFloat64(metrics.RequestTotal.WithLabelValues("GET", "/things/{id}", "200"))
	for _, id := range []string{"1", "2", "3"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/"+id, nil))
	}
	after := testutil.ToFloat64(metrics.RequestTotal.WithLabelValues("GET", "/things/{id}", "200"))

	assert.Equal(t, 3.0, after-before)
}

func TestMiddlewareKeepsFirstStatus(t *testing.T) {
	r := router.New()
	r.Use(metrics.Middleware())
	r.Post("/twice", "", func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusCreated)
		w.WriteHeader(http.StatusInternalServerError)
		return nil
	})

	created := metrics.RequestTotal.WithLabelValues("POST", "/twice", "201")
	failed := metrics.RequestTotal.WithLabelValues("POST", "/twice", "500")
	beforeCreated, beforeFailed := testutil.ToFloat64(created), testutil.ToFloat64(failed)

	r.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/twice", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(created)-beforeCreated)
	assert.Equal(t, 0.0, testutil.ToFloat64(failed)-beforeFailed)
}

func TestHandlerExposesRegistry(t *testing.T) {
	metrics.CacheHit("redis")

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "usersapi_cache_hits_total")
}

func TestUserWrite(t *testing.T) {
	before := testutil.ToFloat64(metrics.UserWrites.WithLabelValues("user.created"))
	metrics.UserWrite("user.created")
	metrics.UserWrite("user.created")
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.UserWrites.WithLabelValues("user.created"))-before)
}
