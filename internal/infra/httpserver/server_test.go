package httpserver

import (
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type controllerFunc func(*http.ServeMux)

func (f controllerFunc) AddRoutes(mux *http.ServeMux) { f(mux) }

func fieldController() Controller {
	return controllerFunc(func(mux *http.ServeMux) {
		mux.HandleFunc("PUT /v1/sessions/{id}/fields/{name}", func(w http.ResponseWriter, r *http.Request) {
			span := GetSpanFromContext(r)
			gomega.Expect(span.SpanContext().HasSpanID()).To(gomega.BeTrue())
			ReplyTextResponse(w, http.StatusOK, r.PathValue("name"))
		})
	})
}

func lastSpanNamed(name string) sdktrace.ReadOnlySpan {
	ended := spanRecorder.Ended()
	for i := len(ended) - 1; i >= 0; i-- {
		if ended[i].Name() == name {
			return ended[i]
		}
	}
	return nil
}

var _ = ginkgo.Describe("HTTPServer", func() {
	ginkgo.It("answers healthz with node information", func() {
		server := NewServer(Options{AllowedOrigins: []string{"http://localhost:5173"}})

		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"status":"success"`))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"version":"development"`))
	})

	ginkgo.It("routes controller patterns with path values", func() {
		server := NewServer(Options{}, fieldController())

		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, httptest.NewRequest("PUT", "/v1/sessions/abc/fields/AntropPaino", nil))

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(rec.Body.String()).To(gomega.Equal("AntropPaino"))
	})

	ginkgo.It("names the request span after the route pattern", func() {
		server := NewServer(Options{}, fieldController())

		req := httptest.NewRequest("PUT", "/v1/sessions/abc/fields/AntropPituus", nil)
		req.Header.Set("X-User-ID", "clinician-7")
		server.Handler().ServeHTTP(httptest.NewRecorder(), req)

		span := lastSpanNamed("PUT /v1/sessions/{id}/fields/{name}")
		gomega.Expect(span).NotTo(gomega.BeNil())
		gomega.Expect(span.Attributes()).To(gomega.ContainElement(attribute.String("user.id", "clinician-7")))
		gomega.Expect(span.Attributes()).To(gomega.ContainElement(attribute.Int("http.status_code", http.StatusOK)))
	})

	ginkgo.It("propagates the trace context to the response", func() {
		server := NewServer(Options{})

		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

		gomega.Expect(rec.Header().Get("Traceparent")).NotTo(gomega.BeEmpty())
	})

	ginkgo.It("answers CORS preflight for allowed origins", func() {
		server := NewServer(Options{AllowedOrigins: []string{"http://localhost:5173"}}, fieldController())

		req := httptest.NewRequest("OPTIONS", "/v1/sessions/abc/fields/AntropPaino", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", "PUT")
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)

		gomega.Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(gomega.Equal("http://localhost:5173"))
	})

	ginkgo.It("returns a usable span outside a traced request", func() {
		span := GetSpanFromContext(httptest.NewRequest("GET", "/", nil))
		gomega.Expect(span).NotTo(gomega.BeNil())
		gomega.Expect(span.IsRecording()).To(gomega.BeFalse())
	})
})
