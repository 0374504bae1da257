package middleware_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/frahmantamala/recruitment/internal/transport/middleware"
	"github.com/frahmantamala/recruitment/pkg/logger"
	chiMiddleware "github.com/go-chi/chi/middleware"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

var _ = Describe("Middleware", func() {
	var (
		logs *bytes.Buffer
		base *slog.Logger
	)

	BeforeEach(func() {
		logs = &bytes.Buffer{}
		base = slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	})

	Describe("RequestID", func() {
		It("mints a trace id and exposes it downstream", func() {
			var seen string
			h := middleware.RequestID(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = chiMiddleware.GetReqID(r.Context())
				logger.From(r.Context()).Info("inside handler")
			}))

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil))

			Expect(seen).NotTo(BeEmpty())
			Expect(w.Header().Get(middleware.TraceHeader)).To(Equal(seen))
			Expect(logs.String()).To(ContainSubstring(seen))
		})

		It("keeps an incoming trace id", func() {
			h := middleware.RequestID(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(middleware.TraceHeader, "trace-42")

			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			Expect(w.Header().Get(middleware.TraceHeader)).To(Equal("trace-42"))
		})
	})

	Describe("LoggingMiddleware", func() {
		It("masks credentials and leaves the body readable for the handler", func() {
			var body []byte
			h := middleware.RequestID(base)(middleware.LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, _ = io.ReadAll(r.Body)
				w.WriteHeader(http.StatusUnauthorized)
			})))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"username":"hr","password":"123456"}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer abc")
			h.ServeHTTP(httptest.NewRecorder(), req)

			Expect(string(body)).To(Equal(`{"username":"hr","password":"123456"}`))
			Expect(logs.String()).NotTo(ContainSubstring("123456"))
			Expect(logs.String()).NotTo(ContainSubstring("Bearer abc"))
			Expect(logs.String()).To(ContainSubstring(`"status":401`))
			Expect(logs.String()).To(ContainSubstring(`"level":"WARN"`))
		})
	})

	Describe("RecoveryMiddleware", func() {
		It("converts panics into a failure envelope", func() {
			h := middleware.RequestID(base)(middleware.RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic("nil map")
			})))

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			var resp map[string]interface{}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["success"]).To(BeFalse())
			Expect(w.Body.String()).NotTo(ContainSubstring("nil map"))
			Expect(logs.String()).To(ContainSubstring("panic recovered"))
		})
	})

	Describe("CORS", func() {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

		It("answers preflight requests for allowed origins", func() {
			h := middleware.CORS([]string{"https://careers.example.com"})(next)
			req := httptest.NewRequest(http.MethodOptions, "/api/v1/jobs", nil)
			req.Header.Set("Origin", "https://careers.example.com")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)

			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusNoContent))
			Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://careers.example.com"))
		})

		It("does not echo unknown origins", func() {
			h := middleware.CORS([]string{"https://careers.example.com"})(next)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
			req.Header.Set("Origin", "https://evil.example.com")

			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusTeapot))
			Expect(w.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
		})
	})
})
