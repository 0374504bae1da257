package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/core/user"
	"github.com/frahmantamala/recruitment/internal/transport"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Type string `json:"type"`
		Code string `json:"code"`
	} `json:"error"`
}

func decodeEnvelope(rec *httptest.ResponseRecorder) envelope {
	var env envelope
	gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(gomega.Succeed())
	return env
}

var _ = ginkgo.Describe("Handler", func() {
	var (
		handler    *Handler
		mockRepo   *mockUserRepository
		tokenGen   *JWTTokenGenerator
		captured   user.Actor
		downstream http.Handler
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		tokenGen = NewJWTTokenGenerator("access-secret-0123456789abcdef0123", "refresh-secret-0123456789abcdef012", time.Minute, time.Hour)
		handler = NewHandler(NewService(mockRepo, tokenGen, nil))
		captured = user.Actor{}
		downstream = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured, _ = internal.ActorFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})
	})

	bearer := func(username string) string {
		token, err := tokenGen.GenerateAccessToken(username)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return "Bearer " + token
	}

	ginkgo.Describe("Login", func() {
		ginkgo.It("should return tokens inside the success envelope", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"admin","password":"correct_password"}`))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			env := decodeEnvelope(rec)
			gomega.Expect(env.Success).To(gomega.BeTrue())
			var tokens AuthTokens
			gomega.Expect(json.Unmarshal(env.Data, &tokens)).To(gomega.Succeed())
			gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
		})

		ginkgo.It("should return 401 for bad credentials", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"admin","password":"nope"}`))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			env := decodeEnvelope(rec)
			gomega.Expect(env.Success).To(gomega.BeFalse())
			gomega.Expect(env.Error.Code).To(gomega.Equal(string(internal.ErrCodeInvalidCredentials)))
		})

		ginkgo.It("should return 400 for malformed JSON", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{`))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("AuthMiddleware", func() {
		ginkgo.It("should place the stored role on the context", func() {
			mockRepo.users["john.dev"].Role = user.RoleHR
			req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
			req.Header.Set("Authorization", bearer("john.dev"))
			rec := httptest.NewRecorder()

			handler.AuthMiddleware(downstream).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(captured.Role).To(gomega.Equal(user.RoleHR))
			gomega.Expect(captured.ID).To(gomega.Equal(int64(1)))
		})

		ginkgo.It("should reject a missing token", func() {
			rec := httptest.NewRecorder()

			handler.AuthMiddleware(downstream).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs", nil))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(decodeEnvelope(rec).Error.Code).To(gomega.Equal(string(internal.ErrCodeUnauthenticated)))
		})

		ginkgo.It("should reject inactive users", func() {
			req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
			req.Header.Set("Authorization", bearer("retired"))
			rec := httptest.NewRecorder()

			handler.AuthMiddleware(downstream).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(decodeEnvelope(rec).Error.Code).To(gomega.Equal(string(internal.ErrCodeUserInactive)))
		})
	})

	ginkgo.Describe("OptionalAuthMiddleware", func() {
		ginkgo.It("should continue anonymously with a garbage token", func() {
			req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
			req.Header.Set("Authorization", "Bearer garbage")
			rec := httptest.NewRecorder()

			handler.OptionalAuthMiddleware(downstream).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(captured.IsAuthenticated()).To(gomega.BeFalse())
		})

		ginkgo.It("should resolve a valid token", func() {
			req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
			req.Header.Set("Authorization", bearer("admin"))
			rec := httptest.NewRecorder()

			handler.OptionalAuthMiddleware(downstream).ServeHTTP(rec, req)

			gomega.Expect(captured.Role).To(gomega.Equal(user.RoleAdmin))
		})
	})

	ginkgo.Describe("RBACAuthorization", func() {
		var rbac *RBACAuthorization

		ginkgo.BeforeEach(func() {
			rbac = NewRBACAuthorization(transport.NewBaseHandler(nil))
		})

		serve := func(mw func(http.Handler) http.Handler, username string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			req.Header.Set("Authorization", bearer(username))
			rec := httptest.NewRecorder()
			handler.AuthMiddleware(mw(downstream)).ServeHTTP(rec, req)
			return rec
		}

		ginkgo.It("should let staff through RequireStaff", func() {
			gomega.Expect(serve(rbac.RequireStaff(), "hr").Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(serve(rbac.RequireStaff(), "admin").Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("should forbid USER on staff routes", func() {
			rec := serve(rbac.RequireStaff(), "john.dev")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(decodeEnvelope(rec).Error.Code).To(gomega.Equal(string(internal.ErrCodeStaffOnly)))
		})

		ginkgo.It("should forbid HR on admin routes", func() {
			rec := serve(rbac.RequireAdmin(), "hr")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(decodeEnvelope(rec).Error.Code).To(gomega.Equal(string(internal.ErrCodeAdminOnly)))
		})
	})
})
