package job_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/recruitment/internal"
	coreuser "github.com/frahmantamala/recruitment/internal/core/user"
	"github.com/frahmantamala/recruitment/internal/job"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type jobEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

var _ = Describe("Job Handler", func() {
	var (
		repo   *MockRepository
		router chi.Router
		actor  *coreuser.Actor
	)

	BeforeEach(func() {
		repo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		handler := job.NewHandler(job.NewService(repo, nil, logger))
		actor = nil

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if actor != nil {
					r = r.WithContext(internal.ContextWithActor(r.Context(), *actor))
				}
				next.ServeHTTP(w, r)
			})
		})
		router.Get("/jobs", handler.ListJobs)
		router.Post("/jobs", handler.CreateJob)
		router.Get("/jobs/filter-options", handler.GetFilterOptions)
		router.Get("/jobs/{id}", handler.GetJob)
		router.Put("/jobs/{id}", handler.UpdateJob)
		router.Delete("/jobs/{id}", handler.DeleteJob)
	})

	do := func(method, target, body string) (*httptest.ResponseRecorder, jobEnvelope) {
		var req *http.Request
		if body != "" {
			req = httptest.NewRequest(method, target, strings.NewReader(body))
		} else {
			req = httptest.NewRequest(method, target, nil)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var env jobEnvelope
		Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
		return rec, env
	}

	as := func(a coreuser.Actor) { actor = &a }

	It("creates, kills and restores a job through PUT actions", func() {
		as(coreuser.Actor{ID: 2, Username: "hr-1", Role: coreuser.RoleHR})

		rec, env := do(http.MethodPost, "/jobs", `{"title":"Backend Developer","employment_type":"PART_TIME"}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		var created job.Job
		Expect(json.Unmarshal(env.Data, &created)).To(Succeed())
		Expect(created.EmploymentType).To(Equal(job.EmploymentPartTime))

		rec, env = do(http.MethodPut, "/jobs/1", `{"action":"kill"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		var killed job.Job
		Expect(json.Unmarshal(env.Data, &killed)).To(Succeed())
		Expect(killed.IsActive).To(BeFalse())
		Expect(killed.KilledAt).NotTo(BeNil())

		rec, _ = do(http.MethodPut, "/jobs/1", `{"action":"restore"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("returns 403 for USER on create", func() {
		as(coreuser.Actor{ID: 4, Username: "john.dev", Role: coreuser.RoleUser})

		rec, env := do(http.MethodPost, "/jobs", `{}`)
		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(env.Success).To(BeFalse())
		Expect(env.Error.Type).To(Equal(string(internal.ErrorTypeForbidden)))
	})

	It("returns 400 for malformed query parameters", func() {
		rec, env := do(http.MethodGet, "/jobs?page=two", "")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Error.Type).To(Equal(string(internal.ErrorTypeValidation)))
	})

	It("returns 400 for non-numeric ids", func() {
		rec, _ := do(http.MethodGet, "/jobs/abc", "")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 404 for unknown jobs", func() {
		rec, env := do(http.MethodGet, "/jobs/42", "")
		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(env.Error.Code).To(Equal(string(internal.ErrCodeJobNotFound)))
	})

	It("lists anonymously with pagination metadata", func() {
		as(coreuser.Actor{ID: 1, Username: "admin", Role: coreuser.RoleAdmin})
		do(http.MethodPost, "/jobs", `{"title":"A"}`)
		do(http.MethodPost, "/jobs", `{"title":"B"}`)
		do(http.MethodPut, "/jobs/1", `{"action":"kill"}`)
		actor = nil

		rec, env := do(http.MethodGet, "/jobs?include_inactive=true&limit=5", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		var result job.ListResult
		Expect(json.Unmarshal(env.Data, &result)).To(Succeed())
		Expect(result.TotalCount).To(Equal(int64(1)))
		Expect(result.TotalPages).To(Equal(1))
		Expect(result.Limit).To(Equal(5))
	})

	It("deletes a job", func() {
		as(coreuser.Actor{ID: 1, Username: "admin", Role: coreuser.RoleAdmin})
		do(http.MethodPost, "/jobs", `{"title":"A"}`)

		rec, env := do(http.MethodDelete, "/jobs/1", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		var result job.DeleteResult
		Expect(json.Unmarshal(env.Data, &result)).To(Succeed())
		Expect(result.Deleted).To(BeTrue())
	})
})
