package application_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/application"
	coreuser "github.com/frahmantamala/recruitment/internal/core/user"
	"github.com/frahmantamala/recruitment/internal/job"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Type string `json:"type"`
		Code string `json:"code"`
	} `json:"error"`
}

var _ = Describe("Application Handler", func() {
	var (
		router chi.Router
		actor  coreuser.Actor
	)

	BeforeEach(func() {
		jobs := map[int64]*job.Job{1: {ID: 1, Title: "Backend Developer", PostedBy: 2, IsActive: true}}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := application.NewService(NewMockRepository(jobs), &StubJobFinder{jobs: jobs}, &RecordingPublisher{}, logger)
		handler := application.NewHandler(service)

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(internal.ContextWithActor(r.Context(), actor)))
			})
		})
		router.Post("/applications", handler.Apply)
		router.Get("/applications", handler.ListApplications)
		router.Put("/applications/status", handler.UpdateStatus)
		router.Patch("/applications/{id}/status", handler.PatchStatus)
		router.Get("/users/{id}/applications", handler.ListUserApplications)
		router.Get("/jobs/{id}/applicants", handler.ListJobApplicants)
	})

	do := func(method, target, body string) (*httptest.ResponseRecorder, envelope) {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var env envelope
		Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
		return rec, env
	}

	It("runs the apply then review flow", func() {
		actor = coreuser.Actor{ID: 3, Username: "u1", Role: coreuser.RoleUser}
		rec, env := do(http.MethodPost, "/applications", `{"job_id":1}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		var app application.Application
		Expect(json.Unmarshal(env.Data, &app)).To(Succeed())
		Expect(app.Status).To(Equal(application.StatusPending))

		rec, env = do(http.MethodPost, "/applications", `{"job_id":1}`)
		Expect(rec.Code).To(Equal(http.StatusConflict))
		Expect(env.Error.Code).To(Equal(string(internal.ErrCodeDuplicateApplication)))

		rec, _ = do(http.MethodPut, "/applications/status", `{"application_id":1,"status":"ACCEPTED"}`)
		Expect(rec.Code).To(Equal(http.StatusForbidden))

		actor = coreuser.Actor{ID: 1, Username: "admin", Role: coreuser.RoleAdmin}
		rec, env = do(http.MethodPut, "/applications/status", `{"application_id":1,"status":"ACCEPTED"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(json.Unmarshal(env.Data, &app)).To(Succeed())
		Expect(app.Status).To(Equal(application.StatusAccepted))

		rec, env = do(http.MethodPatch, "/applications/1/status", `{"status":"PENDING"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(json.Unmarshal(env.Data, &app)).To(Succeed())
		Expect(app.Status).To(Equal(application.StatusPending))
	})

	It("returns 400 for statuses outside the enumeration", func() {
		actor = coreuser.Actor{ID: 3, Username: "u1", Role: coreuser.RoleUser}
		do(http.MethodPost, "/applications", `{"job_id":1}`)

		actor = coreuser.Actor{ID: 1, Username: "admin", Role: coreuser.RoleAdmin}
		rec, env := do(http.MethodPatch, "/applications/1/status", `{"status":"ARCHIVED"}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Error.Code).To(Equal(string(internal.ErrCodeInvalidStatus)))
	})

	It("returns 404 when applying to an unknown job", func() {
		actor = coreuser.Actor{ID: 3, Username: "u1", Role: coreuser.RoleUser}
		rec, _ := do(http.MethodPost, "/applications", `{"job_id":7}`)
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("keeps users out of other users' applications", func() {
		actor = coreuser.Actor{ID: 3, Username: "u1", Role: coreuser.RoleUser}
		rec, _ := do(http.MethodGet, "/users/4/applications", "")
		Expect(rec.Code).To(Equal(http.StatusForbidden))

		rec, _ = do(http.MethodGet, "/jobs/1/applicants", "")
		Expect(rec.Code).To(Equal(http.StatusForbidden))
	})

	It("rejects a malformed job_id filter", func() {
		actor = coreuser.Actor{ID: 1, Username: "admin", Role: coreuser.RoleAdmin}
		rec, _ := do(http.MethodGet, "/applications?job_id=x", "")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})
})
