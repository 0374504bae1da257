package department_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/core/datamodel/datamodeltest"
	coreuser "github.com/frahmantamala/recruitment/internal/core/user"
	"github.com/frahmantamala/recruitment/internal/department"
	departmentPostgres "github.com/frahmantamala/recruitment/internal/department/postgres"
	"github.com/frahmantamala/recruitment/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Department Handler Integration", func() {
	var (
		handler *department.Handler
		slogger *slog.Logger
	)

	BeforeEach(func() {
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := datamodeltest.Open()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(datamodeltest.Close, db)

		repo := departmentPostgres.NewDepartmentRepository(db)
		service := department.NewService(repo, slogger)
		handler = department.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		for _, name := range []string{"Engineering", "Design"} {
			Expect(repo.Create(context.Background(), department.ToDataModel(department.NewDepartment(name, nil)))).To(Succeed())
		}
	})

	It("should handle GET /departments request successfully", func() {
		req := httptest.NewRequest(http.MethodGet, "/departments", nil)
		w := httptest.NewRecorder()

		handler.GetDepartments(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var response struct {
			Success bool                            `json:"success"`
			Data    []department.DepartmentResponse `json:"data"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Success).To(BeTrue())
		Expect(response.Data).To(HaveLen(2))
		Expect(response.Data[0].Name).To(Equal("Design"))
	})

	It("should create a department for ADMIN", func() {
		req := httptest.NewRequest(http.MethodPost, "/departments", strings.NewReader(`{"name":"Marketing"}`))
		req = req.WithContext(internal.ContextWithActor(req.Context(), coreuser.Actor{ID: 1, Username: "admin", Role: coreuser.RoleAdmin}))
		w := httptest.NewRecorder()

		handler.CreateDepartment(w, req)

		Expect(w.Code).To(Equal(http.StatusCreated))
	})

	It("should return 409 for an existing department", func() {
		req := httptest.NewRequest(http.MethodPost, "/departments", strings.NewReader(`{"name":"Design"}`))
		req = req.WithContext(internal.ContextWithActor(req.Context(), coreuser.Actor{ID: 1, Username: "admin", Role: coreuser.RoleAdmin}))
		w := httptest.NewRecorder()

		handler.CreateDepartment(w, req)

		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("should return 401 for anonymous callers", func() {
		req := httptest.NewRequest(http.MethodPost, "/departments", strings.NewReader(`{"name":"Marketing"}`))
		w := httptest.NewRecorder()

		handler.CreateDepartment(w, req)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})
})
