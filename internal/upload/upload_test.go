package upload_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/frahmantamala/recruitment/internal"
	coreuser "github.com/frahmantamala/recruitment/internal/core/user"
	"github.com/frahmantamala/recruitment/internal/upload"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestUpload(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Upload Suite")
}

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

type failingStorage struct{}

func (failingStorage) Save(context.Context, string, string, io.Reader) (string, error) {
	return "", errors.New("disk full")
}

var _ = Describe("Resume upload", func() {
	var (
		ctx     context.Context
		dir     string
		service *upload.Service
		john    = coreuser.Actor{ID: 3, Username: "john.dev", Role: coreuser.RoleUser}
		logger  = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		dir, err = os.MkdirTemp("", "resumes")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)

		storage := upload.NewLocalStorage(dir, "http://localhost:8080/uploads/resumes/")
		service = upload.NewService(storage, 1024, logger)
	})

	Describe("Service", func() {
		It("stores a PDF and returns its public URL", func() {
			result, err := service.UploadResume(ctx, john, bytes.NewReader(samplePDF))

			Expect(err).NotTo(HaveOccurred())
			Expect(result.FileName).To(MatchRegexp(`^resume_john\.dev_[0-9a-f-]{36}\.pdf$`))
			Expect(result.URL).To(Equal("http://localhost:8080/uploads/resumes/" + result.FileName))

			stored, err := os.ReadFile(filepath.Join(dir, result.FileName))
			Expect(err).NotTo(HaveOccurred())
			Expect(stored).To(Equal(samplePDF))
		})

		It("sanitizes the username in the file name", func() {
			actor := coreuser.Actor{ID: 9, Username: "../evil name", Role: coreuser.RoleUser}
			result, err := service.UploadResume(ctx, actor, bytes.NewReader(samplePDF))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.FileName).To(HavePrefix("resume_.._evil_name_"))
			Expect(filepath.Join(dir, result.FileName)).To(BeAnExistingFile())
		})

		It("rejects content that is not a PDF", func() {
			_, err := service.UploadResume(ctx, john, strings.NewReader("just some text"))
			Expect(err).To(MatchError(internal.ErrInvalidFileType))
		})

		It("rejects files over the size limit", func() {
			big := append(append([]byte{}, samplePDF...), bytes.Repeat([]byte("a"), 2048)...)
			_, err := service.UploadResume(ctx, john, bytes.NewReader(big))
			Expect(err).To(MatchError(internal.ErrFileTooLarge))
		})

		It("requires authentication", func() {
			_, err := service.UploadResume(ctx, coreuser.Actor{}, bytes.NewReader(samplePDF))
			Expect(err).To(MatchError(internal.ErrUnauthenticated))
		})

		It("reports storage failures as an upstream error", func() {
			service = upload.NewService(failingStorage{}, 1024, logger)
			_, err := service.UploadResume(ctx, john, bytes.NewReader(samplePDF))

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeExternal))
			Expect(appErr.Code).To(Equal(internal.ErrCodeUploadFailed))
			Expect(appErr.StatusCode).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("Handler", func() {
		post := func(field string, content []byte) *httptest.ResponseRecorder {
			body := &bytes.Buffer{}
			mw := multipart.NewWriter(body)
			part, err := mw.CreateFormFile(field, "cv.pdf")
			Expect(err).NotTo(HaveOccurred())
			_, err = part.Write(content)
			Expect(err).NotTo(HaveOccurred())
			Expect(mw.Close()).To(Succeed())

			req := httptest.NewRequest(http.MethodPost, "/uploads/resume", body)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			req = req.WithContext(internal.ContextWithActor(req.Context(), john))

			rec := httptest.NewRecorder()
			upload.NewHandler(service).UploadResume(rec, req)
			return rec
		}

		It("returns 201 with url and file_name", func() {
			rec := post("file", samplePDF)
			Expect(rec.Code).To(Equal(http.StatusCreated))

			var env struct {
				Success bool          `json:"success"`
				Data    upload.Result `json:"data"`
			}
			Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
			Expect(env.Success).To(BeTrue())
			Expect(env.Data.URL).To(HaveSuffix(env.Data.FileName))
		})

		It("returns 400 when the file field is missing", func() {
			rec := post("document", samplePDF)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 400 for non-PDF uploads", func() {
			rec := post("file", []byte("<html></html>"))
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(rec.Body.String()).To(ContainSubstring(string(internal.ErrCodeInvalidFile)))
		})
	})
})
