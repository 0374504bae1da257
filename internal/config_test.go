package internal_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/frahmantamala/recruitment/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestInternal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Internal Suite")
}

func validConfig() *internal.Config {
	return &internal.Config{
		Server: internal.ServerConfig{
			Port:              8080,
			AllowedOrigins:    "http://localhost:3000, https://careers.example.com",
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
		},
		Database: internal.DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
			Source:          "postgres://localhost:5432/recruitment",
		},
		Security: internal.SecurityConfig{
			AccessTokenSecret:    "access-secret-access-secret-access-secret",
			RefreshTokenSecret:   "refresh-secret-refresh-secret-refresh-secret",
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 7 * 24 * time.Hour,
			BCryptCost:           10,
		},
		Observability: internal.ObservabilityConfig{
			Logging: internal.LoggingConfig{Level: "info", Format: "text"},
		},
		Notification: internal.NotificationConfig{
			Driver:    "log",
			From:      "no-reply@recruitment.local",
			Workers:   2,
			QueueSize: 16,
		},
		Upload: internal.UploadConfig{
			Dir:          "public/uploads/resumes",
			PublicPath:   "/uploads/resumes",
			MaxSizeBytes: 5 << 20,
		},
	}
}

var _ = Describe("Config", func() {
	var cfg *internal.Config

	BeforeEach(func() {
		cfg = validConfig()
	})

	It("accepts a complete configuration", func() {
		Expect(cfg.Validate()).To(Succeed())
	})

	It("rejects short token secrets", func() {
		cfg.Security.AccessTokenSecret = "short"
		err := cfg.Validate()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("AccessTokenSecret"))
	})

	It("rejects identical access and refresh secrets", func() {
		cfg.Security.RefreshTokenSecret = cfg.Security.AccessTokenSecret
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("secrets must differ")))
	})

	It("rejects more idle than open connections", func() {
		cfg.Database.MaxIdleConns = 20
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("max_idle_conns")))
	})

	It("requires smtp settings for the smtp driver", func() {
		cfg.Notification.Driver = "smtp"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("smtp.host")))

		cfg.Notification.SMTP.Host = "smtp.example.com"
		cfg.Notification.SMTP.Port = 587
		Expect(cfg.Validate()).To(Succeed())
	})

	It("rejects unknown notification drivers", func() {
		cfg.Notification.Driver = "carrier-pigeon"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("Driver")))
	})

	It("splits allowed origins", func() {
		Expect(cfg.Server.Origins()).To(Equal([]string{"http://localhost:3000", "https://careers.example.com"}))
	})

	It("rejects malformed origins", func() {
		cfg.Server.AllowedOrigins = "localhost"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("invalid allowed origin")))
	})

	Describe("LoadConfigFromEnv", func() {
		It("reads overrides from the environment", func() {
			GinkgoT().Setenv("PORT", "9090")
			GinkgoT().Setenv("NOTIFICATION_DRIVER", "amqp")
			GinkgoT().Setenv("ACCESS_TOKEN_DURATION", "30m")

			loaded := internal.LoadConfigFromEnv()
			Expect(loaded.Server.Port).To(Equal(9090))
			Expect(loaded.Notification.Driver).To(Equal("amqp"))
			Expect(loaded.Security.AccessTokenDuration).To(Equal(30 * time.Minute))
			Expect(loaded.Upload.MaxSizeBytes).To(Equal(int64(5 << 20)))
		})
	})
})

var _ = Describe("AppError", func() {
	It("matches sentinels through wrapping", func() {
		wrapped := internal.ErrJobNotFound.WithCause(errors.New("record not found"))
		Expect(errors.Is(wrapped, internal.ErrJobNotFound)).To(BeTrue())
		Expect(errors.Is(wrapped, internal.ErrApplicationNotFound)).To(BeFalse())
		Expect(internal.ErrJobNotFound.Cause).To(BeNil())
	})

	It("maps the taxonomy to HTTP status codes", func() {
		Expect(internal.ErrUnauthenticated.StatusCode).To(Equal(http.StatusUnauthorized))
		Expect(internal.ErrStaffOnly.StatusCode).To(Equal(http.StatusForbidden))
		Expect(internal.ErrJobNotFound.StatusCode).To(Equal(http.StatusNotFound))
		Expect(internal.ErrInvalidStatus.StatusCode).To(Equal(http.StatusBadRequest))
		Expect(internal.ErrDuplicateApplication.StatusCode).To(Equal(http.StatusConflict))
		Expect(internal.NewInternalError("boom", nil).StatusCode).To(Equal(http.StatusInternalServerError))
	})

	It("finds an AppError wrapped in a plain error", func() {
		err := errors.Join(errors.New("context"), internal.ErrBookmarkExists)
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeBookmarkExists))
	})

	It("joins field validation messages", func() {
		err := internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{
				{Field: "title", Message: "title is required"},
				{Field: "salary_min", Message: "salary_min must be at least 0"},
			}})
		Expect(err.GetDetailedMessage()).To(Equal("title is required; salary_min must be at least 0"))
	})
})
