package main_test

import (
	"testing"

	"github.com/frahmantamala/recruitment/cmd"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRecruitment(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Recruitment Suite")
}

var _ = Describe("config.yml", func() {
	It("loads and validates the development configuration", func() {
		cfg, err := cmd.LoadConfig(".")

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Port).To(Equal(8080))
		Expect(cfg.Notification.Driver).To(Equal("log"))
		Expect(cfg.Upload.PublicPath).To(Equal("/uploads/resumes"))
		Expect(cfg.Server.Origins()).To(ContainElement("http://localhost:3000"))
	})
})
