package auth

import (
	"github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/core/user"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Policy", func() {
	var (
		anonymous = user.Actor{}
		applicant = user.Actor{ID: 10, Username: "john.dev", Role: user.RoleUser}
		recruiter = user.Actor{ID: 20, Username: "hr", Role: user.RoleHR}
		admin     = user.Actor{ID: 30, Username: "admin", Role: user.RoleAdmin}
	)

	ginkgo.DescribeTable("CanManageJob",
		func(actor user.Actor, postedBy int64, expected error) {
			err := CanManageJob(actor, postedBy)
			if expected == nil {
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				return
			}
			gomega.Expect(err).To(gomega.MatchError(expected))
		},
		ginkgo.Entry("anonymous", anonymous, int64(20), internal.ErrUnauthenticated),
		ginkgo.Entry("applicant", applicant, int64(10), internal.ErrStaffOnly),
		ginkgo.Entry("HR on own job", recruiter, int64(20), nil),
		ginkgo.Entry("HR on another HR's job", recruiter, int64(21), internal.ErrJobAccessDenied),
		ginkgo.Entry("admin on any job", admin, int64(21), nil),
	)

	ginkgo.DescribeTable("CanActFor",
		func(actor user.Actor, userID int64, expected error) {
			err := CanActFor(actor, userID)
			if expected == nil {
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				return
			}
			gomega.Expect(err).To(gomega.MatchError(expected))
		},
		ginkgo.Entry("self", applicant, int64(10), nil),
		ginkgo.Entry("another user", applicant, int64(11), internal.ErrApplicationsAccessDenied),
		ginkgo.Entry("staff for anyone", recruiter, int64(11), nil),
		ginkgo.Entry("anonymous", anonymous, int64(10), internal.ErrUnauthenticated),
	)

	ginkgo.It("RequireAdmin rejects HR", func() {
		gomega.Expect(RequireAdmin(recruiter)).To(gomega.MatchError(internal.ErrAdminOnly))
		gomega.Expect(RequireAdmin(admin)).To(gomega.Succeed())
	})
})
