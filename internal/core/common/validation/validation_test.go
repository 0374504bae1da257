package validation_test

import (
	"testing"

	errors "github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/core/common/validation"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestValidation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validation Suite")
}

func fields(err *errors.AppError) []string {
	details := err.Details.(errors.ValidationErrors)
	names := make([]string, len(details.Errors))
	for i, e := range details.Errors {
		names[i] = e.Field
	}
	return names
}

var _ = Describe("ValidationBuilder", func() {
	It("passes when every rule holds", func() {
		v := validation.NewValidator()
		v.Field("title", "Backend Developer").Required().MaxLength(200)
		v.Field("employment_type", "CONTRACT").OneOf([]string{"FULL_TIME", "CONTRACT"}, errors.ErrCodeInvalidEmploymentType)
		Expect(v.Validate()).To(BeNil())
	})

	It("collects one error per failing field", func() {
		blank := "   "
		negative := int64(-5)

		v := validation.NewValidator()
		v.Field("title", blank).Required().MaxLength(3)
		v.Field("salary_min", &negative).MinInt(0, errors.ErrCodeInvalidSalaryRange)
		v.Field("location", (*string)(nil)).MaxLength(10)

		err := v.Validate()
		Expect(err).NotTo(BeNil())
		Expect(err.StatusCode).To(Equal(400))
		Expect(fields(err)).To(Equal([]string{"title", "salary_min"}))
	})

	It("treats empty values as acceptable for OneOf", func() {
		v := validation.NewValidator()
		v.Field("status", "").OneOf([]string{"PENDING"}, errors.ErrCodeInvalidStatus)
		Expect(v.Validate()).To(BeNil())

		v = validation.NewValidator()
		v.Field("status", "ARCHIVED").OneOf([]string{"PENDING"}, errors.ErrCodeInvalidStatus)
		err := v.Validate()
		Expect(err).NotTo(BeNil())
		Expect(err.Details.(errors.ValidationErrors).Errors[0].Code).To(Equal(string(errors.ErrCodeInvalidStatus)))
	})

	It("counts characters rather than bytes", func() {
		v := validation.NewValidator()
		v.Field("password", "pässwörd").MinLength(8)
		Expect(v.Validate()).To(BeNil())
	})
})
