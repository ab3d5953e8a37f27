package validation_test

import (
	"strings"
	"testing"
	"time"

	"github.com/frahmantamala/hr-assistant/internal"
	"github.com/frahmantamala/hr-assistant/internal/core/common/validation"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestValidation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validation Suite")
}

func isoDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}

var _ = Describe("ValidationBuilder", func() {
	It("passes when every rule holds", func() {
		err := validation.NewValidator().
			Field("session_token", "chat-42").Required().MaxLength(128).NoWhitespace().
			Field("start_date", "2026-02-15").Required().Date(isoDate).
			Validate()
		Expect(err).To(BeNil())
	})

	It("reports one entry per failing field as an argument error", func() {
		err := validation.NewValidator().
			Field("session_token", "").Required().MaxLength(3).
			Field("employee_id", int64(-1)).Positive().
			Field("start_date", "15/02/2026").Date(isoDate).
			Validate()
		Expect(err).NotTo(BeNil())
		Expect(err.Type).To(Equal(internal.ErrorTypeArgument))

		details, ok := err.Details.(internal.ValidationErrors)
		Expect(ok).To(BeTrue())
		Expect(details.Errors).To(HaveLen(3))
		Expect(details.Errors[0].Field).To(Equal("session_token"))
		Expect(details.Errors[0].Code).To(Equal(string(internal.ErrCodeMissingArgument)))
		Expect(details.Errors[1].Field).To(Equal("employee_id"))
		Expect(details.Errors[2].Code).To(Equal(string(internal.ErrCodeInvalidDate)))
	})

	It("counts characters, not bytes, for length limits", func() {
		Expect(validation.NewValidator().Field("reason", strings.Repeat("é", 5)).MaxLength(5).Validate()).To(BeNil())
		Expect(validation.NewValidator().Field("reason", strings.Repeat("é", 6)).MaxLength(5).Validate()).NotTo(BeNil())
	})

	It("rejects tokens with whitespace", func() {
		err := validation.NewValidator().Field("session_token", "a b").NoWhitespace().Validate()
		Expect(err).NotTo(BeNil())
		Expect(err.Error()).To(ContainSubstring("whitespace"))
	})

	It("runs custom rules", func() {
		err := validation.NewValidator().
			Field("role", "Intern").Custom(func(v interface{}) *internal.AppError {
			if v != "HR" {
				return internal.NewArgumentError("role must be HR", internal.ErrCodeValidationFailed)
			}
			return nil
		}).Validate()
		Expect(err).NotTo(BeNil())
		Expect(err.GetDetailedMessage()).To(Equal("role: role must be HR"))
	})
})
