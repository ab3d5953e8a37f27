package leave_test

import (
	"math/rand"
	"time"

	"github.com/frahmantamala/hr-assistant/internal"
	"github.com/frahmantamala/hr-assistant/internal/leave"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

var _ = Describe("Validate", func() {
	today := day(2026, time.January, 10)

	proposal := func(start, end time.Time, remaining, pending int) leave.Proposal {
		return leave.Proposal{
			StartDate:     start,
			EndDate:       end,
			Today:         today,
			RemainingDays: remaining,
			PendingCount:  pending,
		}
	}

	It("previews duration and projected balance for an acceptable request", func() {
		preview, err := leave.Validate(proposal(day(2026, time.February, 15), day(2026, time.February, 20), 25, 0))
		Expect(err).NotTo(HaveOccurred())
		Expect(preview.DurationDays).To(Equal(6))
		Expect(preview.ProjectedRemaining).To(Equal(19))
	})

	It("counts a single day request as one day", func() {
		preview, err := leave.Validate(proposal(today, today, 1, 0))
		Expect(err).NotTo(HaveOccurred())
		Expect(preview.DurationDays).To(Equal(1))
		Expect(preview.ProjectedRemaining).To(BeZero())
	})

	It("accepts a request that uses exactly the remaining balance", func() {
		preview, err := leave.Validate(proposal(day(2026, time.March, 1), day(2026, time.March, 5), 5, 1))
		Expect(err).NotTo(HaveOccurred())
		Expect(preview.ProjectedRemaining).To(BeZero())
	})

	It("spans month and leap-year boundaries by calendar days", func() {
		preview, err := leave.Validate(leave.Proposal{
			StartDate:     day(2028, time.February, 27),
			EndDate:       day(2028, time.March, 1),
			Today:         today,
			RemainingDays: 30,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(preview.DurationDays).To(Equal(4))
	})

	DescribeTable("rejections",
		func(p leave.Proposal, kind internal.ErrorType) {
			_, err := leave.Validate(p)
			Expect(err).To(HaveOccurred())
			Expect(internal.TypeOf(err)).To(Equal(kind))
		},
		Entry("start after end", proposal(day(2026, time.March, 5), day(2026, time.March, 1), 30, 0), internal.ErrorTypeInvalidRange),
		Entry("range wins over past date", proposal(day(2025, time.March, 5), day(2025, time.March, 1), 30, 0), internal.ErrorTypeInvalidRange),
		Entry("start yesterday", proposal(today.AddDate(0, 0, -1), today, 30, 0), internal.ErrorTypePastDate),
		Entry("past date regardless of balance", proposal(day(2025, time.December, 1), day(2025, time.December, 2), 0, 5), internal.ErrorTypePastDate),
		Entry("one day more than remaining", proposal(day(2026, time.March, 1), day(2026, time.March, 6), 5, 0), internal.ErrorTypeInsufficientBalance),
		Entry("balance wins over pending cap", proposal(day(2026, time.March, 1), day(2026, time.March, 6), 5, 2), internal.ErrorTypeInsufficientBalance),
		Entry("two requests already pending", proposal(day(2026, time.March, 1), day(2026, time.March, 2), 30, 2), internal.ErrorTypePendingLimit),
	)

	It("reports remaining and pending counts in error details", func() {
		_, err := leave.Validate(proposal(day(2026, time.March, 1), day(2026, time.March, 10), 3, 0))
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Details).To(HaveKeyWithValue("remaining_days", 3))

		_, err = leave.Validate(proposal(day(2026, time.March, 1), day(2026, time.March, 1), 30, 2))
		appErr, ok = internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Details).To(HaveKeyWithValue("pending_count", 2))
	})

	It("ignores the time of day", func() {
		preview, err := leave.Validate(leave.Proposal{
			StartDate:     today.Add(23 * time.Hour),
			EndDate:       today.Add(25 * time.Hour),
			Today:         today.Add(22 * time.Hour),
			RemainingDays: 10,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(preview.DurationDays).To(Equal(2))
	})

	It("accepts exactly the pairs with start on or before end", func() {
		rng := rand.New(rand.NewSource(GinkgoRandomSeed()))
		for i := 0; i < 500; i++ {
			start := today.AddDate(0, 0, rng.Intn(400))
			end := today.AddDate(0, 0, rng.Intn(400))

			preview, err := leave.Validate(proposal(start, end, 1000, 0))
			if start.After(end) {
				Expect(internal.TypeOf(err)).To(Equal(internal.ErrorTypeInvalidRange))
				continue
			}
			Expect(err).NotTo(HaveOccurred())
			Expect(preview.DurationDays).To(Equal(int(end.Sub(start).Hours()/24) + 1))
			Expect(preview.DurationDays).To(BeNumerically(">=", 1))
			Expect(preview.ProjectedRemaining).To(Equal(1000 - preview.DurationDays))
		}
	})
})

var _ = Describe("ParseDate", func() {
	It("parses calendar dates", func() {
		d, err := leave.ParseDate("2026-02-15")
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(Equal(day(2026, time.February, 15)))
	})

	DescribeTable("rejects anything that is not YYYY-MM-DD",
		func(input string) {
			_, err := leave.ParseDate(input)
			Expect(err).To(HaveOccurred())
		},
		Entry("timestamp", "2026-02-15T00:00:00Z"),
		Entry("single digit month", "2026-2-15"),
		Entry("slashes", "2026/02/15"),
		Entry("day first", "15-02-2026"),
		Entry("impossible day", "2026-02-30"),
		Entry("words", "next monday"),
		Entry("empty", ""),
	)
})
