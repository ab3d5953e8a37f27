package leave

import (
	"time"
	"unicode/utf8"

	"github.com/frahmantamala/hr-assistant/internal"
)

type RequestLeaveDTO struct {
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

func (dto RequestLeaveDTO) Validate() error {
	if dto.StartDate.IsZero() {
		return internal.NewArgumentFieldError("start_date", "start_date is required", internal.ErrCodeMissingArgument)
	}
	if dto.EndDate.IsZero() {
		return internal.NewArgumentFieldError("end_date", "end_date is required", internal.ErrCodeMissingArgument)
	}
	if utf8.RuneCountInString(dto.Reason) > MaxReasonLength {
		return internal.NewArgumentFieldError("reason", "reason must be at most 500 characters", internal.ErrCodeTooLong)
	}
	return nil
}
