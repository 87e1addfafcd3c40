package services

import (
	"time"

	"gadgetstore/internal/apperrors"
	"gadgetstore/internal/models"
)

// promotionWindow is the duration part of a promotion. Days windows are
// absolute dates; hours, minutes and seconds windows are ranges inside the
// unit, e.g. hours 9 to 17.
type promotionWindow struct {
	DurationType string
	StartDate    *time.Time
	EndDate      *time.Time
	StartHour    *int
	EndHour      *int
	StartMinute  *int
	EndMinute    *int
	StartSecond  *int
	EndSecond    *int
}

// remainingTime validates the window and returns its length in seconds.
// A days window counts from now, or from StartDate when it lies ahead, until
// EndDate.
func (w promotionWindow) remainingTime(now time.Time) (int64, error) {
	switch w.DurationType {
	case models.DurationDays:
		if w.StartDate == nil || w.EndDate == nil {
			return 0, apperrors.ErrInvalidDuration.WithDetails("start_date and end_date are required")
		}
		if !w.EndDate.After(*w.StartDate) {
			return 0, apperrors.ErrInvalidDuration.WithDetails("end_date must be after start_date")
		}
		from := now
		if w.pending(now) {
			from = *w.StartDate
		}
		remaining := int64(w.EndDate.Sub(from) / time.Second)
		if remaining <= 0 {
			return 0, apperrors.ErrInvalidDuration.WithDetails("end_date is in the past")
		}
		return remaining, nil
	case models.DurationHours:
		span, err := rangeSpan(w.StartHour, w.EndHour, 23, "hour")
		return span * 3600, err
	case models.DurationMinutes:
		span, err := rangeSpan(w.StartMinute, w.EndMinute, 59, "minute")
		return span * 60, err
	case models.DurationSeconds:
		return rangeSpan(w.StartSecond, w.EndSecond, 59, "second")
	default:
		return 0, apperrors.ErrInvalidDuration.WithDetails("unknown duration_type " + w.DurationType)
	}
}

// pending reports whether a days window has not opened yet at now.
func (w promotionWindow) pending(now time.Time) bool {
	return w.DurationType == models.DurationDays && w.StartDate != nil && w.StartDate.After(now)
}

func rangeSpan(start, end *int, limit int, unit string) (int64, error) {
	if start == nil || end == nil {
		return 0, apperrors.ErrInvalidDuration.WithDetails("start_" + unit + " and end_" + unit + " are required")
	}
	if *start < 0 || *end < 0 || *start > limit || *end > limit {
		return 0, apperrors.ErrInvalidDuration.WithDetails(unit + " out of range")
	}
	if *end <= *start {
		return 0, apperrors.ErrInvalidDuration.WithDetails("end_" + unit + " must be after start_" + unit)
	}
	return int64(*end - *start), nil
}

// clearUnused drops the fields that do not belong to DurationType.
func (w *promotionWindow) clearUnused() {
	if w.DurationType != models.DurationDays {
		w.StartDate, w.EndDate = nil, nil
	}
	if w.DurationType != models.DurationHours {
		w.StartHour, w.EndHour = nil, nil
	}
	if w.DurationType != models.DurationMinutes {
		w.StartMinute, w.EndMinute = nil, nil
	}
	if w.DurationType != models.DurationSeconds {
		w.StartSecond, w.EndSecond = nil, nil
	}
}
