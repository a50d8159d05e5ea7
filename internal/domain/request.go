package domain

// Character limits applied to free-text request fields before they are
// embedded in a prompt.
const (
	MaxTitleLength       = 50
	MaxDescriptionLength = 150
	MaxCategoryLength    = 30
)

// Defaults for optional request fields, resolved once at request entry.
const (
	DefaultCategory          = "General"
	DefaultWorkHoursStart    = "09:00"
	DefaultWorkHoursEnd      = "17:00"
	DefaultNotificationStart = "08:00"
	DefaultNotificationEnd   = "20:00"
	DefaultProductivityPeak  = 50
	DefaultLanguage          = "en"
)

// TimeWindow is a start/end pair of time-of-day strings (e.g. "09:00").
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// GenerationRequest carries everything needed to generate one checklist.
// It is constructed by the HTTP layer for the duration of a single call and
// not retained afterwards.
type GenerationRequest struct {
	UserID            string
	TaskID            string
	TaskTitle         string
	TaskDescription   string
	Category          string
	WorkHours         TimeWindow
	NotificationHours TimeWindow
	MorningPeak       int
	AfternoonPeak     int
	Language          string
}

// Validate checks the identity fields that gate quota admission. A missing
// userID or taskID is a client error, distinct from a quota rejection.
func (r *GenerationRequest) Validate() error {
	if r.UserID == "" {
		return ErrMissingUserID
	}
	if r.TaskID == "" {
		return ErrMissingTaskID
	}
	if r.TaskTitle == "" {
		return ErrMissingTaskTitle
	}
	if r.TaskDescription == "" {
		return ErrMissingTaskDescription
	}
	return nil
}

// ApplyDefaults fills unset optional fields and truncates free-text fields to
// their character limits. Defaults are resolved here, once, rather than
// scattered through prompt construction.
func (r *GenerationRequest) ApplyDefaults() {
	if r.Category == "" {
		r.Category = DefaultCategory
	}
	if r.WorkHours.Start == "" {
		r.WorkHours.Start = DefaultWorkHoursStart
	}
	if r.WorkHours.End == "" {
		r.WorkHours.End = DefaultWorkHoursEnd
	}
	if r.NotificationHours.Start == "" {
		r.NotificationHours.Start = DefaultNotificationStart
	}
	if r.NotificationHours.End == "" {
		r.NotificationHours.End = DefaultNotificationEnd
	}
	if r.MorningPeak == 0 {
		r.MorningPeak = DefaultProductivityPeak
	}
	if r.AfternoonPeak == 0 {
		r.AfternoonPeak = DefaultProductivityPeak
	}
	if r.Language == "" {
		r.Language = DefaultLanguage
	}

	r.TaskTitle = truncate(r.TaskTitle, MaxTitleLength)
	r.TaskDescription = truncate(r.TaskDescription, MaxDescriptionLength)
	r.Category = truncate(r.Category, MaxCategoryLength)
}

// truncate limits s to max characters (runes, not bytes, so multi-byte text
// is never cut mid-character).
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
