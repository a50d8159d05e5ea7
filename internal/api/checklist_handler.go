package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dailydone/checklist-api/internal/api/shared"
	"github.com/dailydone/checklist-api/internal/domain"
	"github.com/dailydone/checklist-api/internal/sanitize"
	"github.com/dailydone/checklist-api/internal/service"
)

// TimeWindowPayload is a start/end time-of-day pair in a request body.
type TimeWindowPayload struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// GenerateChecklistRequest represents the request body for checklist
// generation. Optional fields use pointers so "absent" and "zero" can be
// told apart before defaulting.
type GenerateChecklistRequest struct {
	UserID            string             `json:"userId"            validate:"required"`
	TaskID            string             `json:"taskId"            validate:"required"`
	TaskTitle         string             `json:"taskTitle"         validate:"required"`
	TaskDescription   string             `json:"taskDescription"   validate:"required"`
	Category          string             `json:"category"`
	WorkHours         *TimeWindowPayload `json:"workHours"`
	NotificationHours *TimeWindowPayload `json:"notificationHours"`
	MorningPeak       *int               `json:"morningPeak"`
	AfternoonPeak     *int               `json:"afternoonPeak"`
	Language          string             `json:"language"`
}

// ChecklistHandler handles checklist generation HTTP requests.
type ChecklistHandler struct {
	service *service.ChecklistService
	logger  *slog.Logger
}

// NewChecklistHandler creates a new ChecklistHandler.
func NewChecklistHandler(svc *service.ChecklistService, logger *slog.Logger) *ChecklistHandler {
	return &ChecklistHandler{
		service: svc,
		logger:  logger,
	}
}

// GenerateChecklist handles POST /api/checklists/generate requests.
// On success the response body is the sanitized, pure-ASCII JSON document
// produced by the service, written verbatim.
func (h *ChecklistHandler) GenerateChecklist(w http.ResponseWriter, r *http.Request) {
	var req GenerateChecklistRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format",
			shared.WithErrorCode(CodeValidationError))
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, validationMessage(err),
			shared.WithErrorCode(CodeValidationError))
		return
	}

	body, err := h.service.GenerateChecklist(r.Context(), toGenerationRequest(&req))
	if err != nil {
		opts := []shared.ResponseOption{shared.WithErrorCode(MapErrorToCode(err))}
		if raw := sanitize.RawOutput(err); raw != "" {
			opts = append(opts, shared.WithRawOutput(raw))
		}
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err, opts...)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Error("failed to write checklist response", "error", err)
	}
}

// toGenerationRequest maps the API payload onto the domain request. Defaults
// for absent optional fields are resolved by the service via ApplyDefaults.
func toGenerationRequest(req *GenerateChecklistRequest) *domain.GenerationRequest {
	out := &domain.GenerationRequest{
		UserID:          req.UserID,
		TaskID:          req.TaskID,
		TaskTitle:       req.TaskTitle,
		TaskDescription: req.TaskDescription,
		Category:        req.Category,
		Language:        req.Language,
	}
	if req.WorkHours != nil {
		out.WorkHours = domain.TimeWindow{Start: req.WorkHours.Start, End: req.WorkHours.End}
	}
	if req.NotificationHours != nil {
		out.NotificationHours = domain.TimeWindow{
			Start: req.NotificationHours.Start,
			End:   req.NotificationHours.End,
		}
	}
	if req.MorningPeak != nil {
		out.MorningPeak = *req.MorningPeak
	}
	if req.AfternoonPeak != nil {
		out.AfternoonPeak = *req.AfternoonPeak
	}
	return out
}

// validationMessage converts a validator error into a short client-facing
// message like "userId is required", without echoing the submitted values.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}

	field := verrs[0].Field()
	switch verrs[0].Tag() {
	case "required":
		return jsonFieldName(field) + " is required"
	default:
		return "Invalid " + jsonFieldName(field)
	}
}

// jsonFieldName lowercases the leading character of a struct field name to
// match the JSON payload casing (UserID -> userId style handled explicitly).
func jsonFieldName(field string) string {
	switch field {
	case "UserID":
		return "userId"
	case "TaskID":
		return "taskId"
	case "TaskTitle":
		return "taskTitle"
	case "TaskDescription":
		return "taskDescription"
	default:
		return strings.ToLower(field[:1]) + field[1:]
	}
}
