// Package service provides the application-level orchestration for checklist
// generation. Each request moves through a fixed sequence: validate, admit
// against quota, build the prompt, invoke the model, sanitize the output.
package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/dailydone/checklist-api/internal/domain"
	"github.com/dailydone/checklist-api/internal/generation"
	"github.com/dailydone/checklist-api/internal/quota"
	"github.com/dailydone/checklist-api/internal/sanitize"
)

// promptTemplate is the instruction block sent to the model. The checklist
// JSON contract it describes is what the sanitizer later enforces.
const promptTemplate = `You are a productivity assistant that creates detailed checklists to help users complete their tasks.
Title: "{{.TaskTitle}}"
Description: "{{.TaskDescription}}"

Additional details:
- Work Hours: {{.WorkHours.Start}} to {{.WorkHours.End}}
- Notification Hours: {{.NotificationHours.Start}} to {{.NotificationHours.End}}
- Morning Productivity Peak: {{.MorningPeak}}%
- Afternoon Productivity Peak: {{.AfternoonPeak}}%
- Category: "{{.Category}}"

Based on the above, generate a detailed checklist in valid JSON format. The JSON object must have a key 'checklist' that maps to an array of checklist items. Each checklist item should be an object with the following keys:
  - 'description': A clear, concise description of the step or sub-task.
  - 'estimatedTime': An estimated duration in minutes for that step.
  - 'isCompleted': A boolean value, set to false.

Do not include any extra text or explanation outside the JSON.
Also, generate the checklist in the same language as the task title and description.`

// ChecklistService orchestrates checklist generation: quota admission,
// prompt construction, model invocation, and response sanitization.
type ChecklistService struct {
	logger    *slog.Logger
	tracker   *quota.Tracker
	generator generation.Generator
	clock     quota.Clock
	prompt    *template.Template
}

// NewChecklistService creates a ChecklistService with the given dependencies.
func NewChecklistService(
	logger *slog.Logger,
	tracker *quota.Tracker,
	generator generation.Generator,
	clock quota.Clock,
) (*ChecklistService, error) {
	tmpl, err := template.New("checklist").Parse(promptTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}

	return &ChecklistService{
		logger:    logger,
		tracker:   tracker,
		generator: generator,
		clock:     clock,
		prompt:    tmpl,
	}, nil
}

// GenerateChecklist runs one generation request end to end and returns the
// sanitized, pure-ASCII JSON document.
//
// Quota is consumed at admission, before the external call: a request that
// passes both checks spends one attempt even if the upstream call later
// fails. This fails closed, so a misbehaving upstream cannot be used to
// bypass the daily limits.
func (s *ChecklistService) GenerateChecklist(
	ctx context.Context,
	req *domain.GenerationRequest,
) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.ApplyDefaults()

	now := s.clock.Now()
	if err := s.tracker.Admit(req.UserID, req.TaskID, now); err != nil {
		s.logger.InfoContext(ctx, "generation request rejected by quota",
			"user_id", req.UserID,
			"task_id", req.TaskID,
			"reason", err)
		return nil, err
	}

	prompt, err := s.buildPrompt(req)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "generating checklist",
		"user_id", req.UserID,
		"task_id", req.TaskID,
		"language", req.Language)

	rawText, err := s.generator.GenerateChecklist(ctx, prompt)
	if err != nil {
		return nil, err
	}

	body, err := sanitize.Sanitize(rawText)
	if err != nil {
		s.logger.ErrorContext(ctx, "model output failed sanitization",
			"user_id", req.UserID,
			"task_id", req.TaskID,
			"error", err,
			"raw_length", len(rawText))
		return nil, err
	}

	s.logger.InfoContext(ctx, "checklist generated",
		"user_id", req.UserID,
		"task_id", req.TaskID,
		"response_bytes", len(body))
	return body, nil
}

// buildPrompt renders the instruction block for one request. The request has
// already been defaulted and truncated, so this is pure formatting.
func (s *ChecklistService) buildPrompt(req *domain.GenerationRequest) (string, error) {
	var buf bytes.Buffer
	if err := s.prompt.Execute(&buf, req); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
