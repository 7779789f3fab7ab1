// Package validation holds the request rules shared by the API and the web form.
package validation

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Tomlord1122/task-tracker/internal/domain"
)

const (
	TitleMaxLength       = 200
	DescriptionMaxLength = 1000
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// PostgreSQL text columns cannot store NUL bytes.
	if err := v.RegisterValidation("nonul", func(fl validator.FieldLevel) bool {
		return !strings.ContainsRune(fl.Field().String(), 0)
	}); err != nil {
		panic(err)
	}
	return v
}

type taskFields struct {
	Title       string `json:"title" validate:"required,max=200,nonul"`
	Description string `json:"description" validate:"required,max=1000,nonul"`
}

var messages = map[string]string{
	"Title.required":       "Title is required",
	"Title.max":            "Title too long",
	"Description.required": "Description is required",
	"Description.max":      "Description too long",
	"Title.nonul":          "Title contains invalid characters",
	"Description.nonul":    "Description contains invalid characters",
}

// ValidateTask checks a title/description pair and returns one issue per
// failing field, in field order. Lengths are counted in characters.
func ValidateTask(title, description string) []domain.Issue {
	err := validate.Struct(taskFields{Title: title, Description: description})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []domain.Issue{{Path: []string{}, Message: err.Error()}}
	}

	issues := make([]domain.Issue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		issues = append(issues, domain.Issue{
			Path:    []string{strings.ToLower(fe.Field())},
			Message: msg,
		})
	}
	return issues
}

// ParseTaskID validates the textual form of a task id.
func ParseTaskID(raw string) (uuid.UUID, []domain.Issue) {
	invalid := []domain.Issue{{Path: []string{"id"}, Message: "Invalid task ID"}}

	normalized := strings.ToLower(raw)
	if err := validate.Var(normalized, "required,uuid"); err != nil {
		return uuid.Nil, invalid
	}
	id, err := uuid.Parse(normalized)
	if err != nil {
		return uuid.Nil, invalid
	}
	return id, nil
}

// FieldErrors indexes issues by their top-level field name.
func FieldErrors(issues []domain.Issue) map[string]string {
	out := make(map[string]string, len(issues))
	for _, issue := range issues {
		if len(issue.Path) == 0 {
			continue
		}
		if _, seen := out[issue.Path[0]]; !seen {
			out[issue.Path[0]] = issue.Message
		}
	}
	return out
}
