package todo

import (
	"fmt"
	"strings"
)

type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Couldn't find Todo with 'id'=%s", e.ID)
}

func notFound(id uint64) error {
	return &NotFoundError{ID: fmt.Sprintf("%d", id)}
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Validation failed: %s %s", e.Field, e.Reason)
}

func validateTitle(title *string) error {
	if title == nil || strings.TrimSpace(*title) == "" {
		return &ValidationError{Field: "Title", Reason: "can't be blank"}
	}
	return nil
}
