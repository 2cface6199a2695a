package wizard

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidationError names the draft fields that block progress.
type ValidationError struct {
	Fields []string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error { return e.Err }

type textFields struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (f textFields) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.Required),
		validation.Field(&f.Description, validation.Required),
	)
}

var fieldOrder = []string{"title", "description"}

// validateDraft requires a non-blank title and description.
func validateDraft(d *Draft) error {
	err := textFields{
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
	}.Validate()
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &ValidationError{Err: err}
	for _, f := range fieldOrder {
		if _, ok := verrs[f]; ok {
			ve.Fields = append(ve.Fields, f)
		}
	}
	return ve
}
