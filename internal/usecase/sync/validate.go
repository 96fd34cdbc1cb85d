package sync

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/kirvasilev/notesync/internal/entity"
)

// validatePush checks the required identity fields of an incoming write.
// Violations surface with per-field detail so clients can fix the payload.
func validatePush(n entity.Note) error {
	err := validation.ValidateStruct(&n,
		validation.Field(&n.ID, validation.Required),
		validation.Field(&n.Title, validation.Required),
		validation.Field(&n.UserEmail, validation.Required),
	)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validation.Errors)
	if !ok {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for field, ferr := range verrs {
		fields[field] = ferr.Error()
	}

	return &entity.ValidationError{Fields: fields}
}
