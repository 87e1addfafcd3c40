package apperrors

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// IsUniqueViolation reports whether err comes from a unique constraint.
// The string fallback covers drivers opened without TranslateError.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}

// IsForeignKeyViolation reports whether err comes from a foreign key.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}

// TranslateWrite maps persistence errors of a write on entity to API errors.
// Unique violations become a conflict naming the entity; anything that is
// already an AppError passes through; the rest is returned unchanged.
func TranslateWrite(err error, entity string) error {
	if err == nil {
		return nil
	}
	if _, ok := From(err); ok {
		return err
	}
	if IsUniqueViolation(err) {
		return New(http.StatusConflict, "DUPLICATE_"+codeName(entity),
			"A "+entity+" with this name already exists")
	}
	if IsForeignKeyViolation(err) {
		return ErrInUse.WithDetails(entity)
	}
	return err
}

func codeName(entity string) string {
	return strings.ToUpper(strings.ReplaceAll(entity, " ", "_"))
}
