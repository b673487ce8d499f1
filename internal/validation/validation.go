// Package validation wraps go-playground/validator with the calendar's custom
// rules and turns validation failures into client-safe messages.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/keyxmakerx/campuscal/internal/apperror"
	"github.com/keyxmakerx/campuscal/internal/dates"
)

// hhmmPattern matches a 24-hour "HH:MM" time.
var hhmmPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// eventTypes mirrors calendar.EventTypes; kept here so this package does not
// import the plugin.
var eventTypes = map[string]bool{"Exam": true, "Meeting": true, "Deadline": true, "Other": true}

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator with custom rules registered:
//
//	hhmm       24-hour "HH:MM" time
//	datekey    zero-padded Gregorian "YYYY-MM-DD" that exists
//	eventtype  Exam, Meeting, Deadline or Other
//	calmode    gregorian, hijri or both
//	lang       en or ar
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return IsHHMM(fl.Field().String())
		})
		_ = v.RegisterValidation("datekey", func(fl validator.FieldLevel) bool {
			_, err := dates.ParseKey(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("eventtype", func(fl validator.FieldLevel) bool {
			return eventTypes[fl.Field().String()]
		})
		_ = v.RegisterValidation("calmode", func(fl validator.FieldLevel) bool {
			switch strings.ToLower(fl.Field().String()) {
			case "gregorian", "hijri", "both":
				return true
			}
			return false
		})
		_ = v.RegisterValidation("lang", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "en" || s == "ar"
		})
		instance = v
	})
	return instance
}

// IsHHMM reports whether s is a valid 24-hour "HH:MM" time.
func IsHHMM(s string) bool {
	return hhmmPattern.MatchString(s)
}

// Struct validates s and returns a 422 AppError describing the first failed
// field, or nil.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperror.NewValidation(message(verrs[0]))
	}
	return apperror.NewBadRequest("invalid request")
}

// message renders one field error for the client.
func message(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "hhmm":
		return fmt.Sprintf("%s must be a 24-hour time formatted as HH:MM", field)
	case "datekey":
		return fmt.Sprintf("%s must be a valid date formatted as YYYY-MM-DD", field)
	case "eventtype":
		return fmt.Sprintf("%s must be one of Exam, Meeting, Deadline, Other", field)
	case "calmode":
		return fmt.Sprintf("%s must be one of gregorian, hijri, both", field)
	case "lang":
		return fmt.Sprintf("%s must be en or ar", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// EchoValidator adapts the shared validator to echo.Validator.
type EchoValidator struct{}

// Validate implements echo.Validator.
func (EchoValidator) Validate(i any) error {
	return Struct(i)
}
