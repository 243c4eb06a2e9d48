package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var nonDigits = regexp.MustCompile(`\D`)

func ValidateCreateLeadInput(input CreateLeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if len(input.Name) > 200 {
		errors = append(errors, ValidationError{"name", "must not exceed 200 characters"})
	}

	if input.Phone != "" && !isValidPhoneNumber(input.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}

	if input.PaxCount < 0 {
		errors = append(errors, ValidationError{"pax_count", "must not be negative"})
	}

	if input.TravelDate != "" && !isValidDate(input.TravelDate) {
		errors = append(errors, ValidationError{"travel_date", "must be a valid date (YYYY-MM-DD)"})
	}

	return errors
}

func ValidateCreateContactInput(input CreateContactInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	}

	if input.Email != "" {
		if _, err := mail.ParseAddress(input.Email); err != nil {
			errors = append(errors, ValidationError{"email", "is invalid"})
		}
	}

	if input.Phone != "" && !isValidPhoneNumber(input.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}

	return errors
}

func ValidateSendEmailInput(input SendEmailInput) []ValidationError {
	var errors []ValidationError

	if len(input.To) == 0 {
		errors = append(errors, ValidationError{"to", "at least one recipient is required"})
	}
	for _, addr := range input.To {
		if _, err := mail.ParseAddress(addr); err != nil {
			errors = append(errors, ValidationError{"to", "invalid address: " + addr})
		}
	}

	if strings.TrimSpace(input.Subject) == "" {
		errors = append(errors, ValidationError{"subject", "is required"})
	}

	if input.ScheduledFor != "" && !isValidDateTime(input.ScheduledFor) {
		errors = append(errors, ValidationError{"scheduled_for", "must be a valid ISO8601 datetime"})
	}

	return errors
}

func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	return len(cleaned) >= 8 && len(cleaned) <= 15
}

func isValidDate(dateStr string) bool {
	_, err := time.Parse("2006-01-02", dateStr)
	return err == nil
}

// parseScheduleTime acepta RFC3339 o fecha sola (queda a medianoche UTC).
// Validación y ejecución usan ESTA función: lo que pasa una, lo agenda la otra.
func parseScheduleTime(dateStr string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, dateStr); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", dateStr)
}

func isValidDateTime(dateStr string) bool {
	_, err := parseScheduleTime(dateStr)
	return err == nil
}
