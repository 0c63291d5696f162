package dialog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/models"
	"dining-concierge/pkg/registry"
)

const (
	dateLayout = "2006-01-02"

	minPartySize = 1
	maxPartySize = 20
	phoneDigits  = 10
)

const (
	msgBadLocation  = "Sorry! We do not serve recommendations for this location right now!"
	msgBadCuisine   = "Sorry! We do not serve recommendations for this cuisine right now!"
	msgBadPartySize = "Sorry! Number of people should be at least 1 and at most 20!"
	msgBadDate      = "I did not understand that, what date would you like to add?"
	msgPastDate     = "You can search restaurant from today onwards. What day would you like to search?"
	msgBadTime      = "Not a valid time"
	msgBadPhoneFmt  = "Sorry, %s is not a valid phone number. Please provide a valid US phone number."
	msgMissingSlot  = "Please tell me your %s."
)

var (
	errNotInteger = errors.New("not an integer")
	errBadClock   = errors.New("time must be HH:MM")
	errClockRange = errors.New("time out of range")
)

// Validator checks slot values against the catalog and the calendar.
type Validator struct {
	catalog  *registry.Catalog
	location *time.Location
	now      func() time.Time
}

func NewValidator(catalog *registry.Catalog, location *time.Location) *Validator {
	if location == nil {
		location = time.UTC
	}
	return &Validator{catalog: catalog, location: location, now: time.Now}
}

// Validate checks the present slots in field order and reports the first violation.
// Slots that are nil or blank have not been collected yet and are skipped.
func (v *Validator) Validate(slots map[string]*string) models.ValidationResult {
	if s, ok := present(slots, models.FieldLocation); ok && !v.catalog.HasLocation(s) {
		return invalid(models.FieldLocation, msgBadLocation)
	}

	if s, ok := present(slots, models.FieldCuisine); ok && !v.catalog.HasCuisine(s) {
		return invalid(models.FieldCuisine, msgBadCuisine)
	}

	if s, ok := present(slots, models.FieldPartySize); ok {
		n, err := parseInt(s)
		if err != nil || n < minPartySize || n > maxPartySize {
			return invalid(models.FieldPartySize, msgBadPartySize)
		}
	}

	if s, ok := present(slots, models.FieldDate); ok {
		d, err := v.parseDate(s)
		if err != nil {
			return invalid(models.FieldDate, msgBadDate)
		}
		if d.Before(v.today()) {
			return invalid(models.FieldDate, msgPastDate)
		}
	}

	if s, ok := present(slots, models.FieldTime); ok {
		if _, _, err := parseClock(s); err != nil {
			return invalid(models.FieldTime, msgBadTime)
		}
	}

	if s, ok := present(slots, models.FieldPhone); ok && !isPhone(s) {
		return invalid(models.FieldPhone, fmt.Sprintf(msgBadPhoneFmt, s))
	}

	return models.ValidationResult{Valid: true}
}

// BuildRequest turns a complete, valid slot set into a DiningRequest.
func (v *Validator) BuildRequest(slots map[string]*string) (models.DiningRequest, error) {
	for _, field := range models.FieldOrder {
		if _, ok := present(slots, field); !ok {
			return models.DiningRequest{}, apperrors.NewValidationFailedError(field, fmt.Sprintf(msgMissingSlot, field))
		}
	}

	if res := v.Validate(slots); !res.Valid {
		return models.DiningRequest{}, apperrors.NewValidationFailedError(res.Field, res.Message)
	}

	size, _ := parseInt(*slots[models.FieldPartySize])
	return models.DiningRequest{
		Location:  strings.TrimSpace(*slots[models.FieldLocation]),
		Cuisine:   strings.TrimSpace(*slots[models.FieldCuisine]),
		PartySize: size,
		Date:      strings.TrimSpace(*slots[models.FieldDate]),
		Time:      strings.TrimSpace(*slots[models.FieldTime]),
		Phone:     strings.TrimSpace(*slots[models.FieldPhone]),
	}, nil
}

func (v *Validator) today() time.Time {
	y, m, d := v.now().In(v.location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, v.location)
}

func (v *Validator) parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, strings.TrimSpace(s), v.location)
}

func present(slots map[string]*string, field string) (string, bool) {
	p, ok := slots[field]
	if !ok || p == nil || strings.TrimSpace(*p) == "" {
		return "", false
	}
	return *p, true
}

func invalid(field, message string) models.ValidationResult {
	return models.ValidationResult{Valid: false, Field: field, Message: message}
}

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errNotInteger, s)
	}
	return n, nil
}

// parseClock accepts HH:MM with hour 0-23 and minute 0-59.
func parseClock(s string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, errBadClock
	}
	hour, err := parseInt(parts[0])
	if err != nil {
		return 0, 0, err
	}
	minute, err := parseInt(parts[1])
	if err != nil {
		return 0, 0, err
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, errClockRange
	}
	return hour, minute, nil
}

func isPhone(s string) bool {
	if len(s) != phoneDigits {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
