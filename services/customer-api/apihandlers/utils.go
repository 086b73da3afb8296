package apihandlers

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	umUtils "github.com/zacki-div/resto-backend/pkg/user-management/utils"
)

const (
	NAME_MIN_LEN      = 2
	NAME_MAX_LEN      = 50
	ADDRESS_MAX_LEN   = 200
	BIO_MAX_LEN       = 500
	BIRTH_DATE_FORMAT = "2006-01-02"
)

// randomWait slows down responses on failed credential checks.
func randomWait(minTimeSec int, maxTimeSec int) {
	time.Sleep(randomWaitDuration(minTimeSec, maxTimeSec))
}

// randomWaitDuration picks a whole-second duration in [minTimeSec, maxTimeSec],
// both bounds included.
func randomWaitDuration(minTimeSec int, maxTimeSec int) time.Duration {
	return time.Duration(rand.Intn(maxTimeSec-minTimeSec+1)+minTimeSec) * time.Second
}

func checkNameLength(name string) bool {
	l := len(strings.TrimSpace(name))
	return l >= NAME_MIN_LEN && l <= NAME_MAX_LEN
}

func checkPasswordRules(password string) []string {
	errs := []string{}
	if !umUtils.DefaultPasswordPolicy.IsValid(password) {
		errs = append(errs, umUtils.DefaultPasswordPolicy.Description())
	}
	if umUtils.IsPasswordOnBlocklist(password) {
		errs = append(errs, "password is too common")
	}
	return errs
}

func validateRegistrationQuery(req userRegistrationQuery) []string {
	errs := []string{}
	if !checkNameLength(req.FirstName) {
		errs = append(errs, fmt.Sprintf("first name must be between %d and %d characters", NAME_MIN_LEN, NAME_MAX_LEN))
	}
	if !checkNameLength(req.LastName) {
		errs = append(errs, fmt.Sprintf("last name must be between %d and %d characters", NAME_MIN_LEN, NAME_MAX_LEN))
	}
	if !umUtils.CheckEmailFormat(req.Email) {
		errs = append(errs, "email address is not valid")
	}
	errs = append(errs, checkPasswordRules(req.Password)...)
	if req.Phone != "" && !umUtils.CheckPhoneFormat(umUtils.SanitizePhoneNumber(req.Phone)) {
		errs = append(errs, "phone number is not valid")
	}
	return errs
}

// validateProfileFields checks the subset of updatable profile attributes that
// carry format constraints. Unknown keys are left for the service layer to drop.
func validateProfileFields(fields map[string]interface{}) []string {
	errs := []string{}
	for _, key := range []string{"firstName", "lastName"} {
		if raw, ok := fields[key]; ok {
			value, isStr := raw.(string)
			if !isStr || !checkNameLength(value) {
				errs = append(errs, fmt.Sprintf("%s must be between %d and %d characters", key, NAME_MIN_LEN, NAME_MAX_LEN))
			}
		}
	}
	if raw, ok := fields["phone"]; ok {
		value, isStr := raw.(string)
		if !isStr || (value != "" && !umUtils.CheckPhoneFormat(umUtils.SanitizePhoneNumber(value))) {
			errs = append(errs, "phone number is not valid")
		}
	}
	if raw, ok := fields["address"]; ok {
		value, isStr := raw.(string)
		if !isStr || len(value) > ADDRESS_MAX_LEN {
			errs = append(errs, fmt.Sprintf("address must be at most %d characters", ADDRESS_MAX_LEN))
		}
	}
	if raw, ok := fields["bio"]; ok {
		value, isStr := raw.(string)
		if !isStr || len(value) > BIO_MAX_LEN {
			errs = append(errs, fmt.Sprintf("bio must be at most %d characters", BIO_MAX_LEN))
		}
	}
	if raw, ok := fields["birthDate"]; ok {
		value, isStr := raw.(string)
		if isStr && value != "" {
			if _, err := time.Parse(BIRTH_DATE_FORMAT, value); err != nil {
				errs = append(errs, "birth date must use the format YYYY-MM-DD")
			}
		} else if !isStr {
			errs = append(errs, "birth date must use the format YYYY-MM-DD")
		}
	}
	return errs
}
