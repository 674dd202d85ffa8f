// utils/validation.go
package utils

import (
	"errors"

	"github.com/nyaruka/phonenumbers"
)

var ErrInvalidPhone = errors.New("invalid phone number")

// NormalizePhone parses a phone number written in national or international
// form and returns it in E.164, which is the client's unique key.
func NormalizePhone(phone, defaultRegion string) (string, error) {
	num, err := phonenumbers.Parse(phone, defaultRegion)
	if err != nil {
		return "", ErrInvalidPhone
	}
	if !phonenumbers.IsPossibleNumber(num) {
		return "", ErrInvalidPhone
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// DigitsOnly strips formatting from a partial phone number so it can be
// matched against stored E.164 values.
func DigitsOnly(s string) string {
	return phonenumbers.NormalizeDigitsOnly(s)
}

// ValidatePhone checks if a phone number can be normalised for the region
func ValidatePhone(phone, defaultRegion string) bool {
	_, err := NormalizePhone(phone, defaultRegion)
	return err == nil
}
