// Package phone normalizes user supplied phone numbers to E.164.
package phone

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used when a number carries no country prefix.
const DefaultRegion = "NG"

// ErrInvalid is returned for numbers that parse but are not dialable.
var ErrInvalid = errors.New("invalid phone number")

// Normalize parses raw in the context of region and formats it as E.164.
func Normalize(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if region == "" {
		region = DefaultRegion
	}

	num, err := phonenumbers.Parse(raw, strings.ToUpper(region))
	if err != nil {
		return "", fmt.Errorf("error parsing phone number: %w", err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalid
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
