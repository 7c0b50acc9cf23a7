package card

import (
	"regexp"
	"strings"
)

var (
	visaRe       = regexp.MustCompile(`^4`)
	mastercardRe = regexp.MustCompile(`^(5[1-5]|2[2-7])`)
	amexRe       = regexp.MustCompile(`^3[47]`)
	discoverRe   = regexp.MustCompile(`^6`)
)

// DetectBrand returns the card brand for a card number.
func DetectBrand(cardNumber string) string {
	number := strings.ReplaceAll(cardNumber, " ", "")
	switch {
	case visaRe.MatchString(number):
		return "visa"
	case mastercardRe.MatchString(number):
		return "mastercard"
	case amexRe.MatchString(number):
		return "amex"
	case discoverRe.MatchString(number):
		return "discover"
	default:
		return "unknown"
	}
}

// LastFour returns the last four digits of a card number.
func LastFour(cardNumber string) string {
	number := strings.ReplaceAll(cardNumber, " ", "")
	if len(number) < 4 {
		return number
	}
	return number[len(number)-4:]
}
