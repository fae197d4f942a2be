// Package accounts describes stored client payment accounts (cards and bank accounts).
package accounts

import (
	"errors"
	"strings"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/pkg/validation"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/validators"
)

// Account types
const (
	TypeCC  = "cc"
	TypeACH = "ach"
)

// Account statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Card types detected from the issuer prefix
const (
	CardVisa       = "visa"
	CardMastercard = "mastercard"
	CardAmex       = "amex"
	CardDiscover   = "discover"
	CardOther      = "other"
)

// Bank account types
const (
	BankChecking = "checking"
	BankSavings  = "savings"
)

// Errors returned by the account service
var (
	ErrNotFound = errors.New("payment account not found")
	ErrExpired  = errors.New("card has expired")
)

// Account entity. Full numbers are only held encrypted.
type Account struct {
	ID               string `validate:"required,uuid4"`
	ClientID         string `validate:"required,uuid4"`
	Type             string `validate:"required,oneof=cc ach"`
	FirstName        string `validate:"required,max=64"`
	LastName         string `validate:"required,max=64"`
	Address1         string `validate:"max=255"`
	City             string `validate:"max=128"`
	State            string `validate:"max=64"`
	Zip              string `validate:"max=16"`
	Country          string `validate:"omitempty,iso3166_1_alpha2"`
	LastFour         string `validate:"required,len=4,numeric"`
	CardType         string `validate:"required_if=Type cc,omitempty,oneof=visa mastercard amex discover other"`
	Expiration       string `validate:"required_if=Type cc,omitempty,yyyymm"`
	AccountType      string `validate:"required_if=Type ach,omitempty,oneof=checking savings"`
	EncryptedNumber  []byte `validate:"required"`
	EncryptedRouting []byte
	Status           string    `validate:"required,oneof=active inactive"`
	DateAdded        time.Time `validate:"required"`
}

// Validate for validating Account struct
func (a *Account) Validate() error {
	return validation.Struct(a)
}

// Input carries the fields supplied when adding or editing an account.
// Number and RoutingNumber are plaintext and never persisted as given.
type Input struct {
	Type          string `validate:"required,oneof=cc ach"`
	FirstName     string `validate:"required,max=64"`
	LastName      string `validate:"required,max=64"`
	Address1      string `validate:"max=255"`
	City          string `validate:"max=128"`
	State         string `validate:"max=64"`
	Zip           string `validate:"max=16"`
	Country       string `validate:"omitempty,iso3166_1_alpha2"`
	Number        string `validate:"omitempty"`
	Expiration    string `validate:"required_if=Type cc,omitempty,yyyymm"`
	AccountType   string `validate:"required_if=Type ach,omitempty,oneof=checking savings"`
	RoutingNumber string `validate:"omitempty"`
}

// Validate checks the input. requireNumber is set when adding an account.
func (in *Input) Validate(requireNumber bool, now time.Time) error {
	errs := validation.Errors{}
	if err := validation.Struct(in); err != nil {
		fieldErrs, ok := validation.As(err)
		if !ok {
			return err
		}
		errs = fieldErrs
	}

	number := validators.DigitsOnly(in.Number)
	switch {
	case number == "" && requireNumber:
		errs.Add("Number", "is required")
	case number != "" && in.Type == TypeCC && !validators.Luhn(number):
		errs.Add("Number", "is not a valid card number")
	case number != "" && in.Type == TypeACH && (len(number) < 4 || len(number) > 17 || !isDigits(number)):
		errs.Add("Number", "must be 4 to 17 digits")
	}

	if in.Type == TypeACH {
		routing := validators.DigitsOnly(in.RoutingNumber)
		if (requireNumber || routing != "") && !ValidRoutingNumber(routing) {
			errs.Add("RoutingNumber", "is not a valid routing number")
		}
	}

	if in.Type == TypeCC && in.Expiration != "" && validators.ExpiredBefore(in.Expiration, now) {
		errs.Add("Expiration", ErrExpired.Error())
	}

	return errs.Err()
}

// DetectCardType classifies a card number by its issuer prefix.
func DetectCardType(number string) string {
	switch {
	case strings.HasPrefix(number, "4"):
		return CardVisa
	case strings.HasPrefix(number, "34"), strings.HasPrefix(number, "37"):
		return CardAmex
	case strings.HasPrefix(number, "6011"), strings.HasPrefix(number, "65"):
		return CardDiscover
	case len(number) >= 2 && number[:2] >= "51" && number[:2] <= "55":
		return CardMastercard
	case len(number) >= 4 && number[:4] >= "2221" && number[:4] <= "2720":
		return CardMastercard
	default:
		return CardOther
	}
}

// ValidRoutingNumber applies the ABA 3-7-1 checksum.
func ValidRoutingNumber(routing string) bool {
	if len(routing) != 9 || !isDigits(routing) {
		return false
	}
	weights := [3]int{3, 7, 1}
	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(routing[i]-'0') * weights[i%3]
	}
	return sum%10 == 0
}

// LastFour returns the trailing four digits of number.
func LastFour(number string) string {
	if len(number) <= 4 {
		return number
	}
	return number[len(number)-4:]
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
