package validator

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	minEmailLength    = 3
	maxEmailLength    = 255
	minPasswordLength = 8
	maxPasswordLength = 128
	maxNameLength     = 255
	maxSKULength      = 64
	maxCategoryLength = 128

	errEmailEmptyFmt          = "email cannot be empty"
	errEmailLengthFmt         = "email must be between %d and %d characters"
	errEmailInvalidFmt        = "invalid email format"
	errPasswordMinLengthFmt   = "password must be at least %d characters"
	errPasswordMaxLengthFmt   = "password must not exceed %d characters"
	errNameEmptyFmt           = "name cannot be empty"
	errNameMaxLengthFmt       = "name must not exceed %d characters"
	errNameControlCharsFmt    = "name cannot contain control characters"
	errSKUEmptyFmt            = "sku cannot be empty"
	errSKUMaxLengthFmt        = "sku must not exceed %d characters"
	errSKUInvalidFmt          = "sku may only contain letters, digits and dashes"
	errCategoryMaxLengthFmt   = "category must not exceed %d characters"
	errPriceNegativeFmt       = "price cannot be negative"
	errQuantityNegativeFmt    = "quantity cannot be negative"
	asciiControlStart         = 32
	asciiDelete               = 127
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	skuRegex   = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)
)

func Email(email string) error {
	if email == "" {
		return fmt.Errorf(errEmailEmptyFmt)
	}

	if len(email) < minEmailLength || len(email) > maxEmailLength {
		return fmt.Errorf(errEmailLengthFmt, minEmailLength, maxEmailLength)
	}

	if !emailRegex.MatchString(email) {
		return fmt.Errorf(errEmailInvalidFmt)
	}

	return nil
}

func Password(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf(errPasswordMinLengthFmt, minPasswordLength)
	}

	if len(password) > maxPasswordLength {
		return fmt.Errorf(errPasswordMaxLengthFmt, maxPasswordLength)
	}

	return nil
}

func Name(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf(errNameEmptyFmt)
	}

	if len(name) > maxNameLength {
		return fmt.Errorf(errNameMaxLengthFmt, maxNameLength)
	}

	if hasControlChars(name) {
		return fmt.Errorf(errNameControlCharsFmt)
	}

	return nil
}

func SKU(sku string) error {
	if sku == "" {
		return fmt.Errorf(errSKUEmptyFmt)
	}

	if len(sku) > maxSKULength {
		return fmt.Errorf(errSKUMaxLengthFmt, maxSKULength)
	}

	if !skuRegex.MatchString(sku) {
		return fmt.Errorf(errSKUInvalidFmt)
	}

	return nil
}

func Category(category string) error {
	if len(category) > maxCategoryLength {
		return fmt.Errorf(errCategoryMaxLengthFmt, maxCategoryLength)
	}
	return nil
}

func Price(price int64) error {
	if price < 0 {
		return fmt.Errorf(errPriceNegativeFmt)
	}
	return nil
}

func Quantity(quantity int) error {
	if quantity < 0 {
		return fmt.Errorf(errQuantityNegativeFmt)
	}
	return nil
}

func hasControlChars(s string) bool {
	for _, r := range s {
		if r < asciiControlStart || r == asciiDelete {
			return true
		}
	}
	return false
}
