package inventory

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var productIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{8,20}$`)

// ErrInvalidProductID is returned when the product id fails the format rule.
var ErrInvalidProductID = errors.New("product ID must be 8-20 characters, letters, digits and hyphens only")

// ErrPriceNotPositive is returned when the entered price does not parse to a
// number greater than zero.
var ErrPriceNotPositive = errors.New("price must be a number greater than 0")

// MissingFieldsError aggregates every required field left empty, in form
// order, so the whole set can be surfaced in a single message.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "please fill the following fields: " + strings.Join(e.Fields, ", ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("display"); name != "" {
			return name
		}
		return fld.Name
	})

	v.RegisterValidation("productid", func(fl validator.FieldLevel) bool {
		return productIDPattern.MatchString(fl.Field().String())
	})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		d := sl.Current().Interface().(Draft)
		if IsOSRAMBearing(d.Category) {
			if strings.TrimSpace(d.OS) == "" {
				sl.ReportError(d.OS, "OS", "OS", "required", "")
			}
			if strings.TrimSpace(d.RAM) == "" {
				sl.ReportError(d.RAM, "RAM", "RAM", "required", "")
			}
		}
		if IsAccessory(d.Category) && strings.TrimSpace(d.AccessoryType) == "" {
			sl.ReportError(d.AccessoryType, "Accessory Type", "AccessoryType", "required", "")
		}
	}, Draft{})

	return v
}

// Validate applies the submission rules in order: required-field presence
// first (including the category-conditional OS/RAM and accessory sub-type
// rules), then the product id format. The first failing rule set wins.
func (d Draft) Validate() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate device draft: %w", err)
	}

	var missing []string
	formatFailed := false
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			missing = append(missing, fe.Field())
		case "productid":
			formatFailed = true
		}
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	if formatFailed {
		return ErrInvalidProductID
	}
	return fmt.Errorf("validate device draft: %w", err)
}

// ParsePrice parses the entered price and enforces the positive-price guard
// that runs before create and update calls.
func ParsePrice(s string) (float64, error) {
	p, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || p <= 0 {
		return 0, ErrPriceNotPositive
	}
	return p, nil
}
