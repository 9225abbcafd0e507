package products

import (
	"math"
	"net/url"
	"regexp"
	"unicode/utf8"
)

const (
	NameMinLen = 2
	NameMaxLen = 100
	PriceMin   = 0.01
	PriceMax   = 999999.99
)

const (
	msgNameRequired = "Product name is required"
	msgNameMin      = "Product name must be at least 2 characters"
	msgNameMax      = "Product name must be less than 100 characters"
	msgNameInvalid  = "Product name contains invalid characters"

	msgPriceType     = "Price must be a valid number"
	msgPriceMin      = "Price must be at least $0.01"
	msgPriceMax      = "Price must be less than $999,999.99"
	msgPriceDecimals = "Price cannot have more than 2 decimal places"

	msgImageRequired = "Product image URL is required"
	msgImageURL      = "Please enter a valid URL"
	msgImageProtocol = "URL must start with http:// or https://"
)

var nameAllowed = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.,!&()]+$`)

// Result is the outcome of validating a sanitized product. All field checks
// run; Errors holds one message per failing field and "" for passing fields.
type Result struct {
	IsValid   bool        `json:"isValid"`
	Errors    FieldErrors `json:"errors"`
	Sanitized Canonical   `json:"sanitizedData"`
}

// Validate checks a canonical product against the business rules. It never
// short-circuits: every field is evaluated and reported independently.
func Validate(c Canonical) Result {
	errs := FieldErrors{
		Name:  validateName(c.Name),
		Price: validatePrice(c.Price),
		Image: validateImage(c.Image),
	}
	return Result{
		IsValid:   errs.Empty(),
		Errors:    errs,
		Sanitized: c,
	}
}

// ValidateField re-runs the rule set for a single field, sanitizing the given
// value first. It shares the per-field rule functions with Validate, so for
// the same sanitized value the message is identical to Validate's.
func ValidateField(field string, value any, rest Canonical) string {
	switch field {
	case "name":
		return validateName(SanitizeName(value))
	case "price":
		return validatePrice(SanitizePrice(value))
	case "image":
		return validateImage(SanitizeImage(value))
	default:
		return ""
	}
}

func validateName(name string) string {
	if name == "" {
		return msgNameRequired
	}
	if n := utf8.RuneCountInString(name); n < NameMinLen {
		return msgNameMin
	} else if n > NameMaxLen {
		return msgNameMax
	}
	if !nameAllowed.MatchString(name) {
		return msgNameInvalid
	}
	return ""
}

func validatePrice(price float64) string {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return msgPriceType
	}
	if price < PriceMin {
		return msgPriceMin
	}
	if price > PriceMax {
		return msgPriceMax
	}
	if math.Round(price*100)/100 != price {
		return msgPriceDecimals
	}
	return ""
}

func validateImage(image string) string {
	if image == "" {
		return msgImageRequired
	}
	u, err := url.Parse(image)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return msgImageURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return msgImageProtocol
	}
	return ""
}
