// Package validation checks API request bodies and config sections.
//
// Struct tags are evaluated with go-playground/validator; field names in
// messages use the json tag, falling back to snake_case. Programmatic checks
// collect errors with the chainable Validator. Both report failures as an
// INVALID_INPUT *errors.AppError whose details list the failing fields.
//
//	type cacheWrite struct {
//	    Addresses []string `json:"addresses" validate:"required,min=1,dive,url"`
//	}
//	if err := validation.Validate(body); err != nil { ... }
//
//	err := validation.New().
//	    Required("service", svc).
//	    NoWhitespace("service", svc).
//	    Validate()
package validation
