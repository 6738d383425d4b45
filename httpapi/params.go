package httpapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// MissingError is raised when a required parameter is absent from the
// request, per spec.md §4.E's parameter coercion table.
type MissingError struct {
	Param string
}

func NewMissingError(param string) *MissingError { return &MissingError{Param: param} }

func (e *MissingError) Error() string { return "missing parameter: " + e.Param }

// InvalidTypeError is raised when a parameter is present but does not parse
// as its expected type.
type InvalidTypeError struct {
	Param    string
	Expected string
}

func NewInvalidTypeError(param, expected string) *InvalidTypeError {
	return &InvalidTypeError{Param: param, Expected: expected}
}

func (e *InvalidTypeError) Error() string {
	return "invalid parameter " + e.Param + ": expected " + e.Expected
}

// NotFoundError signals a resource named by a parameter (e.g. a channel id)
// does not exist, distinct from a malformed parameter.
type NotFoundError struct {
	Resource string
}

func NewNotFoundError(resource string) *NotFoundError { return &NotFoundError{Resource: resource} }

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// Getter reads typed form/query parameters from an echo.Context, raising
// MissingError/InvalidTypeError by parameter name as spec.md §4.E requires.
type Getter struct {
	c echo.Context
}

func NewGetter(c echo.Context) Getter { return Getter{c: c} }

func (g Getter) raw(name string) string {
	if v := g.c.FormValue(name); v != "" {
		return v
	}
	return g.c.QueryParam(name)
}

// GetString returns the named parameter, or MissingError if absent.
func (g Getter) GetString(name string) (string, error) {
	v := g.raw(name)
	if v == "" {
		return "", NewMissingError(name)
	}
	return v, nil
}

// GetOptionalString returns the named parameter, or "" if absent.
func (g Getter) GetOptionalString(name string) string {
	return g.raw(name)
}

// GetUint64 parses the named parameter as a non-negative integer.
func (g Getter) GetUint64(name string) (uint64, error) {
	v, err := g.GetString(name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, NewInvalidTypeError(name, "uint64")
	}
	return n, nil
}

// GetOptionalUint64 returns a parsed pointer, or nil if the parameter is
// absent. An InvalidTypeError is still raised if present but unparseable.
func (g Getter) GetOptionalUint64(name string) (*uint64, error) {
	v := g.raw(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return nil, NewInvalidTypeError(name, "uint64")
	}
	return &n, nil
}

// GetOptionalUint32 mirrors GetOptionalUint64 at 32 bits, for parameters
// like expirySeconds.
func (g Getter) GetOptionalUint32(name string) (*uint32, error) {
	v := g.raw(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return nil, NewInvalidTypeError(name, "uint32")
	}
	n32 := uint32(n)
	return &n32, nil
}

// GetBool parses the named parameter as "true"/"false", defaulting to false
// when absent.
func (g Getter) GetBool(name string) (bool, error) {
	v := g.raw(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, NewInvalidTypeError(name, "bool")
	}
	return b, nil
}
