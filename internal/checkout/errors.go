package checkout

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidSelection = errors.New("invalid delivery or payment method")
	ErrInvalidAddress   = errors.New("invalid address")
)

// AddressError carries per-field failures keyed by json field name.
type AddressError struct {
	Fields map[string]string
}

func (e *AddressError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return fmt.Sprintf("%s (%s)", ErrInvalidAddress, strings.Join(parts, ", "))
}

func (e *AddressError) Is(target error) bool {
	return target == ErrInvalidAddress
}
