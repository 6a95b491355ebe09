// Package validation provides checked deserialization for tool responses.
//
// Field-level rules live in the primitive types (NonEmptyString, PositiveInt,
// PositiveUint, NonEmptyStrings), which reject bad values while the payload
// is being decoded. Cross-field invariants that cannot be checked per field
// implement Validatable and run after decoding. Decode ties both together:
// a value either passes everything or is never returned.
package validation

import (
	"errors"
	"fmt"

	"github.com/mcpbridge/go-mcpbridge/src/json"
)

// NonEmptyString is a string that rejects the empty value during decoding.
type NonEmptyString string

func (s *NonEmptyString) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		return errors.New("string cannot be empty")
	}
	*s = NonEmptyString(raw)
	return nil
}

// PositiveInt is an int64 that rejects values <= 0 during decoding.
type PositiveInt int64

func (n *PositiveInt) UnmarshalJSON(data []byte) error {
	var raw int64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw <= 0 {
		return fmt.Errorf("expected positive number, got %d", raw)
	}
	*n = PositiveInt(raw)
	return nil
}

// PositiveUint is a uint64 that rejects zero during decoding.
type PositiveUint uint64

func (n *PositiveUint) UnmarshalJSON(data []byte) error {
	var raw uint64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == 0 {
		return errors.New("expected positive non-zero number")
	}
	*n = PositiveUint(raw)
	return nil
}

// NonEmptyStrings is a string slice that rejects any empty element during
// decoding.
type NonEmptyStrings []string

func (v *NonEmptyStrings) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for idx, s := range raw {
		if s == "" {
			return fmt.Errorf("string at index %d cannot be empty", idx)
		}
	}
	*v = NonEmptyStrings(raw)
	return nil
}

// Validatable is implemented by response types whose invariants span fields,
// such as a count field paired with the collection it describes.
type Validatable interface {
	// Validate checks the value's cross-field invariants.
	Validate() error
}

// CountMismatchError formats a count-versus-length violation consistently.
func CountMismatchError(field string, count, actual int) error {
	return fmt.Errorf("%s field value (%d) does not match actual length (%d)", field, count, actual)
}

// Decode unmarshals data into T and, when T implements Validatable, runs its
// post-decode validation. Partially valid values are never returned.
func Decode[T any](data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, err
	}
	if val, ok := any(&v).(Validatable); ok {
		if err := val.Validate(); err != nil {
			var zero T
			return zero, err
		}
	}
	return v, nil
}
