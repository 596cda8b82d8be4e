package pricing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxQuantity caps a single configuration so totals stay far from overflow.
const MaxQuantity = 10000

// Flag is an add-on toggle as submitted by the storefront forms. It keeps the
// raw text so that Validate can reject values that are neither on nor off.
type Flag string

// UnmarshalJSON accepts JSON booleans, numbers and strings such as "yes".
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Flag(s)
		return nil
	}
	*f = Flag(data)
	return nil
}

// Bool interprets the flag.
func (f Flag) Bool() (bool, error) {
	switch strings.ToLower(strings.TrimSpace(string(f))) {
	case "", "no", "n", "false", "off", "0":
		return false, nil
	case "yes", "y", "true", "on", "1":
		return true, nil
	}
	return false, ErrInvalidAddOn
}

// Quantity is the raw quantity field; JSON numbers and numeric strings are
// both kept verbatim until validation.
type Quantity string

// UnmarshalJSON stores the literal text of the quantity.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*q = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = Quantity(s)
		return nil
	}
	*q = Quantity(data)
	return nil
}

// Int parses the quantity. An absent quantity means a single container.
func (q Quantity) Int() (int, error) {
	raw := strings.TrimSpace(string(q))
	if raw == "" {
		return 1, nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 1 || n > MaxQuantity {
			return 0, ErrInvalidQuantity
		}
		return n, nil
	}
	d, err := parseBoundedDecimal(raw)
	if err != nil || !d.IsInteger() {
		return 0, ErrInvalidQuantity
	}
	if d.LessThan(decimal.NewFromInt(1)) || d.GreaterThan(decimal.NewFromInt(MaxQuantity)) {
		return 0, ErrInvalidQuantity
	}
	return int(d.IntPart()), nil
}

// RawConfiguration is the loosely typed configuration posted by storefront
// forms. Field names follow the legacy request body.
type RawConfiguration struct {
	ContainerSize    string   `json:"containerSize"`
	ContainerFeature string   `json:"containerFeature"`
	LockingBox       Flag     `json:"lockingBox"`
	ForkLiftPocket   Flag     `json:"forkLiftPocket"`
	EasyOpenDoor     Flag     `json:"easyOpenDoor"`
	VentOpen         Flag     `json:"ventOpen"`
	Logo             Flag     `json:"logo"`
	Insurance        string   `json:"insurance"`
	InsuranceTier    string   `json:"insuranceTier"`
	Quantity         Quantity `json:"quantity"`
}

// Configuration is a validated container configuration.
type Configuration struct {
	Size      ContainerSize `json:"containerSize"`
	Feature   Feature       `json:"containerFeature"`
	AddOns    AddOns        `json:"addOns"`
	Insurance InsuranceTier `json:"insuranceTier"`
	Quantity  int           `json:"quantity"`
}

// Validate converts raw form input into a Configuration. The first invalid
// field is reported as a *ValidationError.
func Validate(raw RawConfiguration) (Configuration, error) {
	var cfg Configuration

	size, ok := ParseContainerSize(raw.ContainerSize)
	if !ok {
		return Configuration{}, &ValidationError{
			Field:   "containerSize",
			Value:   raw.ContainerSize,
			Message: "containerSize must be one of: " + joinValues(containerSizes),
			Err:     ErrInvalidContainerSize,
		}
	}
	cfg.Size = size

	feature, ok := ParseFeature(raw.ContainerFeature)
	if !ok {
		return Configuration{}, &ValidationError{
			Field:   "containerFeature",
			Value:   raw.ContainerFeature,
			Message: "containerFeature must be one of: " + joinValues(features),
			Err:     ErrInvalidFeatureType,
		}
	}
	cfg.Feature = feature

	flags := []struct {
		field string
		value Flag
		addOn AddOn
	}{
		{"lockingBox", raw.LockingBox, AddOnLockingBox},
		{"forkLiftPocket", raw.ForkLiftPocket, AddOnForkLiftPocket},
		{"easyOpenDoor", raw.EasyOpenDoor, AddOnEasyOpenDoor},
		{"ventOpen", raw.VentOpen, AddOnVentilation},
		{"logo", raw.Logo, AddOnLogo},
	}
	for _, f := range flags {
		on, err := f.value.Bool()
		if err != nil {
			return Configuration{}, &ValidationError{
				Field:   f.field,
				Value:   string(f.value),
				Message: fmt.Sprintf("%s must be yes or no", f.field),
				Err:     err,
			}
		}
		if on {
			cfg.AddOns = cfg.AddOns.With(f.addOn)
		}
	}

	tierField, tierValue := "insurance", raw.Insurance
	if strings.TrimSpace(tierValue) == "" && strings.TrimSpace(raw.InsuranceTier) != "" {
		tierField, tierValue = "insuranceTier", raw.InsuranceTier
	}
	tier, ok := ParseInsuranceTier(tierValue)
	if !ok {
		return Configuration{}, &ValidationError{
			Field:   tierField,
			Value:   tierValue,
			Message: tierField + " must be one of: " + joinValues(insuranceTiers),
			Err:     ErrInvalidInsuranceTier,
		}
	}
	cfg.Insurance = tier

	qty, err := raw.Quantity.Int()
	if err != nil {
		return Configuration{}, &ValidationError{
			Field:   "quantity",
			Value:   string(raw.Quantity),
			Message: fmt.Sprintf("quantity must be a whole number between 1 and %d", MaxQuantity),
			Err:     err,
		}
	}
	cfg.Quantity = qty

	return cfg, nil
}
