package lieutenant

import (
	"fmt"
	"math"
	"net/url"
)

// DefaultLoading is the loading indicator size used when an instance is
// given none.
var DefaultLoading = Dimensions{Height: 50, Width: 50}

// Dimensions sizes a loading indicator, in pixels.
type Dimensions struct {
	Height float64 `yaml:"height"`
	Width  float64 `yaml:"width"`
}

// IsZero reports whether both sides are unset.
func (d Dimensions) IsZero() bool {
	return d.Height == 0 && d.Width == 0
}

// Positive reports whether both sides are finite and greater than zero.
func (d Dimensions) Positive() bool {
	return positive(d.Height) && positive(d.Width)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Attributes are the declarative inputs of one component instance.
//
// Styles and Content are required. Form and Data are consumed by OnReady
// hooks; Text is free-form input for hooks that only need a value.
type Attributes struct {
	Text    string
	Styles  string
	Content string
	Form    string
	Data    string
	Loading Dimensions
}

// Validate checks the locators and the loading dimensions.
func (a Attributes) Validate() error {
	if err := validLocator("styles", a.Styles, true); err != nil {
		return err
	}
	if err := validLocator("content", a.Content, true); err != nil {
		return err
	}
	if err := validLocator("form", a.Form, false); err != nil {
		return err
	}
	if err := validLocator("data", a.Data, false); err != nil {
		return err
	}
	if !a.Loading.Positive() {
		return fmt.Errorf("%w: loading dimensions must be positive, got %gx%g",
			ErrInvalidAttributes, a.Loading.Height, a.Loading.Width)
	}
	return nil
}

func validLocator(name, v string, required bool) error {
	if v == "" {
		if required {
			return fmt.Errorf("%w: %s resource is required", ErrInvalidAttributes, name)
		}
		return nil
	}
	if _, err := url.Parse(v); err != nil {
		return fmt.Errorf("%w: %s resource: %v", ErrInvalidAttributes, name, err)
	}
	return nil
}

// MarshalMap implements encoding.Marshaler with short keys, keeping tokens
// small.
func (a Attributes) MarshalMap() map[string]any {
	m := map[string]any{
		"s": a.Styles,
		"c": a.Content,
		"h": a.Loading.Height,
		"w": a.Loading.Width,
	}
	if a.Text != "" {
		m["t"] = a.Text
	}
	if a.Form != "" {
		m["f"] = a.Form
	}
	if a.Data != "" {
		m["d"] = a.Data
	}
	return m
}

// UnmarshalMap implements encoding.Unmarshaler.
func (a *Attributes) UnmarshalMap(m map[string]any) error {
	for key, dst := range map[string]*string{
		"t": &a.Text,
		"s": &a.Styles,
		"c": &a.Content,
		"f": &a.Form,
		"d": &a.Data,
	} {
		v, ok := m[key]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: key %q is %T, want string", ErrInvalidToken, key, v)
		}
		*dst = s
	}

	var err error
	if a.Loading.Height, err = number(m, "h"); err != nil {
		return err
	}
	if a.Loading.Width, err = number(m, "w"); err != nil {
		return err
	}
	return nil
}

func number(m map[string]any, key string) (float64, error) {
	switch n := m[key].(type) {
	case nil:
		return 0, nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: key %q is %T, want number", ErrInvalidToken, key, n)
	}
}
