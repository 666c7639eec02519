package lieutenant

import (
	"fmt"
	"regexp"
)

// elementName follows the custom-element naming rule: lowercase, starts
// with a letter, contains a hyphen.
var elementName = regexp.MustCompile(`^[a-z][a-z0-9._]*-[a-z0-9._-]*$`)

// Variant describes one kind of component: its element name, the hook run
// once it is Ready, and how its loading and error states look.
//
// Variants replace subclassing. A card, a form card and a plain block all
// share the same lifecycle and differ only in the values set here:
//
//	card := lieutenant.NewVariant("lut-card").
//	    OnReady(lieutenant.ReadyFunc(fillFields)).
//	    Loading(mySkeleton)
//
// A Variant is immutable once defined in a Registry.
type Variant struct {
	name      string
	hook      ReadyHook
	loading   LoadingView
	errorView ErrorView
	sensitive bool
}

// NewVariant creates a variant with the default spinner and error box and
// no hook.
func NewVariant(name string) *Variant {
	return &Variant{
		name:      name,
		loading:   Spinner,
		errorView: ErrorBox,
	}
}

// OnReady sets the extension hook. A nil hook is a no-op.
func (v *Variant) OnReady(h ReadyHook) *Variant {
	v.hook = h
	return v
}

// Loading sets the loading render strategy.
func (v *Variant) Loading(view LoadingView) *Variant {
	if view != nil {
		v.loading = view
	}
	return v
}

// Error sets the error render strategy.
func (v *Variant) Error(view ErrorView) *Variant {
	if view != nil {
		v.errorView = view
	}
	return v
}

// Sensitive makes the registry encrypt this variant's attribute tokens
// instead of only signing them.
func (v *Variant) Sensitive() *Variant {
	v.sensitive = true
	return v
}

// Name returns the element name.
func (v *Variant) Name() string {
	return v.name
}

// Hook returns the extension hook, or nil.
func (v *Variant) Hook() ReadyHook {
	return v.hook
}

// IsSensitive reports whether attribute tokens are encrypted.
func (v *Variant) IsSensitive() bool {
	return v.sensitive
}

func (v *Variant) validate() error {
	if !elementName.MatchString(v.name) {
		return fmt.Errorf("lieutenant: invalid element name %q: must be lowercase and contain a hyphen", v.name)
	}
	return nil
}
