package lieutenant

import (
	"github.com/a-h/templ"
	"go.uber.org/zap"
)

// WireAttrs builds the htmx attributes that make an element load a rendered
// instance from url as soon as it is on the page.
//
// Element writes these for you. Use WireAttrs when a template writes its
// own element tag:
//
//	<lut-card class="wide" { reg.Wire("lut-card", attrs, lieutenant.SwapInner)... }>
//	    @lieutenant.Spinner(attrs.Loading)
//	</lut-card>
func WireAttrs(url string, swap SwapMode) templ.Attributes {
	if swap == "" {
		swap = SwapInner
	}
	return templ.Attributes{
		"hx-get":     url,
		"hx-trigger": "load",
		"hx-swap":    string(swap),
	}
}

// Wire returns the htmx attributes loading the named element with attrs.
// An unknown element yields no attributes.
func (reg *Registry) Wire(name string, attrs Attributes, swap SwapMode) templ.Attributes {
	u, err := reg.URL(name, attrs)
	if err != nil {
		reg.o.log.Warn("wire failed", zap.String("element", name), zap.Error(err))
		return templ.Attributes{}
	}
	return WireAttrs(u, swap)
}
