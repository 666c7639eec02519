package lieutenant

// SwapMode is the htmx swap strategy used when a rendered instance replaces
// its element placeholder.
//
// See https://htmx.org/attributes/hx-swap/ for visual examples.
type SwapMode string

const (
	// SwapInner replaces the placeholder's contents and keeps the custom
	// element tag. This is the default for Element.
	SwapInner SwapMode = "innerHTML"

	// SwapOuter replaces the element including its tag.
	SwapOuter SwapMode = "outerHTML"

	// SwapBeforeEnd appends the rendered instance after the placeholder
	// contents.
	SwapBeforeEnd SwapMode = "beforeend"
)
