package lieutenant

// State is the lifecycle state of an Instance.
type State int

const (
	// Idle is the state before Mount.
	Idle State = iota
	// LoadingStyles waits for the stylesheet.
	LoadingStyles
	// LoadingContent waits for the markup, with the stylesheet applied.
	LoadingContent
	// Ready shows the loaded content.
	Ready
	// StashedLoading shows a nested loading indicator while the Ready
	// output is stashed.
	StashedLoading
	// Error shows the error display. Terminal.
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case LoadingStyles:
		return "loading-styles"
	case LoadingContent:
		return "loading-content"
	case Ready:
		return "ready"
	case StashedLoading:
		return "stashed-loading"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}
