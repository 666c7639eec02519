// Package lieutenant provides self-loading UI components for server-rendered
// applications built with Go, Templ templates, and HTMX.
//
// A component instance fetches its own stylesheet and markup, shows a
// loading indicator while it does, and falls back to an error display when
// anything fails. Every component variant shares the same lifecycle; a
// variant only decides what happens once the content is in place.
//
// # Lifecycle
//
// An Instance moves through a fixed state machine:
//
//	Idle → LoadingStyles → LoadingContent → Ready
//
// Mount shows the loading indicator and fetches the stylesheet. The
// stylesheet is compiled and adopted before the content is requested, so
// content never renders unstyled. Once the content is parsed into the
// instance's Scope the instance is Ready and the variant's OnReady hook runs,
// exactly once.
//
// Any fetch or parse failure moves the instance to Error. The display shows
// a static message ("Something went wrong" unless configured otherwise); the
// underlying reason is logged and available from Err:
//
//	inst := lieutenant.NewInstance(card, lieutenant.WithLogger(log))
//	_ = inst.Mount(ctx, lieutenant.Attributes{
//	    Styles:  "theme.css",
//	    Content: "card.html",
//	    Loading: lieutenant.Dimensions{Height: 200, Width: 400},
//	})
//	state, _ := inst.Wait(ctx)
//
// # Nested loading
//
// A Ready instance can take a detour to load more: EnterNestedLoading stashes
// the current output and shows a loading indicator, ExitNestedLoading either
// restores the stashed nodes as they were or moves to Error. Nested wraps the
// pair around a function:
//
//	err := inst.Nested(ctx, d, func(ctx context.Context) error {
//	    return inst.Fetcher().JSON(ctx, inst.Attributes().Data, &data)
//	})
//
// Restoring never re-runs OnReady and never re-fetches content.
//
// # Variants
//
// Variants replace subclassing. A Variant is an element name plus optional
// ReadyHook, LoadingView and ErrorView values. The variants package ships
// plain, card, form card and hello variants.
//
// # Registration and serving
//
// Variants are defined on a Registry. Defining an element twice, or with a
// name that is not a valid custom-element name, panics:
//
//	reg := lieutenant.NewRegistry(key, lieutenant.WithLogger(log))
//	reg.Define(variants.Card(), variants.FormCard())
//	http.Handle(reg.Path(), reg.Handler())
//
// Pages embed a placeholder with Element. htmx requests the handler on load,
// the handler mounts a fresh instance, waits for it to settle and returns its
// output as a declarative shadow root, so each component's stylesheet only
// applies to its own content.
//
// Attributes travel in the placeholder URL, signed by default and encrypted
// for variants marked Sensitive.
//
// Applications that prefer a single process-wide registry call Init once at
// startup and use Default and Define afterwards.
package lieutenant
