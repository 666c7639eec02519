package lieutenant

import (
	"context"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// DefaultErrorMessage is shown by the error display unless reasons are
// exposed or another message is configured.
const DefaultErrorMessage = "Something went wrong"

// Spinner is the default LoadingView: a box of the requested size holding
// a spinner element, styled by the component's own stylesheet.
func Spinner(d Dimensions) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString(`<div class="lut-loading" role="progressbar" aria-busy="true" style="height:`)
		sb.WriteString(px(d.Height))
		sb.WriteString(`;width:`)
		sb.WriteString(px(d.Width))
		sb.WriteString(`"><div class="lut-spinner"></div></div>`)
		_, err := io.WriteString(w, sb.String())
		return err
	})
}

// ErrorBox is the default ErrorView.
func ErrorBox(message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString(`<div class="lut-error" role="alert">`)
		sb.WriteString(html.EscapeString(message))
		sb.WriteString(`</div>`)
		_, err := io.WriteString(w, sb.String())
		return err
	})
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
