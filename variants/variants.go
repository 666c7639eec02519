// Package variants holds the built-in component variants.
//
// Each constructor returns a fresh *lieutenant.Variant, so callers can adjust
// it before defining it:
//
//	reg.Define(
//	    variants.Plain(),
//	    variants.Card().Loading(skeleton),
//	    variants.FormCard().Sensitive(),
//	    variants.Hello(),
//	)
package variants

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/pthm/lieutenant"
	"github.com/pthm/lieutenant/lib/fetch"
	"github.com/pthm/lieutenant/lib/markup"
)

// Element names of the built-in variants.
const (
	PlainElement    = "lut-plain"
	CardElement     = "lut-card"
	FormCardElement = "lut-form-card"
	HelloElement    = "lut-hello"
)

// Attribute names the built-in hooks look for in loaded content.
const (
	FieldAttr = "data-field"
	SlotAttr  = "data-slot"
)

// Plain shows its content and does nothing else.
func Plain() *lieutenant.Variant {
	return lieutenant.NewVariant(PlainElement)
}

// Card fetches the JSON object at Attributes.Data once its content is
// Ready and writes the values into the elements marked with data-field:
//
//	<h1 data-field="title"></h1>
//	<span data-field="author.name"></span>
//
// Dotted names walk nested objects. Fields without a value keep their
// markup. A card without a Data locator behaves like Plain.
func Card() *lieutenant.Variant {
	return lieutenant.NewVariant(CardElement).OnReady(lieutenant.ReadyFunc(fillCard))
}

func fillCard(ctx context.Context, inst *lieutenant.Instance) error {
	attrs := inst.Attributes()
	if attrs.Data == "" {
		return nil
	}

	var data map[string]any
	err := inst.Nested(ctx, attrs.Loading, func(ctx context.Context) error {
		return inst.Fetcher().JSON(ctx, attrs.Data, &data)
	})
	if err != nil {
		// The instance shows the error display already.
		return nil
	}

	return inst.Update(func(s *lieutenant.Scope) error {
		filled := 0
		for _, n := range s.FindAll(markup.HasAttr(FieldAttr, "")) {
			key, _ := markup.Attr(n, FieldAttr)
			if v, ok := lookup(data, key); ok {
				markup.SetText(n, format(v))
				filled++
			}
		}
		inst.Logger().Debug("card filled", zap.String("data", attrs.Data), zap.Int("fields", filled))
		return nil
	})
}

// FormCard fetches the form markup at Attributes.Form once its content is
// Ready and places it in the element marked data-slot="form", replacing
// that element's children. Without a slot the form is appended to the
// content. A form card without a Form locator behaves like Plain.
func FormCard() *lieutenant.Variant {
	return lieutenant.NewVariant(FormCardElement).OnReady(lieutenant.ReadyFunc(insertForm))
}

func insertForm(ctx context.Context, inst *lieutenant.Instance) error {
	attrs := inst.Attributes()
	if attrs.Form == "" {
		return nil
	}

	var form fetch.Form
	err := inst.Nested(ctx, attrs.Loading, func(ctx context.Context) error {
		var err error
		form, err = inst.Fetcher().Form(ctx, attrs.Form)
		return err
	})
	if err != nil {
		return nil
	}

	return inst.Update(func(s *lieutenant.Scope) error {
		slot := s.Find(markup.HasAttr(SlotAttr, "form"))
		if slot == nil {
			s.Append(form.Nodes...)
			return nil
		}
		removeChildren(slot)
		for _, n := range form.Nodes {
			slot.AppendChild(n)
		}
		return nil
	})
}

// Hello writes Attributes.Text into every element marked data-field="text":
//
//	<span data-field="text"></span>
func Hello() *lieutenant.Variant {
	return lieutenant.NewVariant(HelloElement).OnReady(lieutenant.ReadyFunc(greet))
}

func greet(ctx context.Context, inst *lieutenant.Instance) error {
	text := inst.Attributes().Text
	return inst.Update(func(s *lieutenant.Scope) error {
		for _, n := range s.FindAll(markup.HasAttr(FieldAttr, "text")) {
			markup.SetText(n, text)
		}
		return nil
	})
}

// All returns one of each built-in variant.
func All() []*lieutenant.Variant {
	return []*lieutenant.Variant{Plain(), Card(), FormCard(), Hello()}
}

// ByName returns a fresh built-in variant by element name.
func ByName(name string) (*lieutenant.Variant, bool) {
	switch name {
	case PlainElement:
		return Plain(), true
	case CardElement:
		return Card(), true
	case FormCardElement:
		return FormCard(), true
	case HelloElement:
		return Hello(), true
	}
	return nil, false
}

func lookup(data map[string]any, key string) (any, bool) {
	var cur any = data
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func format(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}
