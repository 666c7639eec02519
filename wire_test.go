package lieutenant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWireAttrs(t *testing.T) {
	attrs := WireAttrs("/_lut/lut-card?p=abc", "")

	assert.Equal(t, "/_lut/lut-card?p=abc", attrs["hx-get"])
	assert.Equal(t, "load", attrs["hx-trigger"])
	assert.Equal(t, "innerHTML", attrs["hx-swap"])

	attrs = WireAttrs("/x", SwapBeforeEnd)
	assert.Equal(t, "beforeend", attrs["hx-swap"])
}

func TestRegistry_Wire(t *testing.T) {
	reg := newTestRegistry(t, NewStaticFetcher())

	attrs := reg.Wire("lut-card", cardAttrs, SwapOuter)
	get, ok := attrs["hx-get"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(get, "/_lut/lut-card?p="))
	assert.Equal(t, "outerHTML", attrs["hx-swap"])

	assert.Empty(t, reg.Wire("lut-missing", cardAttrs, SwapInner))
}

func TestSettledTrigger(t *testing.T) {
	got := Settled{Element: "lut-card", Instance: "id-1", State: "error"}.TriggerJSON()
	assert.JSONEq(t, `{"lut:settled":{"element":"lut-card","instance":"id-1","state":"error"}}`, got)
}

func TestHandlerRaisesSettledEvent(t *testing.T) {
	reg := newTestRegistry(t, cardFetcher())

	rec, err := TestGet(reg, "lut-card", cardAttrs, true)
	require.NoError(t, err)

	trigger := rec.Header().Get("HX-Trigger")
	assert.Contains(t, trigger, `"lut:settled"`)
	assert.Contains(t, trigger, `"element":"lut-card"`)
	assert.Contains(t, trigger, `"state":"ready"`)
}
