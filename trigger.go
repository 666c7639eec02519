package lieutenant

import (
	jsoniter "github.com/json-iterator/go"
)

// SettledEvent is the htmx event the handler raises on the element once an
// instance has settled:
//
//	document.body.addEventListener("lut:settled", (e) => {
//	    if (e.detail.state === "error") { ... }
//	})
const SettledEvent = "lut:settled"

// Settled describes how a served instance ended up.
type Settled struct {
	Element  string `json:"element"`
	Instance string `json:"instance"`
	State    string `json:"state"`
}

// TriggerJSON returns the payload for the HX-Trigger header.
func (s Settled) TriggerJSON() string {
	data, _ := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(map[string]Settled{
		SettledEvent: s,
	})
	return string(data)
}
