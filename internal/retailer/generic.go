package retailer

import (
	"github.com/tidwall/gjson"
)

// Generic applies common stock flags for vendors without a dedicated kind.
type Generic struct{}

// ID implements Kind.
func (Generic) ID() KindID { return KindGeneric }

// RequiresLocation implements Kind.
func (Generic) RequiresLocation() bool { return true }

// ProductLink implements Kind.
func (Generic) ProductLink(id string) string {
	return "Product ID: " + id
}

// Evaluate implements Kind.
func (Generic) Evaluate(_ string, payload []byte) Verdict {
	return Verdict{Available: GenericAvailability(payload)}
}

// GenericAvailability checks top-level available/inStock flags or positive
// qty/quantity, then the same flags one level down under data.
func GenericAvailability(payload []byte) bool {
	root := gjson.ParseBytes(payload)
	if !root.IsObject() {
		return false
	}

	if isTrue(root.Get("available")) || isTrue(root.Get("inStock")) {
		return true
	}
	if positive(root.Get("qty")) || positive(root.Get("quantity")) {
		return true
	}

	data := root.Get("data")
	if !data.IsObject() {
		return false
	}
	return isTrue(data.Get("available")) || positive(data.Get("qty"))
}

func isTrue(r gjson.Result) bool {
	return r.Type == gjson.True
}

func positive(r gjson.Result) bool {
	return r.Type == gjson.Number && r.Num > 0
}
