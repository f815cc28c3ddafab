package retailer

import (
	"slices"

	"github.com/tidwall/gjson"
)

// outOfStockErrors are the article error types that mean no stock.
var outOfStockErrors = []string{"OutOfStockError", "FaultyArticleError"}

// RelianceDetails is the first article of an articles response.
type RelianceDetails struct {
	Available    bool
	ErrorMessage string
}

// Notes implements Details.
func (d RelianceDetails) Notes() []string {
	if d.ErrorMessage == "" {
		return nil
	}
	return []string{"⚠️ Note: " + d.ErrorMessage}
}

// RelianceDigital decodes articles inventory responses.
type RelianceDigital struct{}

// ID implements Kind.
func (RelianceDigital) ID() KindID { return KindRelianceDigital }

// RequiresLocation implements Kind.
func (RelianceDigital) RequiresLocation() bool { return true }

// ProductLink implements Kind.
func (RelianceDigital) ProductLink(id string) string {
	return "https://www.reliancedigital.in/product-details?articleId=" + id
}

// Evaluate implements Kind.
func (RelianceDigital) Evaluate(code string, payload []byte) Verdict {
	d := RelianceAvailability(code, payload)
	return Verdict{Available: d.Available, Details: d}
}

// RelianceAvailability inspects the first article. It is available unless
// its error type is one of the out-of-stock types.
func RelianceAvailability(_ string, payload []byte) RelianceDetails {
	list := gjson.GetBytes(payload, "data.articles")
	if !list.IsArray() {
		return RelianceDetails{}
	}
	articles := list.Array()
	if len(articles) == 0 {
		return RelianceDetails{}
	}

	article := articles[0]
	errType := article.Get("error.type").String()

	return RelianceDetails{
		Available:    errType == "" || !slices.Contains(outOfStockErrors, errType),
		ErrorMessage: article.Get("error.message").String(),
	}
}
