package coupon

import "strings"

// Result describes the outcome of applying a coupon code.
type Result struct {
	Code     string `json:"code"`
	Percent  int    `json:"percent"`
	Applied  bool   `json:"applied"`
	Message  string `json:"message,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// rule is one entry in the static coupon table.
type rule struct {
	percent  int
	disabled bool
	message  string
}

var table = map[string]rule{
	"SHALOM10": {percent: 10},
	// Free shipping promo is pending a business decision; the code is
	// recognised but must behave as if no valid coupon were entered.
	"FRETEGRATIS": {
		disabled: true,
		message:  "Cupom de frete grátis em manutenção. Tente SHALOM10 para 10% de desconto.",
	},
}

// Apply resolves a coupon code against the static table. Unknown codes reset
// the discount to zero without error; the disabled free-shipping code keeps a
// zero discount but carries an explanatory message.
func Apply(code string) Result {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	r, ok := table[normalized]
	if !ok {
		return Result{Code: normalized}
	}
	if r.disabled {
		return Result{Code: normalized, Disabled: true, Message: r.message}
	}
	return Result{Code: normalized, Percent: r.percent, Applied: true}
}
