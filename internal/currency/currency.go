// Package currency provides the static country→currency fallback table used
// when the AI currency lookup is unavailable.
package currency

import "strings"

// Info describes a currency.
type Info struct {
	Code   string `json:"currency_code"`
	Name   string `json:"currency_name"`
	Symbol string `json:"currency_symbol"`
}

var (
	usd = Info{Code: "USD", Name: "US Dollar", Symbol: "$"}
	aed = Info{Code: "AED", Name: "UAE Dirham", Symbol: "د.إ"}
	gbp = Info{Code: "GBP", Name: "British Pound", Symbol: "£"}
	cad = Info{Code: "CAD", Name: "Canadian Dollar", Symbol: "$"}
	aud = Info{Code: "AUD", Name: "Australian Dollar", Symbol: "$"}
	eur = Info{Code: "EUR", Name: "Euro", Symbol: "€"}
	jpy = Info{Code: "JPY", Name: "Japanese Yen", Symbol: "¥"}
	inr = Info{Code: "INR", Name: "Indian Rupee", Symbol: "₹"}
	cny = Info{Code: "CNY", Name: "Chinese Yuan", Symbol: "¥"}
	nzd = Info{Code: "NZD", Name: "New Zealand Dollar", Symbol: "$"}
)

var byCountry = map[string]Info{
	"united states":        usd,
	"usa":                  usd,
	"us":                   usd,
	"united arab emirates": aed,
	"uae":                  aed,
	"ae":                   aed,
	"united kingdom":       gbp,
	"uk":                   gbp,
	"gb":                   gbp,
	"great britain":        gbp,
	"canada":               cad,
	"ca":                   cad,
	"australia":            aud,
	"au":                   aud,
	"germany":              eur,
	"de":                   eur,
	"france":               eur,
	"fr":                   eur,
	"japan":                jpy,
	"jp":                   jpy,
	"india":                inr,
	"in":                   inr,
	"china":                cny,
	"cn":                   cny,
	"new zealand":          nzd,
	"nz":                   nzd,
}

// Lookup resolves a country name or code to its currency. Matching is
// case-insensitive and tolerant of surrounding whitespace.
func Lookup(country string) (Info, bool) {
	info, ok := byCountry[strings.ToLower(strings.TrimSpace(country))]
	return info, ok
}
