// Package validate corrects extracted receipt fields through AI prompts,
// scoring each correction with the shared similarity metric. Validation is
// gated to supported regions and degrades per field, never per receipt.
package validate

import (
	"strings"

	"github.com/warrantyvault/warranty-tracker/constants"
	"github.com/warrantyvault/warranty-tracker/internal/receipt"
	"github.com/warrantyvault/warranty-tracker/internal/similarity"
)

// InRegion reports whether the receipt is eligible for field validation.
// Checks run in order: country allowlist, known regional retailer match on
// the store name, regional city/state token in the purchase location.
func InRegion(r receipt.Receipt) bool {
	country := strings.ToLower(strings.TrimSpace(r.Country))
	if country != "" {
		for _, c := range constants.SupportedCountries {
			if country == c {
				return true
			}
		}
	}

	if strings.TrimSpace(r.StoreName) != "" {
		for _, retailer := range constants.KnownRetailers {
			if similarity.IsSimilar(r.StoreName, retailer) {
				return true
			}
		}
	}

	loc := strings.ToLower(r.PurchaseLocation)
	if strings.TrimSpace(loc) != "" {
		for _, tok := range constants.RegionTokens {
			if strings.Contains(loc, tok) {
				return true
			}
		}
	}
	return false
}
