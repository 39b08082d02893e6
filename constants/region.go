package constants

// Validation is currently rolled out to Australia and New Zealand only.
// The gate checks country, then known retailers, then location tokens.

// SupportedCountries lists country names/codes eligible for field validation.
var SupportedCountries = []string{
	"australia", "au", "aus",
	"new zealand", "nz", "nzl",
}

// KnownRetailers are regional store names that pass the gate even when the
// country field is missing or garbled by OCR.
var KnownRetailers = []string{
	"JB Hi-Fi",
	"Harvey Norman",
	"The Good Guys",
	"Officeworks",
	"Bunnings",
	"Kmart",
	"Big W",
	"Target Australia",
	"Myer",
	"David Jones",
	"Bing Lee",
	"Apple Store",
	"Noel Leeming",
	"PB Tech",
	"The Warehouse",
}

// RegionTokens are city/state markers looked up in the purchase location text.
var RegionTokens = []string{
	"sydney", "melbourne", "brisbane", "perth", "adelaide", "canberra",
	"hobart", "darwin", "gold coast",
	"nsw", "vic", "qld", "wa", "sa", "act", "tas", "nt",
	"auckland", "wellington", "christchurch", "hamilton", "dunedin",
}
