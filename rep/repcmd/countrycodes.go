// This file contains the country-name-to-ISO-3166-alpha-2 lookup table
// used by the naming engine, and its normalization entry point.

package repcmd

import "strings"

// countryCodeMap maps upper-cased country names (and their already-short
// codes) to a two-letter code. Entries for the already-short codes are
// appended by init() so every valid code is also its own identity mapping.
var countryCodeMap = map[string]string{
	"RUSSIA":        "RU",
	"GERMANY":       "DE",
	"USA":           "US",
	"POLAND":        "PL",
	"FRANCE":        "FR",
	"SPAIN":         "ES",
	"ITALY":         "IT",
	"NETHERLANDS":   "NL",
	"BELGIUM":       "BE",
	"SWEDEN":        "SE",
	"NORWAY":        "NO",
	"DENMARK":       "DK",
	"FINLAND":       "FI",
	"AUSTRIA":       "AT",
	"SWITZERLAND":   "CH",
	"PORTUGAL":      "PT",
	"GREECE":        "GR",
	"CZECHREPUBLIC": "CZ",
	"CZECH":         "CZ",
	"SLOVAKIA":      "SK",
	"HUNGARY":       "HU",
	"ROMANIA":       "RO",
	"BULGARIA":      "BG",
	"CROATIA":       "HR",
	"SERBIA":        "RS",
	"SLOVENIA":      "SI",
	"UKRAINE":       "UA",
	"BELARUS":       "BY",
	"LITHUANIA":     "LT",
	"LATVIA":        "LV",
	"ESTONIA":       "EE",
	"ICELAND":       "IS",
	"IRELAND":       "IE",
	"UNITEDKINGDOM": "GB",
	"UK":            "GB",
	"BRITAIN":       "GB",
	"GREATBRITAIN":  "GB",
	"ENGLAND":       "GB",
	"SCOTLAND":      "GB",
	"WALES":         "GB",
	"CANADA":        "CA",
	"MEXICO":        "MX",
	"BRAZIL":        "BR",
	"ARGENTINA":     "AR",
	"CHILE":         "CL",
	"COLOMBIA":      "CO",
	"PERU":          "PE",
	"VENEZUELA":     "VE",
	"AUSTRALIA":     "AU",
	"NEWZEALAND":    "NZ",
	"JAPAN":         "JP",
	"CHINA":         "CN",
	"SOUTHKOREA":    "KR",
	"KOREA":         "KR",
	"INDIA":         "IN",
	"THAILAND":      "TH",
	"VIETNAM":       "VN",
	"INDONESIA":     "ID",
	"MALAYSIA":      "MY",
	"SINGAPORE":     "SG",
	"PHILIPPINES":   "PH",
	"TAIWAN":        "TW",
	"HONGKONG":      "HK",
	"ISRAEL":        "IL",
	"TURKEY":        "TR",
	"SOUTHAFRICA":   "ZA",
	"EGYPT":         "EG",
	"MOROCCO":       "MA",
}

func init() {
	// Every short code is also valid input as-is (identity mapping), the
	// way the original table spells both forms out by hand.
	codes := make(map[string]bool)
	for _, code := range countryCodeMap {
		codes[code] = true
	}
	for code := range codes {
		countryCodeMap[code] = code
	}
}

// AddCountryCodeOverrides merges additional or corrected name-to-code
// entries into the lookup table, keyed the same way NormalizeCountryCode
// normalizes its input, letting a deployment extend the built-in table
// via config without recompiling it.
func AddCountryCodeOverrides(overrides map[string]string) {
	for name, code := range overrides {
		key := strings.ToUpper(name)
		key = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(key)
		countryCodeMap[key] = strings.ToUpper(code)
	}
}

// NormalizeCountryCode converts a free-form country name or code into a
// two-letter code. Unrecognized input falls back to its own first two
// upper-cased characters (or the upper-cased input as-is, if shorter).
func NormalizeCountryCode(country string) string {
	key := strings.ToUpper(country)
	key = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(key)
	if code, ok := countryCodeMap[key]; ok {
		return code
	}
	if len(key) >= 2 {
		return key[:2]
	}
	return key
}
