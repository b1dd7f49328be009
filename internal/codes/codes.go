// Package codes holds the static zoning, land-use, and acronym dictionaries
// and annotates rendered text with <abbr> glosses.
package codes

import (
	"html"
	"regexp"
	"sort"
)

// Zoning maps zoning classification codes to their published names.
var Zoning = map[string]string{
	"AC":   "Agriculture and Conservation",
	"RE":   "Residential Estate",
	"RA-1": "Single Family Residential (12,000 sq. ft.)",
	"RA-2": "Single Family Residential (9,000 sq. ft.)",
	"RA-3": "Single Family Residential (7,000 sq. ft.)",
	"RA-4": "Single Family Residential (6,000 sq. ft.)",
	"RB-1": "Medium Density Residential",
	"RB-2": "Medium Density Residential/Office",
	"RC-1": "Multiple Family Medium Density Residential",
	"RC-2": "Multiple Family High Density Residential",
	"MH":   "Mobile Home",
	"MHP":  "Mobile Home Park",
	"RPB":  "Residential Professional Business",
	"B-2":  "Neighborhood Commercial",
	"B-3":  "General Commercial",
	"HC":   "Highway Commercial",
	"B-5":  "Office Commercial",
	"BP":   "Business Park",
	"IB":   "Industrial Business",
	"AO":   "Airport Operations",
	"AI":   "Airport Industrial",
	"CF":   "Community Facilities",
	"HF":   "Hospital Facilities",
	"UT":   "Utilities",
	"OS":   "Open Space",
	"T1":   "Natural",
	"T3":   "Edge",
	"T4-R": "Neighborhood Restricted",
	"TD":   "Neighborhood Open",
	"T5-U": "Mixed-Use Urban Core",
	"T5-M": "Mixed-Use Center",
	"T6":   "Waterfront",
	"SD":   "Special District",
	"PUD":  "Planned Unit Development",
	"REC":  "Recreation",
}

// LandUse maps future land use codes to their published names.
var LandUse = map[string]string{
	"SF-LDR": "Single Family Low Density Residential",
	"SF-MDR": "Single Family Medium Density Residential",
	"MF-MDR": "Multiple Family Medium Density Residential",
	"MH-MDR": "Mobile Home Medium Density Residential",
	"MU":     "Mixed Use",
	"MU-D":   "Mixed-Use Downtown",
	"MU-V":   "Mixed-Use Vine",
	"MU-T":   "Mixed-Use Tapestry",
	"MU-FR":  "Mixed-Use Flora Ridge",
	"CG":     "Commercial General",
	"OR":     "Office-Residential",
	"IN":     "Industrial Business",
	"REC":    "Recreation",
	"CONS":   "Conservation",
	"INST":   "Institutional",
	"UT":     "Utilities",
	"AE":     "Airport Expansion",
	"MMTD":   "Multimodal Transportation District",
}

// Acronyms maps common acronyms that appear in notice text.
var Acronyms = map[string]string{
	"PAB":   "Planning Advisory Board",
	"MUPUD": "Mixed Use Planned Urban Development",
}

type glossRule struct {
	re   *regexp.Regexp
	repl string
}

// glossRules is built once, longest code first, so compound codes like
// "MU-FR" win over their shorter prefixes.
var glossRules = buildGlossRules()

func buildGlossRules() []glossRule {
	all := make(map[string]string, len(Zoning)+len(LandUse)+len(Acronyms))
	for k, v := range Zoning {
		all[k] = v
	}
	for k, v := range LandUse {
		all[k] = v
	}
	for k, v := range Acronyms {
		all[k] = v
	}

	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	rules := make([]glossRule, 0, len(keys))
	for _, code := range keys {
		// A code counts only at a word boundary and when followed by
		// whitespace, a paren, a comma, end of text, or a dash that does
		// not start another word ("MU-FR" must never gloss as "MU").
		re := regexp.MustCompile(`\b(` + regexp.QuoteMeta(code) + `)([\s(),]|$|-([^0-9A-Za-z_]|$))`)
		repl := `<abbr title="` + html.EscapeString(all[code]) + `">$1</abbr>$2`
		rules = append(rules, glossRule{re: re, repl: repl})
	}
	return rules
}

// Gloss wraps every known zoning code, land use code, and acronym in text
// with an <abbr> tag carrying the human-readable name. Text is expected to
// be HTML-escaped already.
func Gloss(text string) string {
	if text == "" {
		return text
	}
	for _, r := range glossRules {
		text = r.re.ReplaceAllString(text, r.repl)
	}
	return text
}
