package design

import (
	"strings"

	"github.com/go-openapi/inflect"
)

var (
	rules    = ruleset()
	acronyms = make(map[string]bool)
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	// Common initialisms from golint.
	for _, w := range []string{"API", "DNS", "HTML", "HTTP", "ID", "IP", "JSON", "SQL", "TCP", "UID", "URI", "URL", "UUID", "XML"} {
		acronyms[w] = true
		rules.AddAcronym(w)
	}
	return rules
}

// GoName converts a model name to an exported Go identifier, e.g.
// "LAST_ORDER" to "LastOrder" and "ID" to "ID".
func GoName(name string) string {
	words := strings.Split(strings.ToLower(name), "_")
	for i, w := range words {
		upper := strings.ToUpper(w)
		if acronyms[upper] {
			words[i] = upper
		} else {
			words[i] = rules.Capitalize(w)
		}
	}
	return strings.Join(words, "")
}

// Plural returns the plural form of a model name in lower snake case,
// e.g. "Customer" to "customers".
func Plural(name string) string {
	return strings.ToLower(rules.Underscore(rules.Pluralize(name)))
}

// Snake returns a model name in lower snake case, e.g. "OrderLine" to
// "order_line".
func Snake(name string) string {
	return strings.ToLower(rules.Underscore(name))
}
