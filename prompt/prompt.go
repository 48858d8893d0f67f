// Package prompt answers free-text questions from a fixed, ordered rule table.
package prompt

import "strings"

// Rule pairs a predicate over lowercased text with a canned answer.
type Rule struct {
	Name     string
	Match    func(text string) bool
	Response string
}

const (
	YieldResponse = "Projected estate yield shows +7.8% YoY under current inputs; pulling harvest forward by 1 week preserves quality with minimal loss."
	CBDResponse   = "CBD spread simulation: without treatment, affected area grows from 12% to 28% in 4 weeks. With copper-based spray + pruning, cap at 15%."
	FertResponse  = "Recommended NPK 17-17-17 at 85% of last cycle for Blocks A1/A2; supplement with foliar feed in Dry Matter stage."
	Fallback      = "I generated a scenario and updated the tiles, charts, and KPIs. Click through tabs for details."
)

// Rules are evaluated in order; the first match wins.
var Rules = []Rule{
	{
		Name:     "yield",
		Match:    func(s string) bool { return containsAll(s, "yield", "next") },
		Response: YieldResponse,
	},
	{
		Name:     "disease",
		Match:    func(s string) bool { return containsAll(s, "simulate") && containsAny(s, "cbd", "disease") },
		Response: CBDResponse,
	},
	{
		Name:     "fertilizer",
		Match:    func(s string) bool { return containsAny(s, "fertilizer", "nutrient") },
		Response: FertResponse,
	},
}

// FallbackRule fires when nothing in Rules matches.
var FallbackRule = Rule{Name: "fallback", Match: func(string) bool { return true }, Response: Fallback}

// Classify returns the first rule matching text.
func Classify(text string) Rule {
	s := strings.ToLower(text)
	for _, r := range Rules {
		if r.Match(s) {
			return r
		}
	}
	return FallbackRule
}

// Respond returns the canned answer for text.
func Respond(text string) string { return Classify(text).Response }

func containsAll(s string, words ...string) bool {
	for _, w := range words {
		if !strings.Contains(s, w) {
			return false
		}
	}
	return true
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
