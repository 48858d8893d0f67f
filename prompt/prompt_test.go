package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespond(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"yield", "What will my yield be next season?", YieldResponse},
		{"disease cbd", "simulate cbd disease spread", CBDResponse},
		{"disease upper case", "Simulate DISEASE pressure", CBDResponse},
		{"fertilizer", "fertilizer plan", FertResponse},
		{"nutrient", "nutrient budget for B7", FertResponse},
		{"unmatched", "hello", Fallback},
		{"empty", "", Fallback},
		{"cbd without simulate", "cbd risk today", Fallback},
		{"yield beats disease", "simulate next yield and cbd", YieldResponse},
		{"disease beats fertilizer", "simulate fertilizer and disease", CBDResponse},
		{"yield beats fertilizer", "next yield fertilizer", YieldResponse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Respond(tc.input))
		})
	}
}

func TestClassifyNames(t *testing.T) {
	assert.Equal(t, "yield", Classify("simulate next yield and cbd").Name)
	assert.Equal(t, FallbackRule.Name, Classify("hello").Name)

	for i, r := range Rules {
		require.NotNil(t, r.Match, "rule %d", i)
		assert.NotEmpty(t, r.Response, "rule %d", i)
	}
}
