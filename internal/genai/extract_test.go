package genai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstJSONArray(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		found bool
	}{
		{
			name:  "bare array",
			input: `["fever", "cough"]`,
			want:  `["fever", "cough"]`,
			found: true,
		},
		{
			name:  "array embedded in prose",
			input: "Here are the symptoms:\n```json\n[\"fever\", \"loss of smell\"]\n```\nLet me know!",
			want:  `["fever", "loss of smell"]`,
			found: true,
		},
		{
			name:  "nested arrays stay balanced",
			input: `result: [["a"], "b"] trailing`,
			want:  `[["a"], "b"]`,
			found: true,
		},
		{
			name:  "bracket inside string literal",
			input: `["pain [left side]", "nausea"]`,
			want:  `["pain [left side]", "nausea"]`,
			found: true,
		},
		{
			name:  "escaped quote inside string",
			input: `["she said \"ouch\"", "dizziness"]`,
			want:  `["she said \"ouch\"", "dizziness"]`,
			found: true,
		},
		{
			name:  "no array present",
			input: "I could not identify any symptoms.",
			found: false,
		},
		{
			name:  "unclosed array",
			input: `["fever", "cough"`,
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FirstJSONArray(tt.input)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFirstJSONObject(t *testing.T) {
	input := "Sure! Here is the analysis:\n{\"urgency\": \"low\", \"details\": {\"note\": \"a } in a string\"}}\nHope that helps."
	got, ok := FirstJSONObject(input)
	assert.True(t, ok)
	assert.Equal(t, `{"urgency": "low", "details": {"note": "a } in a string"}}`, got)

	_, ok = FirstJSONObject("no structured data here")
	assert.False(t, ok)
}
