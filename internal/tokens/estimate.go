// Package tokens approximates LLM token counts for text that is about to be copied
// or displayed. The ratios are rules of thumb, not tokenizer output.
package tokens

import "strings"

// Estimate holds token approximations for a body of text.
type Estimate struct {
	TotalTokens    int `json:"total_tokens" yaml:"total_tokens"`
	CharCount      int `json:"char_count" yaml:"char_count"`
	WordCount      int `json:"word_count" yaml:"word_count"`
	LineCount      int `json:"line_count" yaml:"line_count"`
	GPT4Estimate   int `json:"gpt4_estimate" yaml:"gpt4_estimate"`
	ClaudeEstimate int `json:"claude_estimate" yaml:"claude_estimate"`
	GeminiEstimate int `json:"gemini_estimate" yaml:"gemini_estimate"`
}

const (
	charsPerToken = 4.0
	tokensPerWord = 1.3
	claudeFactor  = 1.05
	geminiFactor  = 0.9
)

// EstimateText approximates token counts. The GPT-4 figure averages a character-based and
// a word-based estimate and is never below 1.
func EstimateText(text string) Estimate {
	chars := len(text)
	words := len(strings.Fields(text))
	lines := countLines(text)

	charTokens := int(float64(chars) / charsPerToken)
	wordTokens := int(float64(words) * tokensPerWord)
	gpt4 := max((charTokens+wordTokens)/2, 1)

	return Estimate{
		TotalTokens:    gpt4,
		CharCount:      chars,
		WordCount:      words,
		LineCount:      lines,
		GPT4Estimate:   gpt4,
		ClaudeEstimate: int(float64(gpt4) * claudeFactor),
		GeminiEstimate: int(float64(gpt4) * geminiFactor),
	}
}

// Add sums two estimates field by field.
func (e Estimate) Add(o Estimate) Estimate {
	return Estimate{
		TotalTokens:    e.TotalTokens + o.TotalTokens,
		CharCount:      e.CharCount + o.CharCount,
		WordCount:      e.WordCount + o.WordCount,
		LineCount:      e.LineCount + o.LineCount,
		GPT4Estimate:   e.GPT4Estimate + o.GPT4Estimate,
		ClaudeEstimate: e.ClaudeEstimate + o.ClaudeEstimate,
		GeminiEstimate: e.GeminiEstimate + o.GeminiEstimate,
	}
}

// countLines counts lines the way a line iterator would: a trailing newline does
// not start a new line.
func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
