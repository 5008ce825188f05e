package agents

import "strings"

const outputFormatMarker = "### OUTPUT FORMAT"

const outputFormatBlock = outputFormatMarker + `
Return ONLY a valid JSON object.
- Every key and every string value uses double quotes.
- No trailing commas.
- No comments, markdown fences, explanations or text before or after the JSON.
- Follow the exact keys and limits requested; do not add keys.`

// CreateCompleteSystemPrompt appends the strict JSON output instructions to
// base unless they are already there, so calling it twice is harmless.
func CreateCompleteSystemPrompt(base string) string {
	if strings.Contains(base, outputFormatMarker) {
		return base
	}
	base = strings.TrimRight(base, " \n")
	if base == "" {
		return outputFormatBlock
	}
	return base + "\n\n" + outputFormatBlock
}

// RenderPrompt substitutes {{name}} placeholders in tpl. Unknown
// placeholders are left in place.
func RenderPrompt(tpl string, vars map[string]string) string {
	if len(vars) == 0 {
		return tpl
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}
