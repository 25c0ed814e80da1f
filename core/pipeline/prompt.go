package pipeline

import (
	"strings"

	"github.com/siherrmann/kgraph/llm"
)

// Template is a sequence of role-tagged messages with {name} placeholders.
// Substitution is literal substring replacement, so JSON braces in the
// template text pass through untouched and values are inserted verbatim.
type Template struct {
	messages []llm.Message
}

// NewTemplate builds a template from role-tagged segments in order.
func NewTemplate(messages ...llm.Message) *Template {
	return &Template{messages: messages}
}

// Render replaces every {key} occurrence with its value in all segments.
// Substitution is a single pass over the template text, inserted values are
// never rescanned for placeholders. Placeholders without a matching key are
// left as-is.
func (t *Template) Render(values map[string]string) []llm.Message {
	pairs := make([]string, 0, len(values)*2)
	for key, value := range values {
		pairs = append(pairs, "{"+key+"}", value)
	}
	replacer := strings.NewReplacer(pairs...)

	rendered := make([]llm.Message, len(t.messages))
	for i, m := range t.messages {
		rendered[i] = llm.Message{Role: m.Role, Content: replacer.Replace(m.Content), Images: m.Images}
	}
	return rendered
}
