package mappers

import (
	"bytes"
	"encoding/json"
	"strings"
)

// topicSeparator joins and splits module topics inside a single rich-text node.
const topicSeparator = ", "

// Block is one rich-text block as the CMS stores it.
type Block struct {
	Type     string   `json:"type"`
	Children []Inline `json:"children"`
}

// Inline is a text leaf inside a Block.
type Inline struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// RichText wraps text in the single-paragraph shape the CMS expects on writes.
func RichText(text string) []Block {
	return []Block{{
		Type:     "paragraph",
		Children: []Inline{{Type: "text", Text: text}},
	}}
}

// ExtractText reads the first element's children, then the first child's
// text. Any missing link yields "". A plain JSON string is returned as is.
func ExtractText(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '[':
		var blocks []json.RawMessage
		if err := json.Unmarshal(raw, &blocks); err != nil || len(blocks) == 0 {
			return ""
		}
		var first struct {
			Children []json.RawMessage `json:"children"`
		}
		if err := json.Unmarshal(blocks[0], &first); err != nil || len(first.Children) == 0 {
			return ""
		}
		var leaf struct {
			Text json.RawMessage `json:"text"`
		}
		if err := json.Unmarshal(first.Children[0], &leaf); err != nil {
			return ""
		}
		var s string
		if err := json.Unmarshal(leaf.Text, &s); err != nil {
			return ""
		}
		return s
	}
	return ""
}

// ParseTopics splits on ", " and keeps trimmed, non-empty entries.
// The result is never nil.
func ParseTopics(text string) []string {
	out := []string{}
	if text == "" {
		return out
	}
	for _, t := range strings.Split(text, topicSeparator) {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// TopicsText is the inverse of ParseTopics.
func TopicsText(topics []string) string {
	return strings.Join(CleanTopics(topics), topicSeparator)
}

// CleanTopics trims, drops empties and duplicates, keeping first-seen order.
func CleanTopics(topics []string) []string {
	out := make([]string, 0, len(topics))
	seen := make(map[string]bool, len(topics))
	for _, t := range topics {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// Text decodes a CMS text field that may be a plain string or rich text.
// It never fails.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	*t = Text(ExtractText(b))
	return nil
}

func (t Text) String() string { return string(t) }
