package telegram

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang-fin-scryper/internal/fin/dto"
	"golang-fin-scryper/pkg/utils"
)

const maxMessageLen = 4090

// FormatPrefetchResult formats the outcome of one prefetch task as Markdown.
func FormatPrefetchResult(result dto.PrefetchResult) string {
	icon := "✅"
	if result.Status != dto.StatusSuccess {
		icon = "❌"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s *Statement prefetch: %s*\n", icon, escapeMarkdown(result.CompanyName)))
	sb.WriteString(fmt.Sprintf("*Status:* %s\n", result.Status))
	if result.Message != "" {
		sb.WriteString(fmt.Sprintf("*Message:* %s\n", escapeMarkdown(result.Message)))
	}
	sb.WriteString(fmt.Sprintf("_%s KST_", utils.TimeNowKST().Format("2006-01-02 15:04")))
	return sb.String()
}

// splitMessage cuts text on line boundaries so every part is at most maxLen bytes.
// A single line longer than maxLen is cut on a rune boundary.
func splitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	var current strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > maxLen {
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
			cut := maxLen
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			parts = append(parts, line[:cut])
			line = line[cut:]
		}
		if current.Len()+len(line) > maxLen {
			parts = append(parts, current.String())
			current.Reset()
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

var markdownReplacer = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escapeMarkdown(s string) string {
	return markdownReplacer.Replace(s)
}
