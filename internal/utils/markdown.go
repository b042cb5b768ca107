package utils

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Markdown styles
func codeStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color("236")).
		Padding(0, 1)
}

func boldStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true)
}

func italicStyle() lipgloss.Style {
	return lipgloss.NewStyle().Italic(true)
}

func headingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true)
}

func listStyle() lipgloss.Style {
	return lipgloss.NewStyle().MarginLeft(2)
}

var (
	orderedListRe = regexp.MustCompile(`^(\d+)\.\s+(.*)`)
	inlineCodeRe  = regexp.MustCompile("`[^`]+`")
	boldRe        = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe      = regexp.MustCompile(`_([^_]+)_`)
)

// RenderMarkdown applies lightweight markdown rendering to assistant
// replies: fenced code blocks, headings, lists, and inline
// code/bold/italic. Anything else passes through untouched.
func RenderMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result strings.Builder

	inCodeBlock := false
	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock {
			result.WriteString(codeStyle().Render(line) + "\n")
			continue
		}

		if title, found := cutHeading(line); found {
			result.WriteString(headingStyle().Render(renderInline(title)) + "\n")
			continue
		}

		if item, found := strings.CutPrefix(line, "- "); found {
			result.WriteString(listStyle().Render("• "+renderInline(item)) + "\n")
			continue
		}
		if item, found := strings.CutPrefix(line, "* "); found {
			result.WriteString(listStyle().Render("• "+renderInline(item)) + "\n")
			continue
		}
		if matches := orderedListRe.FindStringSubmatch(line); len(matches) == 3 {
			result.WriteString(listStyle().Render(matches[1]+". "+renderInline(matches[2])) + "\n")
			continue
		}

		result.WriteString(renderInline(line) + "\n")
	}

	return strings.TrimSuffix(result.String(), "\n")
}

func cutHeading(line string) (string, bool) {
	for _, prefix := range []string{"### ", "## ", "# "} {
		if title, found := strings.CutPrefix(line, prefix); found {
			return title, true
		}
	}
	return "", false
}

// renderInline handles inline elements; code first so its content is
// not reprocessed as formatting.
func renderInline(line string) string {
	line = inlineCodeRe.ReplaceAllStringFunc(line, func(match string) string {
		return codeStyle().Render(strings.Trim(match, "`"))
	})
	line = boldRe.ReplaceAllStringFunc(line, func(match string) string {
		return boldStyle().Render(strings.Trim(match, "*"))
	})
	line = italicRe.ReplaceAllStringFunc(line, func(match string) string {
		return italicStyle().Render(strings.Trim(match, "_"))
	})
	return line
}
