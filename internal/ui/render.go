package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/murmurchat/murmur/internal/store"
)

// blockText flattens a block tree into plain text. Paragraph breaks
// become newlines; inline nodes concatenate.
func blockText(blocks []store.Block) string {
	var parts []string
	for _, b := range blocks {
		switch b.Type {
		case "paragraph":
			parts = append(parts, blockText(b.Children))
		case "text":
			parts = append(parts, b.Text)
		default:
			if len(b.Children) > 0 {
				parts = append(parts, blockText(b.Children))
			} else if b.Text != "" {
				parts = append(parts, b.Text)
			}
		}
	}
	sep := ""
	if len(blocks) > 0 && blocks[0].Type == "paragraph" {
		sep = "\n"
	}
	return strings.Join(parts, sep)
}

// authorName picks the display name for a resolved message author.
func authorName(m *store.ResolvedMessage) string {
	if m.Author == nil {
		return "unknown"
	}
	if m.Author.DisplayName != "" {
		return m.Author.DisplayName
	}
	return "unknown"
}

func (m *model) renderSidebar(width, height int) string {
	th := m.theme
	titleStyle := lipgloss.NewStyle().Foreground(th.System).Bold(true)
	selStyle := lipgloss.NewStyle().Foreground(th.Accent).Bold(true)
	chanStyle := lipgloss.NewStyle().Foreground(th.Text)

	var b strings.Builder
	if m.server != nil {
		b.WriteString(titleStyle.Render(m.server.Name))
		b.WriteString("\n\n")
	}
	for _, entry := range m.channelList {
		if entry.section != "" {
			b.WriteString(titleStyle.Render(entry.section))
			b.WriteString("\n")
			continue
		}
		label := "  " + entry.name
		if entry.id == m.currentChannelID {
			b.WriteString(selStyle.Render("> " + entry.name))
		} else {
			b.WriteString(chanStyle.Render(label))
		}
		b.WriteString("\n")
	}
	return frame(b.String(), width, height, th.Dim, m.focus == focusChannels, th.Accent)
}

func (m *model) renderMessages(width int) string {
	th := m.theme
	authorStyle := lipgloss.NewStyle().Foreground(th.Author).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(th.Text)
	dimStyle := lipgloss.NewStyle().Foreground(th.Dim)
	sysStyle := lipgloss.NewStyle().Foreground(th.System).Italic(true)
	hiStyle := lipgloss.NewStyle().Foreground(th.Highlight)

	var b strings.Builder
	for _, rm := range m.messages {
		if rm.Deleted {
			b.WriteString(dimStyle.Render("message deleted"))
			b.WriteString("\n\n")
			continue
		}
		switch rm.Type {
		case store.MessageTypeMemberJoined:
			b.WriteString(sysStyle.Render(fmt.Sprintf("%s joined the server", authorName(rm))))
			b.WriteString("\n\n")
			continue
		}
		if rm.RepliedMessage != nil {
			reply := fmt.Sprintf("┌ %s: %s", authorName(rm.RepliedMessage), firstLine(blockText(rm.RepliedMessage.Content)))
			b.WriteString(dimStyle.Render(truncate(reply, width-2)))
			b.WriteString("\n")
		}
		header := authorStyle.Render(authorName(rm))
		header += dimStyle.Render("  " + rm.CreatedAt.Format("15:04"))
		if rm.IsEdited {
			header += dimStyle.Render(" (edited)")
		}
		if rm.IsOptimistic {
			header += dimStyle.Render(" (sending)")
		}
		b.WriteString(header)
		b.WriteString("\n")
		body := blockText(rm.Content)
		if rm.IsOptimistic {
			b.WriteString(dimStyle.Render(body))
		} else {
			b.WriteString(textStyle.Render(body))
		}
		b.WriteString("\n")
		if len(rm.Reactions) > 0 {
			var rs []string
			for _, r := range rm.Reactions {
				tag := fmt.Sprintf("%s %d", r.Emoji, r.Count)
				if r.HasReacted {
					rs = append(rs, hiStyle.Render("["+tag+"]"))
				} else {
					rs = append(rs, dimStyle.Render("["+tag+"]"))
				}
			}
			b.WriteString(strings.Join(rs, " "))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *model) renderRoster(width, height int) string {
	th := m.theme
	titleStyle := lipgloss.NewStyle().Foreground(th.System).Bold(true)
	nameStyle := lipgloss.NewStyle().Foreground(th.Text)
	appStyle := lipgloss.NewStyle().Foreground(th.Dim)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Members"))
	b.WriteString("\n\n")
	for _, mv := range m.roster {
		name := mv.DisplayName
		if name == "" {
			name = "unknown"
		}
		if mv.IsApp {
			b.WriteString(appStyle.Render(name + " [app]"))
		} else {
			b.WriteString(nameStyle.Render(name))
		}
		b.WriteString("\n")
	}
	return frame(b.String(), width, height, th.Dim, false, th.Accent)
}

func (m *model) renderStatus(width int) string {
	th := m.theme
	if m.lastError != nil {
		return lipgloss.NewStyle().Foreground(th.Error).Width(width).Render("error: " + m.lastError.Error())
	}
	help := "tab: focus  enter: send  ctrl+t: react  ctrl+y: theme  ctrl+c: quit"
	return lipgloss.NewStyle().Foreground(th.Dim).Width(width).Render(help)
}

func frame(content string, width, height int, border lipgloss.Color, focused bool, accent lipgloss.Color) string {
	c := border
	if focused {
		c = accent
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c).
		Width(width).
		Height(height).
		Render(content)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// truncate shortens to max runes, never splitting a multi-byte character.
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return string(runes[:1])
	}
	return string(runes[:max-1]) + "…"
}
