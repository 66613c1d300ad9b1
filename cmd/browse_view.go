package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"modpack-launcher/modrinth"
	"modpack-launcher/session"
	"modpack-launcher/ui"
)

// View renders the browse UI
func (m browseModel) View() string {
	var output string

	title := fmt.Sprintf("Browse %ss", m.kind)
	if m.page.VersionFilter != "" {
		title += fmt.Sprintf("  [%s]", m.page.VersionFilter)
	}
	if m.instanceCount > 0 {
		title += fmt.Sprintf("  (%d instances)", m.instanceCount)
	}
	output += ui.HeaderStyle.Render(title) + "\n"
	output += " " + m.input.View() + "\n\n"

	if m.searching {
		output += fmt.Sprintf(" %s Searching...\n", m.spin.View())
		return output
	}

	if m.searchErr != "" {
		output += " " + ui.ErrorStyle.Render(m.searchErr) + "\n\n"
	}

	if len(m.page.Hits) == 0 {
		output += " No results.\n"
		return output
	}

	for i, hit := range m.page.Hits {
		output += m.renderResultRow(i, hit) + "\n"
	}

	if m.page.ShowPagination() {
		output += "\n" + ui.FooterStyle.Render(
			fmt.Sprintf("  ‹ page %d/%d ›", m.page.Page, m.page.TotalPages()),
		) + "\n"
	}

	if m.progress != nil {
		output += "\n " + ui.AccentStyle.Render(
			fmt.Sprintf("%s: %d%%  %s", m.progress.Instance, m.progress.Progress, m.progress.Stage),
		) + "\n"
	}

	if m.message != "" {
		output += "\n " + m.message + "\n"
	}

	output += "\n" + ui.FooterStyle.Render("↑/↓: select  ←/→: page  enter: install  ctrl+f: favorite  ctrl+g: images  ctrl+v: version  esc: quit")
	return output
}

func (m browseModel) renderResultRow(index int, hit modrinth.Project) string {
	glyph := " "
	switch m.statuses[hit.ProjectID()] {
	case session.StatusResolving:
		glyph = m.spin.View()
	case session.StatusInstalling:
		glyph = ui.AccentStyle.Render("↓")
	case session.StatusSuccess:
		glyph = ui.SuccessStyle.Render("✓")
	case session.StatusError:
		glyph = ui.ErrorStyle.Render("✗")
	}

	star := " "
	if m.favorites[hit.ProjectID()] {
		star = ui.AccentStyle.Render("★")
	}

	rowStyle := lipgloss.NewStyle().Padding(0, 1)
	if index == m.selectedIndex {
		rowStyle = rowStyle.Background(lipgloss.Color("8")).Bold(true)
	}

	title := fmt.Sprintf("%-40s", truncate(hit.Title, 38))
	if hit.Color != 0 && index != m.selectedIndex {
		title = ui.Colorize(title, hit.Color)
	}
	row := fmt.Sprintf("%s%s %s %-20s %12s",
		glyph,
		star,
		title,
		truncate(hit.Author, 18),
		formatDownloads(hit.Downloads),
	)
	return rowStyle.Render(row)
}

// formatDownloads renders a download count compactly, e.g. 1.3M.
func formatDownloads(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}
