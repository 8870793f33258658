package tui

import (
	"fmt"
	"strings"

	"github.com/vrom/vrom/internal/console"
	"github.com/vrom/vrom/internal/markers"
)

func (m *Model) View() string {
	base := m.renderMain()
	g, ok := m.view.overlay()
	if !ok {
		return base
	}
	card := cardStyle.Render(m.renderCard(g))
	if m.width <= 0 || m.height <= 0 {
		return base + "\n\n" + card
	}
	return renderPopup(base, card, m.width, m.height)
}

func (m *Model) renderMain() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("vrom operator console"))
	b.WriteString("\n\n")

	addr := m.conn.Address().String()
	if m.conn.IsOpen() {
		b.WriteString(statusStyle.Render("● " + addr))
	} else {
		b.WriteString(statusErrStyle.Render("○ " + addr + " (disconnected)"))
	}
	b.WriteString("\n\n")

	b.WriteString(textStyle.Render("Tracked objects"))
	b.WriteString("\n")
	ids := m.scene.IDs()
	if len(ids) == 0 {
		b.WriteString(dimStyle.Render("  none"))
		b.WriteString("\n")
	}
	for i, id := range ids {
		fmt.Fprintf(&b, "  %s %s\n", keyStyle.Render(fmt.Sprintf("[%d]", i+1)), textStyle.Render(id))
	}
	b.WriteString("\n")

	if m.picking {
		b.WriteString(m.pick.View())
		b.WriteString("\n\n")
	}
	if m.view.shown(console.GroupDebug) && m.view.debug != "" {
		b.WriteString(debugStyle.Render(m.view.debug))
		b.WriteString("\n\n")
	}
	if m.view.status != "" {
		style := statusStyle
		if m.view.statusErr {
			style = statusErrStyle
		}
		b.WriteString(style.Render(m.view.status))
		b.WriteString("\n")
	}
	b.WriteString(helpLine(m.keys.Pick, m.keys.Settings, m.keys.Markers, m.keys.Debug, m.keys.Exit))

	out := b.String()
	if m.view.vis[console.GroupMain].Alpha < 1 {
		return dimStyle.Render(out)
	}
	return out
}

func (m *Model) renderCard(g console.Group) string {
	switch g {
	case console.GroupSettings:
		return m.renderSettings()
	case console.GroupMarkers:
		return m.renderMarkers()
	case console.GroupActionMenu:
		return m.renderActionMenu()
	default:
		return m.renderExit()
	}
}

func (m *Model) renderSettings() string {
	lines := []string{
		titleStyle.Render("Bridge address"),
		"",
		m.view.ip.View(),
		m.view.port.View(),
	}
	if m.view.warn[console.FormSettings] {
		lines = append(lines, "", warnStyle.Render("IP address is not valid"))
	}
	lines = append(lines, "", m.applyLine(console.FormSettings))
	return strings.Join(lines, "\n")
}

func (m *Model) renderMarkers() string {
	lines := []string{titleStyle.Render("Marker positions"), ""}
	for i, id := range markers.IDs {
		row := make([]string, 0, 3)
		for j := range markers.Axes {
			row = append(row, m.view.marks[i*len(markers.Axes)+j].View())
		}
		lines = append(lines, textStyle.Render(string(id)), strings.Join(row, "  "))
	}
	lines = append(lines, "", m.applyLine(console.FormMarkers))
	return strings.Join(lines, "\n")
}

func (m *Model) applyLine(f console.Form) string {
	if m.view.apply[f] {
		return helpLine(m.keys.Apply, m.keys.Next, m.keys.Back)
	}
	return disabledStyle.Render("[enter] apply") + "  " + helpLine(m.keys.Next, m.keys.Back)
}

func (m *Model) renderActionMenu() string {
	title := "Action menu"
	if sel := m.ctl.Selected(); sel != nil {
		title = fmt.Sprintf("Action menu: %s", sel.ID)
	}
	return strings.Join([]string{
		titleStyle.Render(title),
		"",
		helpLine(m.keys.Take, m.keys.Release),
		helpLine(m.keys.Action1, m.keys.Action2),
		"",
		helpLine(m.keys.Back),
	}, "\n")
}

func (m *Model) renderExit() string {
	return strings.Join([]string{
		titleStyle.Render("Quit the console?"),
		"",
		helpLine(m.keys.Confirm, m.keys.Deny),
	}, "\n")
}
