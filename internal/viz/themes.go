package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/spherefall/internal/config"
)

type Theme struct {
	Name    string
	Scene   lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
}

var (
	ThemeNight = Theme{
		Name:    "night",
		Scene:   lipgloss.Color("#f97316"),
		Accent:  lipgloss.Color("#3b82f6"),
		Text:    lipgloss.Color("#e5e7eb"),
		Muted:   lipgloss.Color("#6b7280"),
		Warning: lipgloss.Color("#facc15"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Scene:   lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Warning: lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Scene:   lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Warning: lipgloss.Color("#ffaa00"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Scene:   lipgloss.Color("#00a8cc"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Warning: lipgloss.Color("#ffcc00"),
	}

	Themes = []Theme{ThemeNight, ThemeRetroGreen, ThemeMinimal, ThemeOcean}
)

// SceneTheme derives a theme from the configured scene colors.
func SceneTheme(scene config.Scene) Theme {
	t := ThemeNight
	t.Name = "scene"
	t.Scene = hexColor(scene.Sphere.Color)
	t.Accent = hexColor(scene.Cube.Color)
	return t
}

func hexColor(c config.Color) lipgloss.Color {
	r, g, b := c.RGB()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
}

// GetTheme returns the named theme, or night.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNight
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme returns the theme after cur in Themes, wrapping around.
func NextTheme(cur Theme) Theme {
	for i, t := range Themes {
		if t.Name == cur.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// Paint renders the canvas with each cell colored by its ink.
func (t Theme) Paint(c *Canvas) string {
	styles := map[uint8]lipgloss.Style{
		InkFloor:  lipgloss.NewStyle().Foreground(t.Muted),
		InkCube:   lipgloss.NewStyle().Foreground(t.Accent),
		InkSphere: lipgloss.NewStyle().Foreground(t.Scene),
	}
	var b strings.Builder
	for row := 0; row < c.Rows; row++ {
		cells := c.Row(row)
		start := 0
		for col := 1; col <= c.Cols; col++ {
			if col < c.Cols && c.Ink(col, row) == c.Ink(start, row) {
				continue
			}
			run := string(cells[start:col])
			if st, ok := styles[c.Ink(start, row)]; ok {
				run = st.Render(run)
			}
			b.WriteString(run)
			start = col
		}
		if row < c.Rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
