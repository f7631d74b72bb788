package styles

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Gradient renders text with a horizontal color gradient from from to to.
func Gradient(text string, from, to lipgloss.Color) string {
	return GradientStyle(text, lipgloss.NewStyle(), from, to)
}

// GradientStyle is Gradient on top of a base style (bold, background...).
func GradientStyle(text string, base lipgloss.Style, from, to lipgloss.Color) string {
	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}

	switch len(clusters) {
	case 0:
		return ""
	case 1:
		return base.Foreground(from).Render(text)
	}

	colors := blendColors(len(clusters), from, to)

	var b strings.Builder
	for i, cluster := range clusters {
		b.WriteString(base.Foreground(lipgloss.Color(colors[i].Hex())).Render(cluster))
	}
	return b.String()
}

// GradientAt returns the color at fraction t (0..1) between from and to.
func GradientAt(t float64, from, to lipgloss.Color) lipgloss.Color {
	c1, c2 := toColorful(from), toColorful(to)
	return lipgloss.Color(c1.BlendHcl(c2, min(max(t, 0), 1)).Clamped().Hex())
}

// blendColors returns size colors blended in HCL space between from and to.
func blendColors(size int, from, to lipgloss.Color) []colorful.Color {
	c1, c2 := toColorful(from), toColorful(to)
	if size < 2 {
		return []colorful.Color{c1}
	}

	colors := make([]colorful.Color, size)
	for i := range size {
		t := float64(i) / float64(size-1)
		colors[i] = c1.BlendHcl(c2, t).Clamped()
	}
	return colors
}

// toColorful converts a hex lipgloss color. ANSI codes fall back to gray.
func toColorful(c lipgloss.Color) colorful.Color {
	hex := string(c)
	if len(hex) == 7 && hex[0] == '#' {
		if col, err := colorful.Hex(hex); err == nil {
			return col
		}
	}
	col, _ := colorful.MakeColor(color.RGBA{R: 128, G: 128, B: 128, A: 255})
	return col
}
