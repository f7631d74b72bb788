package ui

// Base provides size management for component models.
// Embed this in component models to get standard methods automatically.
type Base struct {
	width, height int
}

// SetSize sets the component dimensions.
func (b *Base) SetSize(width, height int) {
	b.width = width
	b.height = height
}

// Width returns the component width.
func (b Base) Width() int {
	return b.width
}

// Height returns the component height.
func (b Base) Height() int {
	return b.height
}

// InnerWidth returns the width left inside a bordered panel, never below
// MinWidth.
func (b Base) InnerWidth() int {
	return max(b.width-PanelOverhead, MinWidth)
}
