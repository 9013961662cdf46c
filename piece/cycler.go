// Package piece has the small input widgets the builder is assembled from.
// Widgets are values: each key press returns an updated copy.
package piece

import "tamis/catalog"

// Cycler steps through a list of options with left and right.
type Cycler struct {
	options  []string
	selected string
}

func NewCycler(options []string, selected string) Cycler {
	return Cycler{
		options:  options,
		selected: selected,
	}
}

// Press handles a key, reporting whether the selection moved.
func (cyc Cycler) Press(key string) (Cycler, bool) {

	step := 0
	switch key {
	case "left", "h":
		step = -1
	case "right", "l":
		step = 1
	default:
		return cyc, false
	}

	next := catalog.Next(cyc.options, cyc.selected, step)
	if next == cyc.selected {
		return cyc, false
	}
	cyc.selected = next
	return cyc, true
}

func (cyc Cycler) Selected() string {
	return cyc.selected
}

func (cyc Cycler) Render() string {
	if cyc.selected == "" {
		return "?"
	}
	return cyc.selected
}
