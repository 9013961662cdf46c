package builder

import nt "tamis/entity"

// ApplyMsg is sent when the user applies the filter being edited.
type ApplyMsg struct {
	Filter nt.Node
}

// SizeMsg sets the area the panel centers itself in.
type SizeMsg struct {
	Width  int
	Height int
}
