package main

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"tamis"
	"tamis/builder"
	nt "tamis/entity"
)

// host runs the builder panel full screen until the filter is applied or abandoned.
type host struct {
	panel   tea.Model
	applied nt.Node
}

func newHost(ctx context.Context, edt *tamis.Editor, lgr nt.Logger) host {
	return host{
		panel: builder.New(ctx, edt, lgr),
	}
}

func (hst host) Init() tea.Cmd {
	return hst.panel.Init()
}

func (hst host) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case builder.ApplyMsg:
		hst.applied = msg.Filter
		return hst, tea.Quit

	case tea.WindowSizeMsg:
		var cmd tea.Cmd
		hst.panel, cmd = hst.panel.Update(builder.SizeMsg{Width: msg.Width, Height: msg.Height})
		return hst, cmd

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return hst, tea.Quit
		}
	}

	var cmd tea.Cmd
	hst.panel, cmd = hst.panel.Update(msg)
	return hst, cmd
}

func (hst host) View() tea.View {
	view := hst.panel.View()
	view.AltScreen = true
	return view
}
