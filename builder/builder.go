// Package builder is a bubbletea panel for editing a filter tree from the keyboard.
package builder

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/pkg/errors"

	"tamis"
	"tamis/edit"
	nt "tamis/entity"
	"tamis/path"
	"tamis/piece"
	"tamis/style"
)

const (
	dialogWidth = 76
	fieldWidth  = 16
	opWidth     = 17
	valueWidth  = 24
	indentWidth = 2
)

var (
	normalHelp  = "↑↓: row  tab: column  ←→: change  enter: value  a/g: add  o: or-with  y: dup  d: remove  w: wrap  u: unwrap  p: apply"
	editingHelp = "type a value  enter/esc: done"
)

// Panel shows one row per node of the editor's tree and turns key presses into edits.
type Panel struct {
	editor *tamis.Editor
	rows   []row
	cursor cursor

	editing bool
	input   piece.TextInput
	status  string

	width  int
	height int

	ctx    context.Context
	logger nt.Logger
}

type row struct {
	path path.Path
	node nt.Node
}

func New(ctx context.Context, edt *tamis.Editor, lgr nt.Logger) Panel {

	if lgr == nil {
		lgr = discard{}
	}

	pnl := Panel{
		editor: edt,
		ctx:    ctx,
		logger: lgr,
	}
	pnl.rows = flatten(edt.Root())
	return pnl
}

func (pnl Panel) Init() tea.Cmd {
	return nil
}

func (pnl Panel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case SizeMsg:
		pnl.width = msg.Width
		pnl.height = msg.Height
		return pnl, nil

	case tea.WindowSizeMsg:
		pnl.width = msg.Width
		pnl.height = msg.Height
		return pnl, nil

	case tea.KeyPressMsg:
		return pnl.handleKey(msg.String())
	}

	return pnl, nil
}

func (pnl Panel) View() tea.View {

	dialog := style.DialogStyle(dialogWidth).Render(pnl.render())

	if pnl.width > 0 && pnl.height > 0 {
		dialogHeight := strings.Count(dialog, "\n") + 1

		vPad := max((pnl.height-dialogHeight)/2, 0)
		hPad := max((pnl.width-dialogWidth-4)/2, 0)

		dialogLayer := lipgloss.NewLayer("builder", dialog).
			X(hPad).
			Y(vPad)

		return tea.NewView(dialogLayer)
	}

	dialogLayer := lipgloss.NewLayer("builder", dialog)
	return tea.NewView(dialogLayer)
}

// unexported

func (pnl Panel) handleKey(key string) (Panel, tea.Cmd) {

	if pnl.editing {
		return pnl.handleEditing(key), nil
	}

	current := pnl.current()

	switch key {
	case "up", "k":
		pnl.cursor = pnl.cursor.up()
	case "down", "j":
		pnl.cursor = pnl.cursor.down(len(pnl.rows))
	case "tab":
		pnl.cursor = pnl.cursor.tab(1)
	case "shift+tab":
		pnl.cursor = pnl.cursor.tab(-1)

	case "left", "h", "right", "l":
		pnl = pnl.cycle(current, key)

	case "enter":
		leaf, ok := current.node.(*nt.Leaf)
		if !ok {
			break
		}
		pnl.cursor.col = valueCol
		pnl.editing = true
		pnl.input = piece.NewTextInput(leaf.Value, valueWidth*4)
		pnl.status = ""

	case "a", "g":
		kind := edit.Single
		if key == "g" {
			kind = edit.Nested
		}
		target := current.path
		if _, ok := current.node.(*nt.Leaf); ok {
			target, _, _ = current.path.Split()
		}
		pnl = pnl.do(func() error { return pnl.editor.AddFilter(target, kind) })

	case "o":
		pnl = pnl.do(func() error { return pnl.editor.AddFilter(current.path, edit.Single) })

	case "y":
		parent, idx, ok := current.path.Split()
		if !ok {
			pnl = pnl.refuse(key, "the top-level group cannot be duplicated")
			break
		}
		pnl = pnl.do(func() error { return pnl.editor.DuplicateFilter(parent, idx+1, current.node) })

	case "d":
		parent, idx, ok := current.path.Split()
		if !ok {
			pnl = pnl.refuse(key, "the top-level group cannot be removed")
			break
		}
		pnl = pnl.do(func() error { return pnl.editor.RemoveFilter(parent, idx) })

	case "w":
		parent, idx, ok := current.path.Split()
		if !ok {
			pnl = pnl.refuse(key, "the top-level group is already a group")
			break
		}
		pnl = pnl.do(func() error { return pnl.editor.TurnIntoGroup(parent, idx) })

	case "u":
		parent, idx, ok := current.path.Split()
		if !ok {
			pnl = pnl.refuse(key, "the top-level group cannot be unwrapped")
			break
		}
		pnl = pnl.do(func() error { return pnl.editor.UnwrapGroup(parent, idx) })

	case "p":
		filter := pnl.editor.Root()
		pnl.logger.Info(pnl.ctx, "filter applied", "root", filter.Id())
		return pnl, func() tea.Msg {
			return ApplyMsg{Filter: filter}
		}
	}

	return pnl, nil
}

func (pnl Panel) handleEditing(key string) Panel {

	switch key {
	case "enter", "esc":
		pnl.editing = false
		return pnl
	}

	input, changed := pnl.input.Press(key)
	pnl.input = input
	if !changed {
		return pnl
	}

	pth := pnl.current().path
	return pnl.do(func() error { return pnl.editor.SetValue(pth, input.Value()) })
}

func (pnl Panel) cycle(current row, key string) Panel {

	switch nd := current.node.(type) {
	case *nt.Group:
		return pnl.do(func() error { return pnl.editor.SetCondition(current.path, nd.Condition.Flip()) })

	case *nt.Leaf:
		cat := pnl.editor.Catalog()

		switch pnl.cursor.col {
		case fieldCol:
			cyc, moved := piece.NewCycler(cat.Names(), nd.Field).Press(key)
			if moved {
				return pnl.do(func() error { return pnl.editor.SetField(current.path, cyc.Selected()) })
			}
		case operatorCol:
			cyc, moved := piece.NewCycler(cat.Operators(nd.Field), nd.Operator).Press(key)
			if moved {
				return pnl.do(func() error { return pnl.editor.SetOperator(current.path, cyc.Selected()) })
			}
		}
	}

	return pnl
}

// do runs an edit and rebuilds the rows, keeping the cursor on the focused node,
// or moving it to the first node the edit created.
func (pnl Panel) do(fn func() error) Panel {

	before := map[string]bool{}
	for _, rw := range pnl.rows {
		before[rw.node.Id()] = true
	}
	focus := pnl.current().node.Id()

	err := fn()
	if err != nil {
		pnl.status = statusOf(err)
		pnl.logger.Info(pnl.ctx, "edit rejected", "status", pnl.status)
		return pnl
	}
	pnl.status = ""

	pnl.rows = flatten(pnl.editor.Root())

	found := -1
	for i, rw := range pnl.rows {
		if !before[rw.node.Id()] {
			found = i
			break
		}
		if found < 0 && rw.node.Id() == focus {
			found = i
		}
	}
	if found >= 0 {
		pnl.cursor.row = found
	}
	pnl.cursor = pnl.cursor.clamp(len(pnl.rows))

	return pnl
}

func (pnl Panel) refuse(key, status string) Panel {

	pnl.status = status
	pnl.logger.Info(pnl.ctx, "edit refused", "key", key, "status", status)
	return pnl
}

func (pnl Panel) current() row {
	return pnl.rows[pnl.cursor.clamp(len(pnl.rows)).row]
}

func statusOf(err error) string {

	switch errors.Cause(err) {
	case edit.ErrLastFilter:
		return "the last filter cannot be removed"
	case edit.ErrNotGroup:
		return "only a group can be unwrapped"
	}
	return err.Error()
}

func flatten(root nt.Node) (rows []row) {

	path.Walk(root, func(pth path.Path, node nt.Node) {
		rows = append(rows, row{path: pth, node: node})
	})
	return
}

func (pnl Panel) render() string {

	lines := make([]string, len(pnl.rows))
	for i, rw := range pnl.rows {
		lines[i] = pnl.renderRow(i, rw)
	}

	help := normalHelp
	if pnl.editing {
		help = editingHelp
	}

	status := ""
	if pnl.status != "" {
		status = style.ErrorStyle.Render(pnl.status) + "\n"
	}

	return fmt.Sprintf("Filter:\n%s\n\n%s%s",
		strings.Join(lines, "\n"),
		status,
		style.MutedStyle.Width(dialogWidth-4).Render(help))
}

func (pnl Panel) renderRow(idx int, rw row) string {

	styler := style.CellStyler(pnl.cursor.row, pnl.cursor.col)
	indent := strings.Repeat(" ", rw.path.Depth()*indentWidth)

	switch nd := rw.node.(type) {
	case *nt.Group:
		label := strings.ToUpper(nd.Condition.String())
		return indent + styler(idx, pnl.cursor.col).Inherit(style.GroupStyle).Render(label) +
			style.MutedStyle.Render(fmt.Sprintf("  %d", len(nd.Children)))

	case *nt.Leaf:
		value := nd.Value
		if pnl.editing && idx == pnl.cursor.row {
			value = pnl.input.Render()
		}
		return indent +
			styler(idx, fieldCol).Width(fieldWidth).Render(piece.NewCycler(nil, nd.Field).Render()) +
			styler(idx, operatorCol).Width(opWidth).Render(piece.NewCycler(nil, nd.Operator).Render()) +
			styler(idx, valueCol).Width(valueWidth).Render(value)
	}
	return indent
}

type discard struct{}

func (discard) Info(ctx context.Context, msg string, kv ...any)             {}
func (discard) Error(ctx context.Context, msg string, err error, kv ...any) {}
