package piece

import (
	"unicode/utf8"

	"tamis/style"
)

// TextInput is an editable text field
type TextInput struct {
	value     []rune
	cursor    int
	maxLength int
}

func NewTextInput(value string, maxLength int) TextInput {
	if maxLength <= 0 {
		maxLength = 100 // Default max length
	}
	runes := []rune(value)
	return TextInput{
		value:     runes,
		cursor:    len(runes),
		maxLength: maxLength,
	}
}

// Press handles a key, reporting whether the value changed.
func (ti TextInput) Press(key string) (TextInput, bool) {

	old := string(ti.value)
	switch key {
	case "backspace":
		if ti.cursor > 0 {
			ti.value = splice(ti.value, ti.cursor-1, ti.cursor, nil)
			ti.cursor--
		}
	case "delete":
		if ti.cursor < len(ti.value) {
			ti.value = splice(ti.value, ti.cursor, ti.cursor+1, nil)
		}
	case "left":
		if ti.cursor > 0 {
			ti.cursor--
		}
	case "right":
		if ti.cursor < len(ti.value) {
			ti.cursor++
		}
	case "home", "ctrl+a":
		ti.cursor = 0
	case "end", "ctrl+e":
		ti.cursor = len(ti.value)
	case "space":
		ti = ti.insert(' ')
	default:
		if utf8.RuneCountInString(key) == 1 {
			rn, _ := utf8.DecodeRuneInString(key)
			ti = ti.insert(rn)
		}
	}

	return ti, string(ti.value) != old
}

func (ti TextInput) Value() string {
	return string(ti.value)
}

func (ti TextInput) Cursor() int {
	return ti.cursor
}

// Render shows the value with the cursor position highlighted.
func (ti TextInput) Render() string {

	if ti.cursor >= len(ti.value) {
		return string(ti.value) + style.HlCellStyle.Render(" ")
	}
	return string(ti.value[:ti.cursor]) +
		style.HlCellStyle.Render(string(ti.value[ti.cursor])) +
		string(ti.value[ti.cursor+1:])
}

// unexported

func (ti TextInput) insert(rn rune) TextInput {
	if len(ti.value) >= ti.maxLength {
		return ti
	}
	ti.value = splice(ti.value, ti.cursor, ti.cursor, []rune{rn})
	ti.cursor++
	return ti
}

func splice(runes []rune, from, to int, insert []rune) []rune {
	out := make([]rune, 0, len(runes)-(to-from)+len(insert))
	out = append(out, runes[:from]...)
	out = append(out, insert...)
	return append(out, runes[to:]...)
}
