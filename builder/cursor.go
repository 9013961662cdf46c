package builder

// cursor is the selected row and column of the panel.
// Moves return a new cursor, the panel keeps whichever it likes.
type cursor struct {
	row int
	col int
}

const columns = 3 // field, operator, value

const (
	fieldCol = iota
	operatorCol
	valueCol
)

func (cur cursor) up() cursor {
	if cur.row > 0 {
		cur.row--
	}
	return cur
}

func (cur cursor) down(rows int) cursor {
	if cur.row < rows-1 {
		cur.row++
	}
	return cur
}

func (cur cursor) tab(step int) cursor {
	cur.col = ((cur.col+step)%columns + columns) % columns
	return cur
}

func (cur cursor) clamp(rows int) cursor {
	if cur.row >= rows {
		cur.row = rows - 1
	}
	if cur.row < 0 {
		cur.row = 0
	}
	return cur
}
