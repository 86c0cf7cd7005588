package diag

import (
	"io"
	"strings"
)

// The message canvas lays suggestion text out on a bounded grid of
// cells under the caret row, then draws leader lines from each message
// up to its anchor column.

type cell struct {
	ch    byte
	level Level
}

type canvasGrid struct {
	cells    []cell
	rowCount int
	colCount int
}

func newCanvasGrid(rowCount, colCount int) *canvasGrid {
	return &canvasGrid{
		cells:    make([]cell, rowCount*colCount),
		rowCount: rowCount,
		colCount: colCount,
	}
}

func (g *canvasGrid) at(row, col int) *cell {
	return &g.cells[row*g.colCount+col]
}

func (g *canvasGrid) row(row int) []cell {
	return g.cells[row*g.colCount : (row+1)*g.colCount]
}

// putListIndex draws the two-column "|-" prefix used by the list
// layout.
func (g *canvasGrid) putListIndex(row, col int, level Level) {
	*g.at(row, col) = cell{ch: '|', level: level}
	if col+1 < g.colCount {
		*g.at(row, col+1) = cell{ch: '-', level: level}
	}
}

func (g *canvasGrid) putText(row, col int, text string, level Level) {
	limit := g.colCount - col - 1
	if limit < 0 {
		limit = 0
	}
	if len(text) > limit {
		text = text[:limit]
	}
	for i := 0; i < len(text); i++ {
		*g.at(row, col+i) = cell{ch: text[i], level: level}
	}
}

// anchoredMessage remembers where a suggestion's text landed so leader
// lines can be painted above it. The span drifts left when leader
// painting has to dodge text.
type anchoredMessage struct {
	row   int
	col   int
	span  Span
	level Level
}

const canvasTextPadding = 4

func (c *StreamConsumer) renderSuggestionCanvas(
	gutterWidth int,
	colCount int,
	unique []normalizedSpan,
	suggestions []Suggestion,
) {
	rowCount := len(suggestions)
	if rowCount < 20 {
		rowCount = 20
	}
	rowCount++

	grid := newCanvasGrid(rowCount, colCount)
	positions := make([]*anchoredMessage, 0, len(unique))

	maxLineIndex := 0
	lineIndex := 0

	// Place text right to left, highest anchor column first.
	for it := len(unique) - 1; it >= 0; it-- {
		el := &unique[it]

		ids := el.ids[:0:0]
		for _, id := range el.ids {
			if suggestions[id].Message != "" {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			continue
		}

		first := suggestions[ids[0]]
		remaining := len(ids) - 1
		firstText := first.Message

		colStart := first.Span.Start()
		if colStart >= colCount {
			colStart = colCount - 1
		}

		// Slide down until the text's row is free of collisions.
		for collision := true; collision; {
			collision = false
			end := colStart + len(firstText) + canvasTextPadding
			if end > colCount {
				end = colCount
			}
			for i := colStart; i < end; i++ {
				if grid.at(lineIndex, i).ch != 0 {
					lineIndex++
					collision = true
					break
				}
			}
			if lineIndex >= rowCount {
				lineIndex = rowCount - 1
				break
			}
		}

		// Choose between the list layout and the staircase layout for
		// the remaining messages: the staircase needs two columns of
		// slack per message to the left of the anchor.
		secondLastCol := 0
		if it > 0 {
			secondLastCol = unique[it-1].span.Start()
		}

		totalFit := 0
		for {
			if totalFit > remaining {
				totalFit--
				break
			}
			if colStart < totalFit*2 {
				break
			}
			totalFit++
		}

		needList := false
		if remaining != 0 {
			needList = totalFit > remaining || colStart-secondLastCol <= totalFit*2
		}

		positions = append(positions, &anchoredMessage{
			row:   lineIndex,
			col:   colStart,
			span:  first.Span,
			level: first.Level,
		})

		textCol := colStart
		if needList {
			grid.putListIndex(lineIndex, colStart, first.Level)
			textCol += 2
		}
		grid.putText(lineIndex, textCol, firstText, first.Level)

		for k := 1; k < len(ids); k++ {
			sug := suggestions[ids[k]]
			row := lineIndex + k
			if row >= rowCount {
				break
			}
			current := colStart
			if needList {
				grid.putListIndex(row, colStart, sug.Level)
				current = colStart + 2
			} else {
				// Staircase: shift the anchor two columns left so the
				// previous text sits above this one.
				colStart -= 2
				if colStart < 0 {
					colStart = 0
				}
				current = colStart
				positions = append(positions, &anchoredMessage{
					row:   row,
					col:   current,
					span:  sug.Span,
					level: sug.Level,
				})
			}
			grid.putText(row, current, sug.Message, sug.Level)
			if row > maxLineIndex {
				maxLineIndex = row
			}
		}

		if lineIndex > maxLineIndex {
			maxLineIndex = lineIndex
		}
	}

	// Leader row between the caret row and the first text row.
	{
		buffer := make([]cell, colCount)
		paintLeaderLines(buffer, positions, -1)
		c.printLineNumber(0, gutterWidth)
		c.printCells(buffer)
	}

	lastRow := maxLineIndex
	if lastRow > rowCount-1 {
		lastRow = rowCount - 1
	}
	for row := 0; row <= lastRow; row++ {
		line := grid.row(row)
		paintLeaderLines(line, positions, row)
		c.printLineNumber(0, gutterWidth)
		c.printCells(line)
	}
}

// paintLeaderLines draws '|' (anchor still at its column) or '/'
// (anchor drifted left) above every message row. Painting never
// overwrites placed text: the anchor slides left instead.
func paintLeaderLines(buffer []cell, positions []*anchoredMessage, currentRow int) {
	for _, el := range positions {
		if currentRow >= el.row {
			continue
		}
		start := el.col
		ch := byte('|')
		if el.span.Start() != start {
			ch = '/'
		}

		shifted := false
		for el.span.Start() < len(buffer) && buffer[el.span.Start()].ch != 0 {
			if el.span.Start() == 0 {
				break
			}
			el.span = el.span.SetOffset(-1)
			shifted = true
			if el.span.Start() == start {
				ch = '|'
			} else {
				ch = '/'
			}
		}

		if pos := el.span.Start(); pos < len(buffer) {
			buffer[pos] = cell{ch: ch, level: el.level}
		}
		if shifted && ch != '|' {
			el.span = el.span.SetOffset(-1)
		}
	}
}

func (c *StreamConsumer) printCells(line []cell) {
	maxCol := -1
	for col := range line {
		if line[col].ch != 0 {
			maxCol = col
		}
	}

	var plain strings.Builder
	flushPlain := func() {
		if plain.Len() > 0 {
			io.WriteString(c.w, plain.String())
			plain.Reset()
		}
	}
	for col := 0; col <= maxCol; col++ {
		el := line[col]
		if el.ch == 0 {
			plain.WriteByte(' ')
			continue
		}
		flushPlain()
		io.WriteString(c.w, c.levelColors[el.level].Sprint(string(el.ch)))
	}
	flushPlain()
	io.WriteString(c.w, "\n")
}
