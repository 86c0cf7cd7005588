package lexer

// Cursor представляет собой позицию в исходном тексте.
type Cursor struct {
	text string
	off  int
}

// NewCursor creates a cursor over text.
func NewCursor(text string) Cursor {
	return Cursor{text: text}
}

// EOF проверяет, достигнут ли конец текста.
func (c *Cursor) EOF() bool { return c.off >= len(c.text) }

// Off returns the current byte offset.
func (c *Cursor) Off() int { return c.off }

// Rest returns the unconsumed tail of the text.
func (c *Cursor) Rest() string { return c.text[c.off:] }

// Peek читает текущий байт, если есть, иначе возвращает 0.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.text[c.off]
}

// Peek2 читает текущий и следующий байт, если есть.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.off+1 >= len(c.text) {
		return 0, 0, false
	}
	return c.text[c.off], c.text[c.off+1], true
}

// Bump перемещает курсор на один байт вперёд и возвращает прочитанный байт.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.text[c.off]
	c.off++
	return b
}

// BumpN перемещает курсор на n байт вперёд.
func (c *Cursor) BumpN(n int) {
	c.off += n
	if c.off > len(c.text) {
		c.off = len(c.text)
	}
}

// Eat consumes the next byte if it matches b.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.text[c.off] == b {
		c.off++
		return true
	}
	return false
}

// Mark это метка, чтобы быстро возвращаться к позиции.
type Mark int

func (c *Cursor) Mark() Mark   { return Mark(c.off) }
func (c *Cursor) Reset(m Mark) { c.off = int(m) }
