package token

// keywords maps spelling to kind. Ключевые слова регистрозависимые —
// только lowercase версии распознаются.
var keywords = func() map[string]Kind {
	m := make(map[string]Kind)
	for k := Kind(0); k < kindCount; k++ {
		if k.IsKeyword() {
			m[k.FixedSpelling()] = k
		}
	}
	return m
}()

// LookupKeyword returns the keyword kind for ident, if it is one.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// symbolsByLength lists all fixed-spelling symbols longest first, the
// order the lexer tries them for maximal munch.
var symbolsByLength = func() []Kind {
	var out []Kind
	for k := Kind(0); k < kindCount; k++ {
		if k.IsSymbol() {
			out = append(out, k)
		}
	}
	// Insertion sort by descending spelling length; the table is tiny
	// and built once.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && len(out[j].FixedSpelling()) > len(out[j-1].FixedSpelling()); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}()

// SymbolsByLength returns the maximal-munch symbol order.
func SymbolsByLength() []Kind { return symbolsByLength }
