package diag

// Level defines the importance of a diagnostic. Lower values are more
// severe; overlap resolution in the renderer relies on this ordering.
type Level uint8

const (
	Error Level = iota
	Warning
	Note
	Info
)

func (l Level) String() string {
	switch l {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	case Info:
		return "info"
	}
	return "unknown"
}
