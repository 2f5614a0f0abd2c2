package entity

// Mark identifies which player occupies a cell.
type Mark string

const (
	MarkPlayerOne Mark = "1"
	MarkPlayerTwo Mark = "2"
	MarkTie       Mark = "-"

	EmptyCell Mark = ""
)

// Player is a participant; Color is only used for display.
type Player struct {
	Mark  Mark   `json:"mark"`
	Color string `json:"color"`
}

// Opponent returns the other playing mark.
func (that Mark) Opponent() Mark {
	if that == MarkPlayerOne {
		return MarkPlayerTwo
	}
	return MarkPlayerOne
}
