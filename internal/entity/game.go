package entity

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
)

// Board is indexed [row][column]; row 0 is the top of the grid.
type Board [][]Mark

func NewBoard(height, width int) Board {
	board := make(Board, height)
	for row := range board {
		board[row] = make([]Mark, width)
	}

	return board
}

func (that Board) Height() int {
	return len(that)
}

func (that Board) Width() int {
	if len(that) == 0 {
		return 0
	}
	return len(that[0])
}

func (that Board) InBounds(row, col int) bool {
	return row >= 0 && row < that.Height() && col >= 0 && col < that.Width()
}

// IsFull reports whether no cell is empty. Pieces stack from the bottom,
// so checking the top row is enough.
func (that Board) IsFull() bool {
	if len(that) == 0 {
		return true
	}

	for _, cell := range that[0] {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// Move is where a piece came to rest.
type Move struct {
	Row    int  `json:"row"`
	Column int  `json:"column"`
	Mark   Mark `json:"mark"`
}

type Game struct {
	ID       string    `json:"id,omitempty"`
	Board    Board     `json:"board"`
	Players  [2]Player `json:"players"`
	Turn     Mark      `json:"player_turn"`
	Status   string    `json:"status"`
	Winner   Mark      `json:"winner"`
	Moves    int       `json:"moves"`
	LastMove *Move     `json:"last_move,omitempty"`
}

func (that *Game) Height() int {
	return that.Board.Height()
}

func (that *Game) Width() int {
	return that.Board.Width()
}

func (that *Game) IsTerminal() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

// WinningPlayer returns the winner, or false when there is none yet or the game is a tie.
func (that *Game) WinningPlayer() (Player, bool) {
	if that.Winner == EmptyCell || that.Winner == MarkTie {
		return Player{}, false
	}

	return that.PlayerByMark(that.Winner), true
}

func (that *Game) IsTie() bool {
	return that.IsTerminal() && that.Winner == MarkTie
}

func (that *Game) ActivePlayer() Player {
	return that.PlayerByMark(that.Turn)
}

func (that *Game) PlayerByMark(mark Mark) Player {
	for _, player := range that.Players {
		if player.Mark == mark {
			return player
		}
	}

	return Player{}
}
