package cli

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

const emptySymbol = "."

// pieceSymbols maps each mark to the upper-cased first letter of its color,
// or to the player number when both colors start with the same letter.
func pieceSymbols(game *entity.Game) map[entity.Mark]string {
	symbols := make(map[entity.Mark]string, len(game.Players))
	for _, player := range game.Players {
		r, _ := utf8.DecodeRuneInString(player.Color)
		symbols[player.Mark] = string(unicode.ToUpper(r))
	}

	one, two := game.Players[0].Mark, game.Players[1].Mark
	if symbols[one] == symbols[two] || symbols[one] == emptySymbol || symbols[two] == emptySymbol {
		symbols[one], symbols[two] = string(one), string(two)
	}

	return symbols
}

func renderBoard(w io.Writer, game *entity.Game) {
	symbols := pieceSymbols(game)
	cellWidth := len(fmt.Sprint(game.Width())) + 1

	var sb strings.Builder
	for col := 1; col <= game.Width(); col++ {
		fmt.Fprintf(&sb, "%*d", cellWidth, col)
	}
	sb.WriteString("\n")

	for _, row := range game.Board {
		for _, cell := range row {
			symbol := emptySymbol
			if cell != entity.EmptyCell {
				symbol = symbols[cell]
			}
			fmt.Fprintf(&sb, "%*s", cellWidth, symbol)
		}
		sb.WriteString("\n")
	}

	fmt.Fprint(w, sb.String())
}

func playerLabel(player entity.Player) string {
	return fmt.Sprintf("Player %s (%s)", player.Mark, player.Color)
}

func resultMessage(game *entity.Game) string {
	if winner, ok := game.WinningPlayer(); ok {
		return fmt.Sprintf("Player %s won!", winner.Mark)
	}

	if game.IsTie() {
		return "Tie!"
	}

	return ""
}
