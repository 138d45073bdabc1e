package display

import (
	"fmt"
	"io"
	"strings"
)

// RenderBoard writes the server's ASCII board with colored pieces and labels
func RenderBoard(w io.Writer, asciiBoard string) {
	var sb strings.Builder

	for _, line := range strings.Split(asciiBoard, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		// Column header and footer lines start with a space
		labelLine := strings.HasPrefix(line, " ")

		for _, char := range line {
			switch {
			case labelLine && char >= 'a' && char <= 'h':
				sb.WriteString(Cyan + string(char) + Reset)
			case char == 'b':
				sb.WriteString(Red + "b" + Reset)
			case char == 'w':
				sb.WriteString(Blue + "w" + Reset)
			case char >= '1' && char <= '8':
				sb.WriteString(Cyan + string(char) + Reset)
			default:
				sb.WriteRune(char)
			}
		}
		sb.WriteByte('\n')
	}

	fmt.Fprint(w, sb.String())
}

// Score formats piece counts with the leader highlighted
func Score(black, white int) string {
	b := fmt.Sprintf("Black %d", black)
	wh := fmt.Sprintf("White %d", white)
	switch {
	case black > white:
		b = Green + b + Reset
	case white > black:
		wh = Green + wh + Reset
	}
	return b + " - " + wh
}
