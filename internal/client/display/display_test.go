package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderBoard(t *testing.T) {
	ascii := "  a b c d e f g h\n4 . . . w b . . .  4\n  a b c d e f g h"

	var out bytes.Buffer
	RenderBoard(&out, ascii)
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	// Column letters are labels, not pieces
	require.Contains(t, lines[0], Cyan+"b"+Reset)
	require.NotContains(t, lines[0], Red)
	require.Contains(t, lines[1], Blue+"w"+Reset)
	require.Contains(t, lines[1], Red+"b"+Reset)
}

func TestScore(t *testing.T) {
	require.Equal(t, Green+"Black 4"+Reset+" - White 1", Score(4, 1))
	require.Equal(t, "Black 2 - White 2", Score(2, 2))
	require.Equal(t, "Black", strings.TrimSuffix(strings.TrimPrefix(ColorForTurn("b"), Red), Reset))
	require.Equal(t, "-", ColorForTurn(""))
}
