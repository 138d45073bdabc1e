package display

// Terminal color codes
const (
	Reset   = "\033[0m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
)

// Prompt returns a colored prompt string
func Prompt(text string) string {
	return Yellow + text + Yellow + " > " + Reset
}

// ColorForTurn returns a colored side name for "b" or "w"
func ColorForTurn(turn string) string {
	switch turn {
	case "b":
		return Red + "Black" + Reset
	case "w":
		return Blue + "White" + Reset
	default:
		return "-"
	}
}
