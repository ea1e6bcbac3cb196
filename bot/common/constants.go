package common

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287
	ColorDanger  = 0xED4245
	ColorWarning = 0xFEE75C
	ColorInfo    = 0x3498DB
	ColorGold    = 0xF1C40F
)

// CustomIDSeparator joins the parts of a component custom ID
const CustomIDSeparator = "_"
