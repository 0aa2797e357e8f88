package config

const (
	LogErrorColor = "\033[31m"
	LogInfoColor  = "\033[32m"
	LogColorReset = "\033[0m"
)

// Color constants for logging
const (
	ColorBlue    = "\033[34m"
	ColorMagenta = "\033[35m"
	ColorCyan    = "\033[36m"
	ColorReset   = "\033[0m"
)

const (
	LogWarningColor = "\033[33m"
	ColorGreen      = "\033[32m"
	ColorPurple     = "\033[95m"
	ColorYellow     = "\033[33m"
)
