package i

// Logger is the leveled logger shared by services.
type Logger interface {
	Info(string)
	Error(string)
	Warning(string)
}
