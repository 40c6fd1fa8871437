package commands

type Flags struct {
	DBPath   string
	LogLevel string
	LogFile  string
}
