package version

// Version проставляется при сборке через -ldflags.
var Version = "dev"

// GetVersion возвращает версию сервиса.
func GetVersion() string {
	return Version
}
