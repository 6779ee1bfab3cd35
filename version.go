package tailspin

// Version and BuildDate are overridden at link time:
//
//	go build -ldflags "-X github.com/daios-ai/tailspin.Version=v0.3.0"
var (
	Version   = "v0.1.0-dev"
	BuildDate = "unknown"
)
