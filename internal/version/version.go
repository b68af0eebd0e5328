package version

// Version is the argo-insight build version, set at build time with
// -ldflags "-X github.com/rxtech-lab/argo-insight/internal/version.Version=v1.2.3".
// "main" marks a development build.
var Version = "main"

// GetVersion returns the build version.
func GetVersion() string {
	return Version
}
