package buildconfig

// Build-time variables injected via ldflags
var (
	version = "dev"
	commit  = "unknown"
)

// ServiceName identifies this server in logs and health responses.
const ServiceName = "auth-server"

// Version returns the build version
func Version() string {
	return version
}

// Commit returns the git commit hash
func Commit() string {
	return commit
}

// VersionInfo returns full version information
func VersionInfo() map[string]string {
	return map[string]string{
		"service": ServiceName,
		"version": version,
		"commit":  commit,
	}
}
