package config

// GetAuthSkipperPaths returns a list of paths to skip authentication for
func GetAuthSkipperPaths() []string {
	// Dataset reads are public; only maintenance routes need credentials
	return []string{"/api/episodes/:number", "/api/chapters/:number", "/api/stats"}
}
