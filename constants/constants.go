package constants

import "os"

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetMediaDir is where serve looks for serialized files.
func GetMediaDir() string {
	return getEnv("MEDIA_PATH", ".")
}

func GetLogLevel() string {
	return getEnv("SFDEX_LOG_LEVEL", "info")
}

func GetAddr() string {
	return getEnv("SFDEX_ADDR", ":8080")
}

const DefaultFormat = "text"

// how long serve waits for rescan requests to settle before walking the
// media dir again
const RescanDelayMillis = 500
