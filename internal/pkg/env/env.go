package env

import (
	"os"

	"github.com/joho/godotenv"
)

// Env holds the key/value pairs read from the .env file. OS environment
// variables take over when a key is missing, so containerized deployments
// can run without a file at all.
var Env map[string]string

// SetupEnvFile loads the first .env file it finds, walking up from the
// binary's working directory to the repository root.
func SetupEnvFile() {
	candidates := []string{
		".env",
		"../../.env",
		"../../../.env",
	}

	for _, path := range candidates {
		parsed, err := godotenv.Read(path)
		if err == nil {
			Env = parsed
			return
		}
	}

	panic("no .env file found, copy .env.example and adjust it")
}

// GetEnv returns the value for key from the .env file, then the OS
// environment, then def.
func GetEnv(key, def string) string {
	if val, ok := Env[key]; ok {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// IsDev reports whether APP_ENV selects the development profile.
func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}
