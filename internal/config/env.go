package config

import (
	"os"

	"github.com/joho/godotenv"
)

// envFiles are consulted in priority order. godotenv never overrides variables
// that are already set, so the process environment wins over both files and
// .env.local wins over .env.
var envFiles = []string{".env.local", ".env"}

func loadEnvFiles() error {
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return err
		}
	}
	return nil
}
