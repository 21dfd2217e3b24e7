package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

// SendGridKeyName is the secret holding the SendGrid API key.
const SendGridKeyName = "SENDGRID_API_KEY"

// secretFiles lists the dotenv files consulted for secrets, in priority order.
func secretFiles(root string) []string {
	return []string{
		filepath.Join(root, "config.txt"),
		"config.txt",
		filepath.Join(root, ".env"),
		".env",
	}
}

// LoadSecret looks key up in the dotenv style files of root (config.txt, then
// .env) and falls back to the process environment.
func LoadSecret(root, key string) (string, error) {
	for _, file := range secretFiles(root) {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		values, err := godotenv.Read(file)
		if err != nil {
			return "", errors.WrapError(err, errors.CategoryConfig, "failed to parse secrets file").
				Fatal().
				WithContext("path", file).
				Build()
		}
		if v := values[key]; v != "" {
			return v, nil
		}
	}
	if v := os.Getenv(key); v != "" {
		return v, nil
	}
	return "", errors.ConfigError("missing secret").WithContext("key", key).Build()
}
