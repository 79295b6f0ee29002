package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a secret comes from. File wins over Value when both
// are set, so a config file can carry the path while tests inject the value
// inline.
type Source struct {
	// Name identifies the secret in error messages.
	Name string
	// Value is an inline secret, typically only set in tests.
	Value string
	// File is a path to a file holding the secret.
	File string
}

// Load resolves the secret from the source and trims it. A missing or empty
// secret is an error naming the source.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	value := strings.TrimSpace(src.Value)

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from %q: %w", name, file, err)
		}

		value = strings.TrimSpace(string(data))
		if value == "" {
			return "", fmt.Errorf("%s file %q holds no value", name, file)
		}
		return value, nil
	}

	if value == "" {
		return "", fmt.Errorf("no source configured for %s", name)
	}

	return value, nil
}
