// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files and
// from the environment. Each file in the directory represents one secret:
// the filename is the key name and the file contents (trimmed) are the value.
//
// Supported key files: openai-api-key, anthropic-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Key file names and the environment variables that override them.
const (
	OpenAIKeyFile    = "openai-api-key"
	AnthropicKeyFile = "anthropic-api-key"

	OpenAIKeyEnv    = "OPENAI_API_KEY"
	AnthropicKeyEnv = "ANTHROPIC_API_KEY"
)

// Keys holds the resolved provider API keys. A missing key is empty.
type Keys struct {
	OpenAI    string
	Anthropic string
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Resolve returns the provider keys. The process environment wins over the
// dotenv file, which wins over the key files in dir. A missing dotenv file
// is not an error.
func Resolve(dir, dotenv string) (Keys, error) {
	files, err := Load(dir)
	if err != nil {
		return Keys{}, err
	}

	env := map[string]string{}
	if dotenv != "" {
		env, err = godotenv.Read(dotenv)
		if err != nil && !os.IsNotExist(err) {
			return Keys{}, fmt.Errorf("reading %s: %w", dotenv, err)
		}
	}

	pick := func(envName, file string) string {
		if v := strings.TrimSpace(os.Getenv(envName)); v != "" {
			return v
		}
		if v := strings.TrimSpace(env[envName]); v != "" {
			return v
		}
		return files[file]
	}

	return Keys{
		OpenAI:    pick(OpenAIKeyEnv, OpenAIKeyFile),
		Anthropic: pick(AnthropicKeyEnv, AnthropicKeyFile),
	}, nil
}
