package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	internalsecrets "github.com/Checker-Finance/vault-secrets/internal/secrets"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatEnv  = "env"
)

// writePayload renders data in the requested format.
func writePayload(w io.Writer, format string, data map[string]any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case formatYAML:
		out, err := yaml.Marshal(data)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	case formatEnv:
		values, err := internalsecrets.StringValues(data)
		if err != nil {
			return err
		}
		env := make(map[string]string, len(values))
		for k, v := range values {
			env[envKey(k)] = v
		}
		out, err := godotenv.Marshal(env)
		if err != nil {
			return fmt.Errorf("encode env: %w", err)
		}
		_, err = fmt.Fprintln(w, out)
		return err
	default:
		return fmt.Errorf("unknown output format %q (want json, yaml or env)", format)
	}
}

// envKey upper-cases k and replaces anything that is not a letter or digit with "_".
func envKey(k string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return unicode.ToUpper(r)
		}
		return '_'
	}, k)
}
