package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Keys understood in a paths file.
const (
	KeyGraalCEDir     = "GRAALCE_DIR"
	KeyOpenJ9Dir      = "OPENJ9_DIR"
	KeyRenaissanceJar = "RENAISSANCE_JAR"
	KeyDaCapoJar      = "DACAPO_JAR"
	KeySPECJar        = "SPEC_JAR"
	KeySPECDir        = "SPEC_DIR"
)

// Paths maps path keys to filesystem locations, read from a shell-style
// KEY=VALUE file such as:
//
//	GRAALCE_DIR=/opt/graalvm-ce-1.0.0-rc16
//	DACAPO_JAR=/opt/dacapo-9.12-MR1-bach.jar
type Paths map[string]string

// LoadPaths reads a paths file.
func LoadPaths(path string) (Paths, error) {
	m, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read paths file %s: %w", path, err)
	}

	return Paths(m), nil
}

// Lookup returns the value of key, failing when it is unset or empty.
func (p Paths) Lookup(key string) (string, error) {
	v, ok := p[key]
	if !ok || v == "" {
		return "", fmt.Errorf("%s is not set in the paths file", key)
	}

	return v, nil
}

// Expand replaces ${KEY} and $KEY references in s with their values.
// Every referenced key must be set.
func (p Paths) Expand(s string) (string, error) {
	var missing []string

	out := os.Expand(s, func(key string) string {
		v, err := p.Lookup(key)
		if err != nil {
			missing = append(missing, key)
		}

		return v
	})

	if len(missing) > 0 {
		sort.Strings(missing)

		return "", fmt.Errorf(
			"expand %q: %s not set in the paths file",
			s, strings.Join(missing, ", "),
		)
	}

	return out, nil
}
