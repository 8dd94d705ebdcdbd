package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolveYAML is a [kong.ConfigurationLoader] for YAML configuration files.
//
// The file is a flat mapping of flag names to values. Flag names with
// hyphens (e.g. "log-level") may use underscores in the file
// (e.g. "log_level"). Command-line flags override config file values.
//
// Example config file:
//
//	log_level: debug
//	log_format: text
//	log_pretty: true
//	loop_limit: 50000
func resolveYAML(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	values := map[string]any{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		// Unparsable config yields empty defaults, not a hard failure.
		return config{}, nil
	}

	return config(values), nil
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens but YAML keys may use underscores. Try both.
	value, ok := c[flag.Name]
	if !ok {
		value, ok = c[strings.ReplaceAll(flag.Name, "-", "_")]
	}

	if !ok {
		// Let Kong fall back to the declared default.
		return nil, nil
	}

	// Kong expects scalars as strings for parsing.
	switch v := value.(type) {
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool, string:
		return v, nil
	default:
		return fmt.Sprint(v), nil
	}
}
