package commands

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/urfave/cli/v3"

	"github.com/qilbeedb/qilbee-go/internal/app"
)

// envPrefix marks environment variables that feed the config; "__" nests,
// so QILBEE_API__BASE_URL becomes api.base_url.
const envPrefix = "QILBEE_"

// flagKeys maps each root flag onto its place in the config tree. Only flags
// listed here participate in config loading; everything else (--config,
// command-specific flags) is handled by its command directly.
var flagKeys = map[string]string{
	"log-level":  "log_level",
	"log-format": "log_format",
	"base-url":   "api.base_url",
	"storage":    "auth.storage",
}

// configLoader carries the three config sources; environ is injectable for
// tests.
type configLoader struct {
	path    string
	cmd     *cli.Command
	environ func() []string
}

func loadConfig(configPath string, cmd *cli.Command, environFunc func() []string) (*app.Config, error) {
	loader := &configLoader{path: configPath, cmd: cmd, environ: environFunc}
	return loader.load()
}

// load assembles the CLI configuration. Later sources win: the config file
// is the base, QILBEE_* environment variables override it, and flags the
// user set explicitly override both. Defaults fill whatever is left, then
// the result is validated as a whole.
func (c *configLoader) load() (*app.Config, error) {
	k := koanf.New(".")

	if c.path != "" {
		if err := k.Load(file.Provider(c.path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", c.path, err)
		}
	}

	envOpt := env.Opt{
		Prefix:      envPrefix,
		EnvironFunc: c.environ,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			return strings.ReplaceAll(key, "__", "."), value
		},
	}
	if err := k.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := k.Load(confmap.Provider(c.setFlags(), "."), nil); err != nil {
		return nil, fmt.Errorf("reading flags: %w", err)
	}

	cfg := &app.Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.ApplyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setFlags collects the values of known flags the user passed explicitly.
// Unset flags stay out of the map so file and environment values survive;
// flag defaults arrive later with the rest of the defaults.
func (c *configLoader) setFlags() map[string]any {
	values := make(map[string]any)
	if c.cmd == nil {
		return values
	}
	for flag, key := range flagKeys {
		if c.cmd.IsSet(flag) {
			values[key] = c.cmd.Value(flag)
		}
	}
	return values
}
