package config

import "github.com/spf13/pflag"

// Load assembles the run configuration from all sources, lowest precedence
// first: defaults, the --config YAML file, the dotenv file and VIDSHRINK_*
// environment, then flags and positional args. The result is validated.
func Load(fs *pflag.FlagSet, f *Flags, args []string, lookup LookupFunc) (Config, error) {
	cfg := DefaultConfig()

	if err := LoadDotEnv(f.EnvFile()); err != nil {
		return cfg, err
	}
	if p := f.ConfigPath(); p != "" {
		if err := LoadFile(p, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := LoadEnv(&cfg, lookup); err != nil {
		return cfg, err
	}
	if err := f.Apply(fs, &cfg, args); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
