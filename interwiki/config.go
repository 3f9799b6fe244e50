package interwiki

import "strings"

// Config holds the file-based configuration of the addinterwiki command.
type Config struct {
	Driver         string `yaml:"db_driver"`
	DSN            string `yaml:"dsn"`
	InterwikiCache string `yaml:"interwiki_cache"`
	ConflictPolicy string `yaml:"conflict_policy"`
	LogFormat      string `yaml:"log_format"`
	LogLevel       string `yaml:"log_level"`
}

// CacheOverrideActive reports whether interwiki data comes from somewhere
// other than the database. Only an explicit "off" value counts as inactive;
// a file path or any other value means the table is not authoritative.
func (c *Config) CacheOverrideActive() bool {
	switch strings.ToLower(strings.TrimSpace(c.InterwikiCache)) {
	case "", "false", "0", "off", "no":
		return false
	}
	return true
}
