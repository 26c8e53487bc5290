// Package config loads the interlin configuration from a YAML file and the
// environment.
package config

import "strings"

// Config is the root configuration.
type Config struct {
	Align    AlignConfig    `yaml:"align"`
	Storage  StorageConfig  `yaml:"storage"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
}

// AlignConfig holds the alignment settings.
type AlignConfig struct {
	HeuristicsRaw      string `yaml:"heuristics"           env:"INTERLIN_HEURISTICS"           env-default:"exact,lemma,sub,gram"`
	GramDict           string `yaml:"gram_dict"            env:"INTERLIN_GRAM_DICT"`
	SubstringMinLength int    `yaml:"substring_min_length" env:"INTERLIN_SUBSTRING_MIN_LENGTH" env-default:"3"`
	StrictMorphs       bool   `yaml:"strict_morphs"        env:"INTERLIN_STRICT_MORPHS"        env-default:"false"`
}

// Heuristics returns the heuristic names in order.
func (a AlignConfig) Heuristics() []string {
	var names []string
	for _, n := range strings.Split(a.HeuristicsRaw, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// StorageConfig points to the corpus: a directory of JSON documents or a
// SQLite file.
type StorageConfig struct {
	Path string `yaml:"path" env:"INTERLIN_DOC_PATH"`
}

type PipelineConfig struct {
	// 0 means one worker per CPU
	Workers int `yaml:"workers" env:"INTERLIN_WORKERS" env-default:"0"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"INTERLIN_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"INTERLIN_LOG_FORMAT" env-default:"text"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr              string `yaml:"addr"            env:"INTERLIN_SERVER_ADDR"            env-default:"127.0.0.1:8080"`
	AllowedOriginsRaw string `yaml:"allowed_origins" env:"INTERLIN_SERVER_ALLOWED_ORIGINS" env-default:"*"`
}

func (s ServerConfig) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(s.AllowedOriginsRaw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
