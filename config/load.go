/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"dirpx.dev/causeway/apis"
)

// EnvPrefix is the prefix of environment variables overriding file values,
// e.g. CAUSEWAY_STRICT_REMAP=true.
const EnvPrefix = "CAUSEWAY"

// file mirrors apis.Config with mapstructure keys.
type file struct {
	IncludeBuiltins      bool   `mapstructure:"include_builtins"`
	MaxUnwrap            int    `mapstructure:"max_unwrap"`
	MapPreferElem        bool   `mapstructure:"map_prefer_elem"`
	FailOnOrphans        bool   `mapstructure:"fail_on_orphans"`
	IntrospectionWorkers int    `mapstructure:"introspection_workers"`
	ConcurrencyChecking  bool   `mapstructure:"concurrency_checking"`
	StrictRemap          bool   `mapstructure:"strict_remap"`
	LogLevel             string `mapstructure:"log_level"`
	LogFormat            string `mapstructure:"log_format"`
}

// NewViper returns a viper instance carrying the built-in defaults and the
// CAUSEWAY_* environment binding. path may be empty.
func NewViper(path string) *viper.Viper {
	v := viper.New()
	d := DefaultConfig()
	v.SetDefault("include_builtins", d.IncludeBuiltins)
	v.SetDefault("max_unwrap", d.MaxUnwrap)
	v.SetDefault("map_prefer_elem", d.MapPreferElem)
	v.SetDefault("fail_on_orphans", d.FailOnOrphans)
	v.SetDefault("introspection_workers", d.IntrospectionWorkers)
	v.SetDefault("concurrency_checking", d.ConcurrencyChecking)
	v.SetDefault("strict_remap", d.StrictRemap)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
	}
	return v
}

// Load reads configuration from the file at path (TOML, YAML or JSON by
// extension), CAUSEWAY_* env vars and built-in defaults, in increasing
// order of precedence: defaults < file < env. An empty path skips the file.
func Load(path string) (apis.Config, error) {
	v := NewViper(path)
	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			return apis.Config{}, errors.Wrapf(err, "config: read %s", path)
		}
	}
	return FromViper(v)
}

// FromViper decodes the settings held by v.
func FromViper(v *viper.Viper) (apis.Config, error) {
	var f file
	if err := v.Unmarshal(&f); err != nil {
		return apis.Config{}, errors.Wrap(err, "config: decode")
	}
	return normalize(apis.Config{
		IncludeBuiltins:      f.IncludeBuiltins,
		MaxUnwrap:            f.MaxUnwrap,
		MapPreferElem:        f.MapPreferElem,
		FailOnOrphans:        f.FailOnOrphans,
		IntrospectionWorkers: f.IntrospectionWorkers,
		ConcurrencyChecking:  f.ConcurrencyChecking,
		StrictRemap:          f.StrictRemap,
		LogLevel:             f.LogLevel,
		LogFormat:            f.LogFormat,
	}), nil
}
