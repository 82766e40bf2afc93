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

// Package log builds the zap loggers used across causeway from the
// logging knobs of apis.Config.
package log

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dirpx.dev/causeway/apis"
)

const (
	// FormatConsole writes human readable lines.
	FormatConsole = "console"
	// FormatJSON writes one JSON object per entry.
	FormatJSON = "json"
)

// ErrUnknownFormat is returned for a LogFormat other than console or json.
var ErrUnknownFormat = errors.New("causeway(log): unknown log format")

// New returns a logger writing to stderr at cfg.LogLevel in cfg.LogFormat.
func New(cfg apis.Config) (*zap.Logger, error) {
	zc, err := zapConfig(cfg)
	if err != nil {
		return nil, err
	}
	return zc.Build()
}

// Must is like New but panics on error. Intended for main packages.
func Must(cfg apis.Config) *zap.Logger {
	l, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return l
}

func zapConfig(cfg apis.Config) (zap.Config, error) {
	lvl, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return zap.Config{}, errors.Wrapf(err, "causeway(log): level %q", cfg.LogLevel)
	}

	var zc zap.Config
	switch cfg.LogFormat {
	case FormatJSON:
		zc = zap.NewProductionConfig()
	case FormatConsole, "":
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zc.Development = false
	default:
		return zap.Config{}, errors.Wrapf(ErrUnknownFormat, "%q", cfg.LogFormat)
	}
	zc.Level = lvl
	zc.DisableStacktrace = lvl.Level() > zapcore.DebugLevel
	zc.Sampling = nil
	return zc, nil
}
