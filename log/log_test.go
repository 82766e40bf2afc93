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

package log

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"dirpx.dev/causeway/config"
)

func TestZapConfig_Levels(t *testing.T) {
	cases := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			zc, err := zapConfig(config.NewConfig(config.WithLogging(tc.level, FormatJSON)))
			require.NoError(t, err)
			require.Equal(t, tc.want, zc.Level.Level())
			require.Equal(t, "json", zc.Encoding)
		})
	}
}

func TestZapConfig_Console(t *testing.T) {
	zc, err := zapConfig(config.DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, "console", zc.Encoding)
	require.False(t, zc.Development)
	require.True(t, zc.DisableStacktrace)
}

func TestNew_Errors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogFormat = "xml"
	_, err := New(cfg)
	require.True(t, errors.Is(err, ErrUnknownFormat))

	cfg = config.DefaultConfig()
	cfg.LogLevel = "loud"
	_, err = New(cfg)
	require.Error(t, err)
}

func TestNew_Builds(t *testing.T) {
	l, err := New(config.DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, l)
	require.True(t, l.Core().Enabled(zapcore.InfoLevel))
	require.False(t, l.Core().Enabled(zapcore.DebugLevel))
}
