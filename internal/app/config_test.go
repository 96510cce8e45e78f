package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		in      Config
		want    Config
		wantErr string
	}{
		{
			name: "defaults",
			in:   Config{SnapshotPath: "graph.json"},
			want: Config{SnapshotPath: "graph.json", LogLevel: "info", LogFormat: "text"},
		},
		{
			name: "explicit",
			in:   Config{LogLevel: "debug", LogFormat: "json", HostURL: "ws://localhost:3000", HostTimeout: time.Second},
			want: Config{LogLevel: "debug", LogFormat: "json", HostURL: "ws://localhost:3000", HostTimeout: time.Second},
		},
		{name: "bad level", in: Config{LogLevel: "verbose"}, wantErr: "invalid log level 'verbose'"},
		{name: "bad format", in: Config{LogFormat: "xml"}, wantErr: "invalid log format 'xml'"},
		{
			name:    "scene with host",
			in:      Config{HostURL: "ws://localhost:3000", ScenePaths: []string{"scene.hcl"}},
			wantErr: "cannot be combined",
		},
		{
			name:    "local path checks with host",
			in:      Config{HostURL: "ws://localhost:3000", ProbePaths: true},
			wantErr: "cannot be combined with a host URL",
		},
		{name: "negative timeout", in: Config{HostTimeout: -time.Second}, wantErr: "must not be negative"},
		{name: "port out of range", in: Config{HealthcheckPort: 70000}, wantErr: "out of range"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewConfig(tc.in)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, *got)
		})
	}
}
