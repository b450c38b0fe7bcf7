package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "short flag with separate value",
			args:    []string{"-c", "conf.json", "-a", ":8081"},
			allowed: []string{"-c", "--config"},
			want:    []string{"-c", "conf.json"},
		},
		{
			name:    "long flag with equals",
			args:    []string{"--config=alt.json", "-a", ":8081"},
			allowed: []string{"-c", "--config"},
			want:    []string{"--config=alt.json"},
		},
		{
			name:    "unknown flags and positionals ignored",
			args:    []string{"-x", "1", "--y=2", "signup"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "flag without value at end is kept",
			args:    []string{"-s"},
			allowed: []string{"-s"},
			want:    []string{"-s"},
		},
		{
			name:    "next dash-prefixed token is not a value",
			args:    []string{"-c", "--config=alt.json"},
			allowed: []string{"-c", "--config"},
			want:    []string{"-c", "--config=alt.json"},
		},
		{
			name:    "several allowed flags preserve order",
			args:    []string{"-a", ":8081", "-d", "postgres://db", "-z", "x", "-s", "key"},
			allowed: []string{"-a", "-d", "-s"},
			want:    []string{"-a", ":8081", "-d", "postgres://db", "-s", "key"},
		},
		{
			name:    "empty args",
			args:    []string{},
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFile(t *testing.T) {
	assert.Equal(t, "/path/short.json", ConfigFile([]string{"-c", "/path/short.json"}))
	assert.Equal(t, "/path/long.json", ConfigFile([]string{"-config", "/path/long.json"}))
	assert.Equal(t, "/path/eq.json", ConfigFile([]string{"-a", ":1", "--config=/path/eq.json"}))
	assert.Empty(t, ConfigFile([]string{"-x", "1", "-y", "2"}))
	assert.Equal(t, "/path/2.json", ConfigFile([]string{"-c", "/path/1.json", "-config", "/path/2.json"}))
}
