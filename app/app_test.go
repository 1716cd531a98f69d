package app

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDump(t *testing.T) {
	etc, err := filepath.Abs("../etc")
	require.NoError(t, err)

	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{name: "toml", args: []string{"config", "dump", "--config", etc + "/"}, contains: `Title = "FitCircle"`},
		{name: "json", args: []string{"config", "dump", "--json", "--config", etc + "/"}, contains: `"Title": "FitCircle"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			rootCmd.SetOut(&out)
			rootCmd.SetArgs(tt.args)

			require.NoError(t, Execute())
			assert.Contains(t, out.String(), tt.contains)
		})
	}
}
