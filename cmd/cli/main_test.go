package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_NetworksExitsZero(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"networks"}, &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Empty(t, stderr.String())
	assert.Contains(t, stdout.String(), "polygon")
	assert.Contains(t, stdout.String(), "42161")
}

func TestRun_ErrorsExitOne(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unexpected argument", args: []string{"unexpected"}},
		{name: "missing workbook", args: []string{"show-file", filepath.Join(t.TempDir(), "missing.xlsx")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			code := run(tt.args, &stdout, &stderr)
			assert.Equal(t, 1, code)
			assert.True(t, strings.HasPrefix(stderr.String(), "Error: "), stderr.String())
		})
	}
}
