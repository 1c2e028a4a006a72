package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tiglabs/graphkv/storage"
	"github.com/tiglabs/graphkv/util/json"
)

func TestRunMemory(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"--mode", "partitioned",
		"--engine", "memory",
		"--dir", filepath.Join(t.TempDir(), "store"),
		"--threads", "2",
		"--seconds", "1",
	})
	require.NoError(t, rootCmd.Execute())

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, string(storage.ModePartitioned), report["mode"])
	assert.Equal(t, string(storage.EngineMemory), report["engine"])
	assert.NotEmpty(t, report["run_id"])
}

func TestRunRejectsBadMode(t *testing.T) {
	rootCmd.SetArgs([]string{"--mode", "CF", "--engine", "memory"})
	assert.ErrorIs(t, rootCmd.Execute(), storage.ErrUnknownMode)
}
