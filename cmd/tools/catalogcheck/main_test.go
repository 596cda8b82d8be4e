package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/globalcontainerexchange/gce-api/internal/catalog"
)

func TestRunEmbeddedCatalog(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	require.Contains(t, stdout.String(), "SIZE-40FT-HC")
	require.Contains(t, stdout.String(), "catalogcheck: OK (embedded, 18 entries")
}

func TestRunIncompleteCatalog(t *testing.T) {
	data, err := catalog.EmbeddedSource{}.Read(context.Background())
	require.NoError(t, err)
	var kept []string
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "INSURANCE-PREMIUM") {
			kept = append(kept, line)
		}
	}
	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(kept, "\n")), 0o600))

	var stdout, stderr bytes.Buffer
	require.Equal(t, 1, run([]string{"-file", path}, &stdout, &stderr))
	require.Contains(t, stderr.String(), "INVALID")
	require.Contains(t, stderr.String(), "INSURANCE-PREMIUM")
}

func TestRunMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.Equal(t, 2, run([]string{"-q", "-file", filepath.Join(t.TempDir(), "nope.csv")}, &stdout, &stderr))
	require.Equal(t, 2, run([]string{"-bogus"}, &stdout, &stderr))
}
