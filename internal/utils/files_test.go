package utils

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeWriteFileCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.csv")
	require.NoError(t, SafeWriteFile(path, []byte("x,y\n")))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x,y\n", string(b))
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file left behind")
}

func TestOpenInputStdin(t *testing.T) {
	rc, err := OpenInput(StdioName, strings.NewReader("id,val\n"))
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "id,val\n", string(b))

	_, err = OpenInput(filepath.Join(t.TempDir(), "missing.csv"), nil)
	assert.Error(t, err)
}

func TestResolveOutput(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "crm.csv"), ResolveOutput("out", "crm.csv"))
	assert.Equal(t, "-", ResolveOutput("out", "-"), "stdout path rewritten")
	assert.Equal(t, "crm.csv", ResolveOutput("", "crm.csv"))
}

func TestSlug(t *testing.T) {
	cases := map[string]string{"Au CRM (OREAS 45e)": "au-crm-oreas-45e", "  blanks ": "blanks", "Cu/Dup#1": "cu-dup-1"}
	for in, want := range cases {
		assert.Equal(t, want, Slug(in), in)
	}
}
