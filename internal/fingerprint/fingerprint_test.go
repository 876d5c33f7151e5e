package fingerprint

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile(t *testing.T) {
	t.Run("known digest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "hello.txt")
		require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

		got, err := File(path)

		require.NoError(t, err)
		// sha256("hello world")
		assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", got)
	})

	t.Run("matches Bytes for same content", func(t *testing.T) {
		content := []byte("some document text with several words")
		path := filepath.Join(t.TempDir(), "doc.txt")
		require.NoError(t, os.WriteFile(path, content, 0o644))

		fromFile, err := File(path)
		require.NoError(t, err)

		assert.Equal(t, Bytes(content), fromFile)
	})

	t.Run("streams files larger than one read block", func(t *testing.T) {
		content := []byte(strings.Repeat("abcdefgh", 32*1024)) // 256 KiB
		path := filepath.Join(t.TempDir(), "big.txt")
		require.NoError(t, os.WriteFile(path, content, 0o644))

		fromFile, err := File(path)
		require.NoError(t, err)

		assert.Equal(t, Bytes(content), fromFile)
	})

	t.Run("missing file returns error", func(t *testing.T) {
		_, err := File(filepath.Join(t.TempDir(), "absent.pdf"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "absent.pdf")
	})

	t.Run("one changed byte changes the fingerprint", func(t *testing.T) {
		dir := t.TempDir()
		a := filepath.Join(dir, "a.txt")
		b := filepath.Join(dir, "b.txt")
		require.NoError(t, os.WriteFile(a, []byte("identical content X"), 0o644))
		require.NoError(t, os.WriteFile(b, []byte("identical content Y"), 0o644))

		fpA, err := File(a)
		require.NoError(t, err)
		fpB, err := File(b)
		require.NoError(t, err)

		assert.NotEqual(t, fpA, fpB)
	})
}

func TestBytes(t *testing.T) {
	t.Run("empty content has the empty-string digest", func(t *testing.T) {
		assert.Equal(t,
			"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
			Bytes(nil))
		assert.Equal(t, Bytes(nil), Bytes([]byte{}))
	})

	t.Run("digest is lowercase hex of fixed length", func(t *testing.T) {
		got := Bytes([]byte("anything"))

		assert.Len(t, got, 64)
		assert.Equal(t, strings.ToLower(got), got)
	})
}
