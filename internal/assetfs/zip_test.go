package assetfs

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"animation-poser/internal/asset"
	"animation-poser/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, prefix string, files map[string]string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "library.zip")
	f, err := os.Create(p)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	for name, content := range files {
		fw, err := w.Create(prefix + name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return p
}

func TestOpenZip(t *testing.T) {
	for _, prefix := range []string{"", "KnightLibrary/"} {
		t.Run("prefix="+prefix, func(t *testing.T) {
			s, closer, err := OpenZip(writeZip(t, prefix, testutil.KnightLibrary))
			require.NoError(t, err)
			defer closer.Close()

			loc, ok := s.ResolveGroupLocation(testutil.KnightGroupID)
			require.True(t, ok)
			hs, err := s.EnumerateAssetsOfKind(asset.KindPrefab, loc)
			require.NoError(t, err)
			assert.Len(t, hs, 4)

			a, err := s.LoadAsset(hs[1])
			require.NoError(t, err)
			assert.Equal(t, "Chr_Knight_01", a.AssetName())
		})
	}
}

func TestOpenZipMissing(t *testing.T) {
	_, _, err := OpenZip(filepath.Join(t.TempDir(), "none.zip"))
	assert.ErrorContains(t, err, "assetfs: unzip")
}

func TestIsZip(t *testing.T) {
	assert.True(t, IsZip("assets/Library.ZIP"))
	assert.False(t, IsZip("assets"))
}
