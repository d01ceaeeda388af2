package passkit

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildManifest_DigestsEveryFile(t *testing.T) {
	files := map[string][]byte{
		"pass.json": []byte(`{"formatVersion":1}`),
		"icon.png":  {0x89, 0x50, 0x4E, 0x47},
	}

	manifest, err := BuildManifest(files)
	require.NoError(t, err)

	var digests map[string]string
	require.NoError(t, json.Unmarshal(manifest, &digests))
	require.Len(t, digests, len(files))

	for name, data := range files {
		sum := sha1.Sum(data)
		assert.Equal(t, hex.EncodeToString(sum[:]), digests[name], "dosya: %s", name)
	}
}

func TestBuildManifest_EmptyFileSetFails(t *testing.T) {
	_, err := BuildManifest(nil)
	require.Error(t, err)

	var signingErr *SigningError
	assert.ErrorAs(t, err, &signingErr)
}

func TestBuildManifest_Deterministic(t *testing.T) {
	files := map[string][]byte{
		"b.png":     {0x01},
		"a.png":     {0x02},
		"pass.json": []byte("{}"),
	}

	first, err := BuildManifest(files)
	require.NoError(t, err)
	second, err := BuildManifest(files)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
