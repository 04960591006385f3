package cas_test

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/cas"
	"go.trai.ch/kiln/internal/core/domain"
)

func sampleInfo(ref string) domain.PackageInfo {
	return domain.PackageInfo{
		Ref:       ref,
		PackageID: "9f2c1a7be0d34415",
		Settings:  map[string]string{"os": "Linux", "build_type": "Release"},
		Options:   map[string]string{"shared": "False", "fPIC": "True"},
		CppInfo:   domain.DefaultCppInfo("jinja2cpp"),
		Folder:    "/tmp/packages/jinja2cpp/1.1.0",
		Timestamp: time.Now().UTC().Truncate(time.Second),
	}
}

func TestStore_PutGet(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := cas.NewStore()
	ref := domain.Ref{Name: "jinja2cpp", Version: "1.1.0"}
	info := sampleInfo(ref.String())

	require.NoError(t, store.Put(root, info))

	got, err := store.Get(root, ref)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, info, *got)
}

func TestStore_Get_Missing(t *testing.T) {
	t.Parallel()

	got, err := cas.NewStore().Get(t.TempDir(), domain.Ref{Name: "quickfix", Version: "1.15.1"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_Put_Replaces(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := cas.NewStore()
	ref := domain.Ref{Name: "jinja2cpp", Version: "1.1.0"}

	first := sampleInfo(ref.String())
	require.NoError(t, store.Put(root, first))

	second := sampleInfo(ref.String())
	second.PackageID = "0000000000000001"
	require.NoError(t, store.Put(root, second))

	got, err := store.Get(root, ref)
	require.NoError(t, err)
	assert.Equal(t, "0000000000000001", got.PackageID)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestStore_Get_Corrupt(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := cas.NewStore()
	ref := domain.Ref{Name: "quickfix", Version: "1.15.1"}
	require.NoError(t, store.Put(root, sampleInfo(ref.String())))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	err = os.WriteFile(filepath.Join(root, entries[0].Name()), []byte("{ invalid json"), 0o600)
	require.NoError(t, err)

	_, err = store.Get(root, ref)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrStoreUnmarshalFailed.Error())
}

func TestStore_ConcurrentPut(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := cas.NewStore()

	var wg sync.WaitGroup
	for _, name := range []string{"jinja2cpp", "quickfix", "fmt", "boost"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Put(root, sampleInfo(name+"/1.0.0")))
		}()
	}
	wg.Wait()

	for _, name := range []string{"jinja2cpp", "quickfix", "fmt", "boost"} {
		got, err := store.Get(root, domain.Ref{Name: name, Version: "1.0.0"})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, name+"/1.0.0", got.Ref)
	}
}

func TestStore_Put_WritesBelowRoot(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "store")
	ref := "jinja2cpp/1.1.0"
	require.NoError(t, cas.NewStore().Put(root, sampleInfo(ref)))

	sum := sha256.Sum256([]byte(ref))
	assert.FileExists(t, filepath.Join(root, hex.EncodeToString(sum[:])+".json"))
}
