package repositories_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zipcompressor/internal/domain/entities"
	"zipcompressor/internal/infrastructure/repositories"
)

func TestCopyFile_PreservesContentAndModTime(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")

	require.NoError(t, os.WriteFile(src, []byte("hello"), 0640))
	modTime := time.Date(2020, 5, 17, 10, 30, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, modTime, modTime))

	repo := repositories.NewFileSystemRepository()
	require.NoError(t, repo.CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(modTime), "mod time %v, want %v", info.ModTime(), modTime)
}

func TestCopyFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	repo := repositories.NewFileSystemRepository()

	err := repo.CopyFile(filepath.Join(dir, "absent"), filepath.Join(dir, "dst"))
	assert.ErrorIs(t, err, entities.ErrFilesystem)
}

func TestCreateDirectory_Concurrent(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "c")
	repo := repositories.NewFileSystemRepository()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.CreateDirectory(target)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.DirExists(t, target)
}

func TestListArchives(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	for _, name := range []string{"b.zip", "a.ZIP", "nested/c.zip", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	archives, err := repositories.NewFileSystemRepository().ListArchives(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.ZIP"),
		filepath.Join(dir, "b.zip"),
		filepath.Join(dir, "nested", "c.zip"),
	}, archives)
}

func TestGetFileInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.pdf")
	require.NoError(t, os.WriteFile(path, []byte("12345"), 0644))

	repo := repositories.NewFileSystemRepository()
	info, err := repo.GetFileInfo(path)
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size)
	assert.True(t, repo.FileExists(path))
	assert.False(t, repo.FileExists(path+".missing"))
}

func TestProfileRepository(t *testing.T) {
	profile, err := repositories.NewProfileRepository().GetCompressionProfile(entities.LevelHigh)
	require.NoError(t, err)
	assert.Equal(t, entities.PresetEbook, profile.Preset)
}
