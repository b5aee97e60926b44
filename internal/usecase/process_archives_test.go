package usecases_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zipcompressor/internal/domain/entities"
	"zipcompressor/internal/infrastructure/logging"
	infra "zipcompressor/internal/infrastructure/repositories"
	usecases "zipcompressor/internal/usecase"
)

func newBatchFixture(t *testing.T) (*pipelineFixture, *usecases.ProcessArchivesUseCase) {
	t.Helper()
	f := newPipelineFixture(t)
	f.config.Scanner.SourceDirectory = f.path("archives")
	f.config.Scanner.TargetDirectory = f.path("compressed")

	batch := usecases.NewProcessArchivesUseCase(f.processor(&markerEngine{}), infra.NewFileSystemRepository(), logging.NewNopLogger())
	return f, batch
}

func TestProcessArchivesContinuesAfterFailure(t *testing.T) {
	f, batch := newBatchFixture(t)

	writeZip(t, f.path("archives/good.zip"), zipEntry{"a.pdf", "doc"})
	writeZip(t, f.path("archives/sub/other.ZIP"), zipEntry{"b.txt", "text"})
	require.NoError(t, os.WriteFile(f.path("archives/broken.zip"), []byte("garbage"), 0o644))

	var last entities.ProcessingStatus
	batch.SetProgressReporter(func(status entities.ProcessingStatus) { last = status })

	outcomes, err := batch.Execute(context.Background(), f.config)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	byName := make(map[string]usecases.ArchiveOutcome)
	for _, o := range outcomes {
		byName[filepath.Base(o.ArchivePath)] = o
	}

	assert.ErrorIs(t, byName["broken.zip"].Error, entities.ErrInvalidArchive)
	assert.NoError(t, byName["good.zip"].Error)
	assert.NoError(t, byName["other.ZIP"].Error)

	assert.Equal(t, f.path("compressed/compressed_good.zip"), byName["good.zip"].OutputPath)
	assert.Equal(t, map[string]string{"a.pdf": compressedMarker + "doc"}, readZip(t, f.path("compressed/compressed_good.zip")))
	assert.Equal(t, map[string]string{"b.txt": "text"}, readZip(t, f.path("compressed/sub/compressed_other.ZIP")))
	assert.NoFileExists(t, f.path("compressed/compressed_broken.zip"))

	assert.Equal(t, entities.PhaseCompleted, last.Phase)
	assert.Equal(t, 3, last.TotalFiles)
	assert.Equal(t, 2, last.SuccessfulFiles)
	assert.Equal(t, 1, last.FailedFiles)
	assert.Empty(t, dirEntries(t, f.scratch))
}

func TestProcessArchivesMissingSource(t *testing.T) {
	f, batch := newBatchFixture(t)

	_, err := batch.Execute(context.Background(), f.config)
	assert.ErrorIs(t, err, entities.ErrDirectoryNotFound)
}

func TestProcessArchivesEmptySource(t *testing.T) {
	f, batch := newBatchFixture(t)
	require.NoError(t, os.MkdirAll(f.config.Scanner.SourceDirectory, 0o755))

	outcomes, err := batch.Execute(context.Background(), f.config)
	require.NoError(t, err)
	assert.Empty(t, outcomes)
	assert.DirExists(t, f.config.Scanner.TargetDirectory)
}

func TestProcessArchivesCancelled(t *testing.T) {
	f, batch := newBatchFixture(t)
	writeZip(t, f.path("archives/a.zip"), zipEntry{"a.txt", "a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := batch.Execute(ctx, f.config)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, outcomes)
}
