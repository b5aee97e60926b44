package controllers

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zipcompressor/internal/domain/entities"
	"zipcompressor/internal/infrastructure/logging"
	infra "zipcompressor/internal/infrastructure/repositories"
	usecases "zipcompressor/internal/usecase"
)

type runCall struct {
	input  string
	output string
	level  entities.CompressionLevel
}

// fakeProcessor записывает вызовы и возвращает заранее заданные ошибки
type fakeProcessor struct {
	calls  []runCall
	errors map[string]error
}

func (p *fakeProcessor) Run(_ context.Context, input, output string, level entities.CompressionLevel) (*entities.ProcessingResult, error) {
	p.calls = append(p.calls, runCall{input, output, level})
	if err := p.errors[input]; err != nil {
		return &entities.ProcessingResult{}, err
	}
	return &entities.ProcessingResult{
		Success:                 true,
		TotalDocuments:          2,
		CompressedDocuments:     1,
		CopiedFiles:             3,
		OriginalDocumentBytes:   2048,
		CompressedDocumentBytes: 1024,
	}, nil
}

func TestHandleArchivesOutputPaths(t *testing.T) {
	processor := &fakeProcessor{}
	var out bytes.Buffer
	controller := NewCLIController(processor, nil, &out)

	err := controller.HandleArchives(context.Background(),
		[]string{filepath.Join("in", "a.zip"), filepath.Join("other", "b.zip")},
		"", "", entities.LevelHigh)
	require.NoError(t, err)

	require.Len(t, processor.calls, 2)
	assert.Equal(t, filepath.Join("in", "compressed_a.zip"), processor.calls[0].output)
	assert.Equal(t, filepath.Join("other", "compressed_b.zip"), processor.calls[1].output)
	assert.Equal(t, entities.LevelHigh, processor.calls[0].level)

	assert.Contains(t, out.String(), "Скопировано без сжатия: 1")
	assert.Contains(t, out.String(), "50.0%")
}

func TestHandleArchivesOutputDirAndFailures(t *testing.T) {
	processor := &fakeProcessor{errors: map[string]error{
		"bad.zip": fmt.Errorf("%w: broken", entities.ErrInvalidArchive),
	}}
	var out bytes.Buffer
	controller := NewCLIController(processor, nil, &out)

	err := controller.HandleArchives(context.Background(), []string{"good.zip", "bad.zip"}, "dist", "small_", entities.LevelMedium)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 из 2")

	require.Len(t, processor.calls, 2)
	assert.Equal(t, filepath.Join("dist", "small_good.zip"), processor.calls[0].output)
	assert.Contains(t, out.String(), "broken")
}

func TestHandleDirectoryReportsFailures(t *testing.T) {
	dir := t.TempDir()
	config := entities.DefaultConfig()
	config.Scanner.SourceDirectory = filepath.Join(dir, "missing")
	config.Scanner.TargetDirectory = filepath.Join(dir, "out")

	batch := usecases.NewProcessArchivesUseCase(&fakeProcessor{}, infra.NewFileSystemRepository(), logging.NewNopLogger())
	var out bytes.Buffer
	controller := NewCLIController(&fakeProcessor{}, batch, &out)

	err := controller.HandleDirectory(context.Background(), config)
	assert.ErrorIs(t, err, entities.ErrDirectoryNotFound)
}
