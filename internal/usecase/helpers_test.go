package usecases_test

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"zipcompressor/internal/domain/entities"
)

const compressedMarker = "compressed:"

// markerEngine детерминированный движок: записывает маркер и исходное содержимое
type markerEngine struct {
	mu       sync.Mutex
	profiles []entities.CompressionProfile

	delay   time.Duration
	current int32
	peak    int32
}

func (e *markerEngine) Name() string { return "marker" }

func (e *markerEngine) Compress(ctx context.Context, inputPath, outputPath string, profile *entities.CompressionProfile) error {
	active := atomic.AddInt32(&e.current, 1)
	defer atomic.AddInt32(&e.current, -1)
	for {
		peak := atomic.LoadInt32(&e.peak)
		if active <= peak || atomic.CompareAndSwapInt32(&e.peak, peak, active) {
			break
		}
	}

	e.mu.Lock()
	e.profiles = append(e.profiles, *profile)
	e.mu.Unlock()

	if e.delay > 0 {
		time.Sleep(e.delay)
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, append([]byte(compressedMarker), data...), 0o644)
}

func (e *markerEngine) lastProfile() entities.CompressionProfile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profiles[len(e.profiles)-1]
}

// failingEngine оставляет частичный вывод и сообщает об ошибке
type failingEngine struct{}

func (failingEngine) Name() string { return "failing" }

func (failingEngine) Compress(_ context.Context, _, outputPath string, _ *entities.CompressionProfile) error {
	_ = os.WriteFile(outputPath, []byte("partial"), 0o644)
	return fmt.Errorf("%w: exit status 1", entities.ErrEngineFailure)
}

// panicEngine имитирует сбой библиотеки
type panicEngine struct{}

func (panicEngine) Name() string { return "panic" }

func (panicEngine) Compress(context.Context, string, string, *entities.CompressionProfile) error {
	panic("nil pointer in library")
}

// blockingEngine ждет отмены контекста
type blockingEngine struct{}

func (blockingEngine) Name() string { return "blocking" }

func (blockingEngine) Compress(ctx context.Context, _, _ string, _ *entities.CompressionProfile) error {
	<-ctx.Done()
	return fmt.Errorf("%w: %v", entities.ErrEngineTimeout, ctx.Err())
}

type zipEntry struct {
	name string
	body string
}

func writeZip(t *testing.T, path string, entries ...zipEntry) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	writer := zip.NewWriter(file)
	for _, e := range entries {
		header := &zip.FileHeader{Name: e.name, Method: zip.Deflate}
		header.Modified = time.Date(2022, 1, 2, 3, 4, 6, 0, time.UTC)
		w, err := writer.CreateHeader(header)
		require.NoError(t, err)
		_, err = io.WriteString(w, e.body)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
}

func readZip(t *testing.T, path string) map[string]string {
	t.Helper()

	reader, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()

	contents := make(map[string]string, len(reader.File))
	for _, f := range reader.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		contents[f.Name] = string(data)
	}
	return contents
}

// dirEntries список имен в директории, несуществующая директория считается пустой
func dirEntries(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// panicCompressor сбой вне движка, который не поглощается резервным копированием
type panicCompressor struct{}

func (panicCompressor) Compress(context.Context, string, string, *entities.CompressionProfile) (*entities.CompressionResult, error) {
	panic("corrupted document entry")
}
