package compressors

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zipcompressor/internal/domain/entities"
)

// fakeGhostscript создает скрипт, имитирующий интерфейс gs
func fakeGhostscript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-скрипты не поддерживаются на windows")
	}

	path := filepath.Join(t.TempDir(), "fake-gs")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

const copyScript = `out=""
for a in "$@"; do
  case "$a" in -sOutputFile=*) out="${a#-sOutputFile=}";; esac
  last="$a"
done
cp "$last" "$out"`

func writeInput(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "in.pdf")
	require.NoError(t, os.WriteFile(input, []byte("%PDF-1.4 test"), 0o644))
	return input, filepath.Join(dir, "out.pdf")
}

func TestGhostscriptArguments(t *testing.T) {
	engine := NewGhostscriptEngine("gs", []string{"-dFastWebView=true"})
	args := engine.Arguments("in.pdf", "out.pdf", entities.ProfileForLevel(entities.LevelHigh))

	assert.Contains(t, args, "-sDEVICE=pdfwrite")
	assert.Contains(t, args, "-dPDFSETTINGS=/ebook")
	assert.Contains(t, args, "-dColorImageResolution=100")
	assert.Contains(t, args, "-dGrayImageResolution=100")
	assert.Contains(t, args, "-dMonoImageResolution=100")
	assert.Contains(t, args, "-dDownsampleColorImages=true")
	assert.Contains(t, args, "-dFastWebView=true")

	require.GreaterOrEqual(t, len(args), 2)
	assert.Equal(t, "-sOutputFile=out.pdf", args[len(args)-2])
	assert.Equal(t, "in.pdf", args[len(args)-1])
}

func TestGhostscriptDefaultBinary(t *testing.T) {
	engine := NewGhostscriptEngine("", nil)
	assert.Equal(t, "gs", engine.binary)
	assert.Equal(t, entities.EngineGhostscript, engine.Name())
}

func TestGhostscriptMissingBinary(t *testing.T) {
	input, output := writeInput(t)
	engine := NewGhostscriptEngine(filepath.Join(t.TempDir(), "no-such-gs"), nil)

	err := engine.Compress(context.Background(), input, output, entities.ProfileForLevel(entities.LevelMedium))
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrEngineNotFound)
	assert.ErrorIs(t, err, entities.ErrEngineFailure)
}

func TestGhostscriptSuccess(t *testing.T) {
	input, output := writeInput(t)
	engine := NewGhostscriptEngine(fakeGhostscript(t, copyScript), nil)

	err := engine.Compress(context.Background(), input, output, entities.ProfileForLevel(entities.LevelMedium))
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 test", string(data))
}

func TestGhostscriptNonZeroExit(t *testing.T) {
	input, output := writeInput(t)
	engine := NewGhostscriptEngine(fakeGhostscript(t, "echo broken >&2\nexit 3"), nil)

	err := engine.Compress(context.Background(), input, output, entities.ProfileForLevel(entities.LevelMedium))
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrEngineFailure)
	assert.Contains(t, err.Error(), "broken")
}

func TestGhostscriptNoOutput(t *testing.T) {
	input, output := writeInput(t)
	engine := NewGhostscriptEngine(fakeGhostscript(t, "exit 0"), nil)

	err := engine.Compress(context.Background(), input, output, entities.ProfileForLevel(entities.LevelMedium))
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrEngineFailure)
}

func TestGhostscriptTimeout(t *testing.T) {
	input, output := writeInput(t)
	engine := NewGhostscriptEngine(fakeGhostscript(t, "exec sleep 5"), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := engine.Compress(ctx, input, output, entities.ProfileForLevel(entities.LevelMedium))
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrEngineTimeout)
	assert.Less(t, time.Since(start), 4*time.Second)
}
