package compressors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"zipcompressor/internal/domain/entities"
)

// waitDelay сколько ждать закрытия потоков процесса после его принудительного завершения
const waitDelay = 5 * time.Second

// GhostscriptEngine движок сжатия, вызывающий внешний процесс Ghostscript
type GhostscriptEngine struct {
	binary    string
	extraArgs []string
}

// NewGhostscriptEngine создает движок Ghostscript
func NewGhostscriptEngine(binary string, extraArgs []string) *GhostscriptEngine {
	if binary == "" {
		binary = "gs"
	}
	return &GhostscriptEngine{
		binary:    binary,
		extraArgs: extraArgs,
	}
}

// Name возвращает имя движка
func (g *GhostscriptEngine) Name() string {
	return entities.EngineGhostscript
}

// Arguments формирует аргументы командной строки для профиля
func (g *GhostscriptEngine) Arguments(inputPath, outputPath string, profile *entities.CompressionProfile) []string {
	downsample := strconv.FormatBool(profile.DownsampleImages)

	args := []string{
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.4",
		"-dPDFSETTINGS=/" + profile.Preset,
		"-dNOPAUSE",
		"-dQUIET",
		"-dBATCH",
		"-dSAFER",
		"-dDetectDuplicateImages=true",
		"-dDownsampleColorImages=" + downsample,
		"-dDownsampleGrayImages=" + downsample,
		"-dDownsampleMonoImages=" + downsample,
		"-dColorImageResolution=" + strconv.Itoa(profile.ColorImageResolution),
		"-dGrayImageResolution=" + strconv.Itoa(profile.GrayImageResolution),
		"-dMonoImageResolution=" + strconv.Itoa(profile.MonoImageResolution),
	}
	args = append(args, g.extraArgs...)
	args = append(args, "-sOutputFile="+outputPath, inputPath)

	return args
}

// Compress запускает Ghostscript для одного документа.
// Успех: код выхода 0 и существующий выходной файл.
func (g *GhostscriptEngine) Compress(ctx context.Context, inputPath, outputPath string, profile *entities.CompressionProfile) error {
	binary, err := exec.LookPath(g.binary)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", entities.ErrEngineNotFound, g.binary, err)
	}

	cmd := exec.CommandContext(ctx, binary, g.Arguments(inputPath, outputPath, profile)...)
	cmd.WaitDelay = waitDelay

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s", entities.ErrEngineTimeout, inputPath)
		}
		return fmt.Errorf("%w: %v", entities.ErrEngineFailure, ctxErr)
	}

	if runErr != nil {
		message := strings.TrimSpace(stderr.String())
		if message != "" {
			return fmt.Errorf("%w: %v: %s", entities.ErrEngineFailure, runErr, message)
		}
		return fmt.Errorf("%w: %v", entities.ErrEngineFailure, runErr)
	}

	if _, err := os.Stat(outputPath); err != nil {
		return fmt.Errorf("%w: выходной файл не создан: %v", entities.ErrEngineFailure, err)
	}

	return nil
}
