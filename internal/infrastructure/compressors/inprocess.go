package compressors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"zipcompressor/internal/domain/entities"
)

// engineTempDir директория временных файлов библиотечных движков.
// Лежит вне дерева, которое упаковывается в выходной архив.
var engineTempDir = ""

// runInProcess выполняет библиотечный движок с учетом контекста.
// Библиотека пишет во временный файл вне директории outputPath, который переносится в outputPath
// только при успехе, поэтому брошенный по таймауту вызов не оставляет файлов в упаковываемом дереве.
func runInProcess(ctx context.Context, outputPath string, fn func(tmpPath string) error) error {
	if err := ctx.Err(); err != nil {
		return contextError(err)
	}

	tmp, err := os.CreateTemp(engineTempDir, "zipcompressor-engine-*.pdf")
	if err != nil {
		return fmt.Errorf("%w: не удалось создать временный файл: %v", entities.ErrEngineFailure, err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("%w: паника в библиотеке: %v", entities.ErrEngineFailure, r)
			}
		}()
		done <- fn(tmpPath)
	}()

	select {
	case err := <-done:
		defer os.Remove(tmpPath)
		if err != nil {
			return err
		}
		if err := moveFile(tmpPath, outputPath); err != nil {
			return fmt.Errorf("%w: %v", entities.ErrEngineFailure, err)
		}
		return nil

	case <-ctx.Done():
		go func() {
			<-done
			os.Remove(tmpPath)
		}()
		return contextError(ctx.Err())
	}
}

// moveFile переносит файл, копируя его, если временная директория на другом разделе
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	return nil
}

func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return entities.ErrEngineTimeout
	}
	return fmt.Errorf("%w: %v", entities.ErrEngineFailure, err)
}
