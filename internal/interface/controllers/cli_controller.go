package controllers

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"zipcompressor/internal/domain/entities"
	usecases "zipcompressor/internal/usecase"
)

// CLIController контроллер для командной строки
type CLIController struct {
	processor usecases.ArchiveProcessor
	batch     *usecases.ProcessArchivesUseCase
	out       io.Writer
}

// NewCLIController создает новый CLI контроллер
func NewCLIController(
	processor usecases.ArchiveProcessor,
	batch *usecases.ProcessArchivesUseCase,
	out io.Writer,
) *CLIController {
	return &CLIController{
		processor: processor,
		batch:     batch,
		out:       out,
	}
}

// HandleArchives обрабатывает перечисленные архивы.
// Пустой outputDir означает директорию входного архива.
func (c *CLIController) HandleArchives(ctx context.Context, archives []string, outputDir, prefix string, level entities.CompressionLevel) error {
	fmt.Fprintln(c.out, "🔥 ZIP Compressor - Сжатие документов в архивах")
	fmt.Fprintln(c.out, "================================================")
	fmt.Fprintf(c.out, "🎯 Уровень сжатия: %s\n", level)

	failed := 0
	for _, archivePath := range archives {
		dir := outputDir
		if dir == "" {
			dir = filepath.Dir(archivePath)
		}
		outputPath := filepath.Join(dir, usecases.OutputArchiveName(archivePath, prefix))

		fmt.Fprintf(c.out, "\n🚀 Обработка архива: %s\n", archivePath)

		result, err := c.processor.Run(ctx, archivePath, outputPath, level)
		if err != nil {
			failed++
			fmt.Fprintf(c.out, "❌ Ошибка: %v\n", err)
			continue
		}

		c.showArchiveResult(result, outputPath)
	}

	if failed > 0 {
		return fmt.Errorf("не удалось обработать %d из %d архивов", failed, len(archives))
	}
	return nil
}

// HandleDirectory обрабатывает все архивы директории из конфигурации
func (c *CLIController) HandleDirectory(ctx context.Context, config *entities.Config) error {
	outcomes, err := c.batch.Execute(ctx, config)
	if err != nil {
		return fmt.Errorf("ошибка пакетной обработки: %w", err)
	}

	c.showBatchResult(outcomes)

	failed := 0
	for _, outcome := range outcomes {
		if outcome.Error != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("не удалось обработать %d из %d архивов", failed, len(outcomes))
	}
	return nil
}

// showArchiveResult показывает результат обработки архива
func (c *CLIController) showArchiveResult(result *entities.ProcessingResult, outputPath string) {
	fmt.Fprintln(c.out, "📊 Результаты:")
	fmt.Fprintf(c.out, "Документов: %d\n", result.TotalDocuments)
	fmt.Fprintf(c.out, "Сжато: %d\n", result.CompressedDocuments)

	if fallback := result.FallbackDocuments(); fallback > 0 {
		fmt.Fprintf(c.out, "Скопировано без сжатия: %d\n", fallback)
	}
	fmt.Fprintf(c.out, "Прочих файлов: %d\n", result.CopiedFiles)
	if result.SkippedEntries > 0 {
		fmt.Fprintf(c.out, "⚠️ Пропущено записей: %d\n", result.SkippedEntries)
	}

	if result.OriginalDocumentBytes > 0 {
		fmt.Fprintf(c.out, "Размер документов: %.2f MB → %.2f MB (%.1f%%)\n",
			float64(result.OriginalDocumentBytes)/1024/1024,
			float64(result.CompressedDocumentBytes)/1024/1024,
			result.SavingsRatio())
	}

	fmt.Fprintf(c.out, "⏱️ Время: %s\n", result.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(c.out, "🎉 Готово! Архив сохранен как: %s\n", outputPath)
}

// showBatchResult показывает итог пакетной обработки
func (c *CLIController) showBatchResult(outcomes []usecases.ArchiveOutcome) {
	if len(outcomes) == 0 {
		fmt.Fprintln(c.out, "⚠️ Архивы для обработки не найдены")
		return
	}

	fmt.Fprintf(c.out, "\n📊 Результаты пакетной обработки:\n")
	for i, outcome := range outcomes {
		if outcome.Error != nil {
			fmt.Fprintf(c.out, "[%d] ✗ %s: %v\n", i+1, outcome.ArchivePath, outcome.Error)
			continue
		}
		fmt.Fprintf(c.out, "[%d] ✓ %s → %s (документов: %d, сжато: %d)\n",
			i+1, outcome.ArchivePath, outcome.OutputPath,
			outcome.Result.TotalDocuments, outcome.Result.CompressedDocuments)
	}
}
