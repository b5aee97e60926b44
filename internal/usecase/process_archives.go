package usecases

import (
	"context"
	"fmt"
	"path/filepath"

	"zipcompressor/internal/domain/entities"
	"zipcompressor/internal/domain/repositories"
)

// ArchiveProcessor обрабатывает один архив
type ArchiveProcessor interface {
	Run(ctx context.Context, inputArchivePath, outputArchivePath string, level entities.CompressionLevel) (*entities.ProcessingResult, error)
}

// ArchiveOutcome итог обработки одного архива в пакетном режиме
type ArchiveOutcome struct {
	ArchivePath string
	OutputPath  string
	Result      *entities.ProcessingResult
	Error       error
}

// ProcessArchivesUseCase сценарий пакетной обработки всех архивов директории
type ProcessArchivesUseCase struct {
	processor        ArchiveProcessor
	fileRepo         repositories.FileRepository
	logger           repositories.Logger
	progressReporter func(entities.ProcessingStatus)
}

// NewProcessArchivesUseCase создает новый сценарий пакетной обработки
func NewProcessArchivesUseCase(
	processor ArchiveProcessor,
	fileRepo repositories.FileRepository,
	logger repositories.Logger,
) *ProcessArchivesUseCase {
	return &ProcessArchivesUseCase{
		processor: processor,
		fileRepo:  fileRepo,
		logger:    loggerOrDiscard(logger),
	}
}

// SetProgressReporter устанавливает функцию для отчета о прогрессе по архивам
func (uc *ProcessArchivesUseCase) SetProgressReporter(reporter func(entities.ProcessingStatus)) {
	uc.progressReporter = reporter
}

func (uc *ProcessArchivesUseCase) reportProgress(status *entities.ProcessingStatus) {
	if uc.progressReporter != nil {
		uc.progressReporter(*status)
	}
}

// Execute обрабатывает все архивы scanner.source_directory.
// Ошибка одного архива записывается в его итог, обработка продолжается.
func (uc *ProcessArchivesUseCase) Execute(ctx context.Context, config *entities.Config) ([]ArchiveOutcome, error) {
	status := entities.NewProcessingStatus(0)
	status.SetPhase(entities.PhaseInitializing, "Инициализация обработки...")
	uc.reportProgress(status)

	level := entities.ParseCompressionLevel(config.Compression.Level)

	uc.logger.Info("╔════════════════════════════════════════════════════════════")
	uc.logger.Info("║ Начало обработки архивов")
	uc.logger.Info("╠════════════════════════════════════════════════════════════")
	uc.logger.Info("║ Исходная директория: %s", config.Scanner.SourceDirectory)
	uc.logger.Info("║ Целевая директория: %s", config.Scanner.TargetDirectory)
	uc.logger.Info("║ Движок: %s", config.Compression.Algorithm)
	uc.logger.Info("║ Уровень сжатия: %s", level)
	uc.logger.Info("║ Параллельных воркеров: %d", config.Processing.ParallelWorkers)
	uc.logger.Info("╚════════════════════════════════════════════════════════════")

	if !uc.fileRepo.FileExists(config.Scanner.SourceDirectory) {
		err := fmt.Errorf("%w: %s", entities.ErrDirectoryNotFound, config.Scanner.SourceDirectory)
		status.Fail(err)
		uc.reportProgress(status)
		return nil, err
	}

	if err := uc.fileRepo.CreateDirectory(config.Scanner.TargetDirectory); err != nil {
		err = fmt.Errorf("%w: ошибка создания целевой директории: %v", entities.ErrFilesystem, err)
		status.Fail(err)
		uc.reportProgress(status)
		return nil, err
	}

	uc.logger.Info("🔍 Сканирование директории...")

	archives, err := uc.fileRepo.ListArchives(config.Scanner.SourceDirectory)
	if err != nil {
		err = fmt.Errorf("%w: ошибка получения списка архивов: %v", entities.ErrFilesystem, err)
		status.Fail(err)
		uc.reportProgress(status)
		return nil, err
	}

	if len(archives) == 0 {
		uc.logger.Warning("⚠️  Архивы не найдены в директории: %s", config.Scanner.SourceDirectory)
		status.Complete()
		uc.reportProgress(status)
		return nil, nil
	}

	status.TotalFiles = len(archives)
	uc.logger.Success("✓ Найдено архивов для обработки: %d", len(archives))

	outcomes := make([]ArchiveOutcome, 0, len(archives))
	total := &entities.ProcessingResult{}

	for i, archivePath := range archives {
		if err := ctx.Err(); err != nil {
			status.Fail(err)
			uc.reportProgress(status)
			return outcomes, err
		}

		outputPath := uc.outputPath(config, archivePath)
		status.SetCurrentFile(archivePath, 0)
		status.SetPhase(entities.PhaseCompressing, fmt.Sprintf("Архив %d из %d", i+1, len(archives)))
		uc.reportProgress(status)

		result, runErr := uc.processor.Run(ctx, archivePath, outputPath, level)
		outcome := ArchiveOutcome{
			ArchivePath: archivePath,
			OutputPath:  outputPath,
			Result:      result,
			Error:       runErr,
		}
		outcomes = append(outcomes, outcome)
		total.Merge(result)

		status.ProcessedFiles++
		if runErr == nil {
			status.SuccessfulFiles++
			uc.logger.Success("[%d/%d] ✓ %s", i+1, len(archives), filepath.Base(archivePath))
		} else {
			status.FailedFiles++
			uc.logger.Error("[%d/%d] ✗ %s: %v", i+1, len(archives), filepath.Base(archivePath), runErr)
		}
		if result != nil {
			status.TotalOriginalSize += result.OriginalDocumentBytes
			status.TotalCompressedSize += result.CompressedDocumentBytes
		}
		status.UpdateProgress()
		uc.reportProgress(status)
	}

	status.TotalSavedSpace = status.TotalOriginalSize - status.TotalCompressedSize
	status.AverageCompression = total.SavingsRatio()
	status.Complete()
	uc.reportProgress(status)

	uc.logSummary(status, total)

	return outcomes, nil
}

// outputPath целевой путь архива с сохранением структуры поддиректорий
func (uc *ProcessArchivesUseCase) outputPath(config *entities.Config, archivePath string) string {
	name := OutputArchiveName(archivePath, config.Output.Prefix)

	relPath, err := filepath.Rel(config.Scanner.SourceDirectory, filepath.Dir(archivePath))
	if err != nil {
		return filepath.Join(config.Scanner.TargetDirectory, name)
	}
	return filepath.Join(config.Scanner.TargetDirectory, relPath, name)
}

func (uc *ProcessArchivesUseCase) logSummary(status *entities.ProcessingStatus, total *entities.ProcessingResult) {
	uc.logger.Info("")
	uc.logger.Info("╔════════════════════════════════════════════════════════════")
	uc.logger.Info("║ Обработка завершена")
	uc.logger.Info("╠════════════════════════════════════════════════════════════")
	uc.logger.Info("║ Время выполнения: %s", status.FormatElapsedTime())
	uc.logger.Info("╠════════════════════════════════════════════════════════════")
	uc.logger.Info("║ Статистика архивов:")
	uc.logger.Info("║   • Всего: %d", status.TotalFiles)
	uc.logger.Success("║   • Успешно: %d", status.SuccessfulFiles)

	if status.FailedFiles > 0 {
		uc.logger.Error("║   • Ошибок: %d", status.FailedFiles)
	}

	uc.logger.Info("╠════════════════════════════════════════════════════════════")
	uc.logger.Info("║ Статистика документов:")
	uc.logger.Info("║   • Всего: %d", total.TotalDocuments)
	uc.logger.Success("║   • Сжато: %d", total.CompressedDocuments)

	if fallback := total.FallbackDocuments(); fallback > 0 {
		uc.logger.Warning("║   • Скопировано без сжатия: %d", fallback)
	}
	if total.SkippedEntries > 0 {
		uc.logger.Warning("║   • Пропущено записей: %d", total.SkippedEntries)
	}

	if total.OriginalDocumentBytes > 0 {
		uc.logger.Info("║   • Исходный размер: %.2f MB", float64(total.OriginalDocumentBytes)/1024/1024)
		uc.logger.Info("║   • Сжатый размер: %.2f MB", float64(total.CompressedDocumentBytes)/1024/1024)
		uc.logger.Success("║   • Среднее сжатие: %.1f%%", total.SavingsRatio())
	}

	uc.logger.Info("╚════════════════════════════════════════════════════════════")
}
