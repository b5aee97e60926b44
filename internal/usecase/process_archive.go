package usecases

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"zipcompressor/internal/domain/entities"
	"zipcompressor/internal/domain/repositories"
)

// ProcessArchiveUseCase сценарий обработки одного архива:
// проверка, извлечение, сжатие документов, упаковка и очистка временных директорий.
type ProcessArchiveUseCase struct {
	archiveRepo      repositories.ArchiveRepository
	fileRepo         repositories.FileRepository
	profileRepo      repositories.ProfileRepository
	compressor       repositories.DocumentCompressor
	logger           repositories.Logger
	config           *entities.Config
	progressReporter func(entities.ProcessingStatus)
}

// NewProcessArchiveUseCase создает новый сценарий обработки архива
func NewProcessArchiveUseCase(
	archiveRepo repositories.ArchiveRepository,
	fileRepo repositories.FileRepository,
	profileRepo repositories.ProfileRepository,
	compressor repositories.DocumentCompressor,
	logger repositories.Logger,
	config *entities.Config,
) *ProcessArchiveUseCase {
	if config == nil {
		config = entities.DefaultConfig()
	}
	return &ProcessArchiveUseCase{
		archiveRepo: archiveRepo,
		fileRepo:    fileRepo,
		profileRepo: profileRepo,
		compressor:  compressor,
		logger:      loggerOrDiscard(logger),
		config:      config,
	}
}

// SetProgressReporter устанавливает функцию для отчета о прогрессе
func (uc *ProcessArchiveUseCase) SetProgressReporter(reporter func(entities.ProcessingStatus)) {
	uc.progressReporter = reporter
}

func (uc *ProcessArchiveUseCase) reportProgress(status *entities.ProcessingStatus) {
	if uc.progressReporter != nil {
		uc.progressReporter(*status)
	}
}

// OutputArchiveName имя выходного архива для входного
func OutputArchiveName(inputArchivePath, prefix string) string {
	if prefix == "" {
		prefix = entities.DefaultOutputPrefix
	}
	return prefix + filepath.Base(inputArchivePath)
}

// Run обрабатывает inputArchivePath и записывает результат в outputArchivePath.
// При ошибке возвращает частичные счетчики и классифицированную ошибку. Выходной архив создается только при успехе.
func (uc *ProcessArchiveUseCase) Run(ctx context.Context, inputArchivePath, outputArchivePath string, level entities.CompressionLevel) (result *entities.ProcessingResult, err error) {
	runID := uuid.NewString()
	logger := uc.logger.WithField("run", runID)
	started := time.Now()

	result = &entities.ProcessingResult{RunID: runID}

	status := entities.NewProcessingStatus(0)
	status.RunID = runID
	status.ArchivePath = inputArchivePath

	// Регистрируется первой, поэтому выполняется после очистки
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", entities.ErrRunPanicked, r)
		}
		result.Elapsed = time.Since(started)
		if err != nil {
			result.Success = false
			status.Fail(err)
			logger.Error("Ошибка обработки архива %s: %v", inputArchivePath, err)
		} else {
			status.Complete()
		}
		uc.reportProgress(status)
	}()

	// Фаза 1: Проверка архива до создания временных директорий
	status.SetPhase(entities.PhaseValidating, "Проверка архива...")
	uc.reportProgress(status)

	if err := uc.archiveRepo.Validate(inputArchivePath); err != nil {
		return result, err
	}

	// Фаза 2: Временные директории
	extractDir, compressDir, err := uc.createScratch(runID)
	if err != nil {
		return result, err
	}
	defer func() {
		status.SetPhase(entities.PhaseCleanup, "Очистка временных файлов...")
		uc.reportProgress(status)
		for _, dir := range []string{extractDir, compressDir} {
			if removeErr := os.RemoveAll(dir); removeErr != nil {
				logger.Warning("Не удалось удалить временную директорию %s: %v", dir, removeErr)
			}
		}
	}()

	// Фаза 3: Извлечение
	status.SetPhase(entities.PhaseExtracting, "Извлечение архива...")
	uc.reportProgress(status)
	logger.Info("📦 Извлечение %s", filepath.Base(inputArchivePath))

	report, err := uc.archiveRepo.Extract(ctx, inputArchivePath, extractDir, uc.config.Processing.ExtractLimits())
	if report == nil {
		report = &entities.ExtractReport{}
	}
	result.SkippedEntries += len(report.Rejected)
	for _, name := range report.Rejected {
		status.AddSkipped()
		logger.Warning("Пропущена запись %q: %v", name, entities.ErrPathTraversal)
	}
	if err != nil {
		return result, err
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	// Фаза 4: Сжатие документов
	profile, err := uc.profileRepo.GetCompressionProfile(level)
	if err != nil {
		return result, fmt.Errorf("ошибка получения профиля сжатия: %w", err)
	}

	status.SetPhase(entities.PhaseCompressing, "Сжатие документов...")
	uc.reportProgress(status)
	logger.Info("🔄 Сжатие документов (уровень %s, пресет %s)", profile.Level, profile.Preset)

	walker := NewArchiveWalker(
		uc.compressor,
		uc.fileRepo,
		logger,
		uc.config.Processing.ParallelWorkers,
		uc.config.Compression.DocumentExtensions,
	)
	walker.SetPlanHandler(func(documents int) {
		status.TotalFiles = documents
		uc.reportProgress(status)
	})
	walker.SetDocumentHandler(func(r *entities.CompressionResult) {
		status.SetCurrentFile(r.CurrentFile, r.OriginalSize)
		status.AddResult(r)
		uc.reportProgress(status)

		if r.Success {
			logger.Success("✓ %s: %.2f MB → %.2f MB (%.1f%%)", r.CurrentFile,
				float64(r.OriginalSize)/1024/1024, float64(r.CompressedSize)/1024/1024, r.CompressionRatio)
		} else {
			logger.Warning("✗ %s: скопирован без сжатия", r.CurrentFile)
		}
	})

	walkResult, err := walker.Walk(ctx, extractDir, compressDir, profile)
	result.Merge(walkResult)
	if err != nil {
		return result, err
	}

	// Фаза 5: Упаковка
	status.SetPhase(entities.PhasePackaging, "Упаковка архива...")
	uc.reportProgress(status)

	if err := uc.archiveRepo.Build(ctx, compressDir, outputArchivePath, report.Directories); err != nil {
		return result, err
	}

	result.Success = true
	logger.Success("✓ Архив сохранен: %s (документов: %d, сжато: %d, скопировано: %d, пропущено: %d)",
		outputArchivePath, result.TotalDocuments, result.CompressedDocuments, result.CopiedFiles, result.SkippedEntries)

	return result, nil
}

// createScratch создает две новые временные директории для запуска
func (uc *ProcessArchiveUseCase) createScratch(runID string) (string, string, error) {
	root := uc.config.Processing.ScratchDirectory
	if root != "" {
		if err := uc.fileRepo.CreateDirectory(root); err != nil {
			return "", "", fmt.Errorf("%w: не удалось создать директорию %s: %v", entities.ErrFilesystem, root, err)
		}
	}

	extractDir, err := os.MkdirTemp(root, "zipcompressor-"+runID+"-extract-")
	if err != nil {
		return "", "", fmt.Errorf("%w: не удалось создать временную директорию: %v", entities.ErrFilesystem, err)
	}

	compressDir, err := os.MkdirTemp(root, "zipcompressor-"+runID+"-compress-")
	if err != nil {
		os.RemoveAll(extractDir)
		return "", "", fmt.Errorf("%w: не удалось создать временную директорию: %v", entities.ErrFilesystem, err)
	}

	return extractDir, compressDir, nil
}
