package usecases

import (
	"context"
	"fmt"
	"os"
	"time"

	"zipcompressor/internal/domain/entities"
	"zipcompressor/internal/domain/repositories"
)

// CompressDocumentUseCase сценарий сжатия одного документа с резервным копированием.
// Любая неудача движка (ошибка, таймаут, паника, отсутствие бинарника) приводит к копированию исходника.
type CompressDocumentUseCase struct {
	engine   repositories.CompressionEngine
	fileRepo repositories.FileRepository
	logger   repositories.Logger
	timeout  time.Duration
}

// NewCompressDocumentUseCase создает новый сценарий сжатия документа
func NewCompressDocumentUseCase(
	engine repositories.CompressionEngine,
	fileRepo repositories.FileRepository,
	logger repositories.Logger,
	timeout time.Duration,
) *CompressDocumentUseCase {
	if timeout <= 0 {
		timeout = entities.DefaultEngineTimeout
	}
	return &CompressDocumentUseCase{
		engine:   engine,
		fileRepo: fileRepo,
		logger:   loggerOrDiscard(logger),
		timeout:  timeout,
	}
}

// Compress сжимает документ inputPath в outputPath.
// Result.Success сообщает, справился ли движок. Ошибка возвращается только если не удалось скопировать файл.
func (uc *CompressDocumentUseCase) Compress(ctx context.Context, inputPath, outputPath string, profile *entities.CompressionProfile) (*entities.CompressionResult, error) {
	fileInfo, err := uc.fileRepo.GetFileInfo(inputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: ошибка получения информации о файле: %v", entities.ErrFilesystem, err)
	}

	result := &entities.CompressionResult{
		CurrentFile:  inputPath,
		OriginalSize: fileInfo.Size,
	}

	engineErr := uc.runEngine(ctx, inputPath, outputPath, profile)
	if engineErr == nil {
		outputInfo, err := uc.fileRepo.GetFileInfo(outputPath)
		if err == nil {
			result.Success = true
			result.CompressedSize = outputInfo.Size
			result.CalculateCompressionRatio()
			return result, nil
		}
		engineErr = fmt.Errorf("%w: выходной файл недоступен: %v", entities.ErrEngineFailure, err)
	}

	uc.logger.WithField("engine", uc.engine.Name()).
		Warning("Сжатие не удалось, документ будет скопирован без изменений: %s: %v", inputPath, engineErr)

	// Частичный результат движка не должен попасть в архив
	_ = os.Remove(outputPath)

	if err := uc.fileRepo.CopyFile(inputPath, outputPath); err != nil {
		return nil, err
	}

	result.Error = engineErr
	result.CompressedSize = fileInfo.Size
	result.CalculateCompressionRatio()

	return result, nil
}

// runEngine вызывает движок с ограничением по времени, паника движка превращается в ошибку
func (uc *CompressDocumentUseCase) runEngine(ctx context.Context, inputPath, outputPath string, profile *entities.CompressionProfile) (err error) {
	engineCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: паника движка %s: %v", entities.ErrEngineFailure, uc.engine.Name(), r)
		}
	}()

	return uc.engine.Compress(engineCtx, inputPath, outputPath, profile)
}
