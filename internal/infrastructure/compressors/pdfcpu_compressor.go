package compressors

import (
	"context"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"zipcompressor/internal/domain/entities"
	"zipcompressor/internal/domain/repositories"
)

// PDFCPUCompressor реализация движка с использованием PDFCPU.
// Выполняет структурную оптимизацию, параметры изображений профиля не применяются.
type PDFCPUCompressor struct {
	logger repositories.Logger
}

// NewPDFCPUCompressor создает новый PDFCPU движок
func NewPDFCPUCompressor(logger repositories.Logger) *PDFCPUCompressor {
	// Конфигурация pdfcpu не читается из пользовательского каталога
	api.DisableConfigDir()
	return &PDFCPUCompressor{logger: logger}
}

// Name возвращает имя движка
func (p *PDFCPUCompressor) Name() string {
	return entities.EnginePDFCPU
}

// Compress оптимизирует PDF файл используя PDFCPU библиотеку
func (p *PDFCPUCompressor) Compress(ctx context.Context, inputPath, outputPath string, profile *entities.CompressionProfile) error {
	if p.logger != nil {
		p.logger.Debug("PDFCPU: оптимизация %s (профиль %s)", inputPath, profile.Preset)
	}

	return runInProcess(ctx, outputPath, func(tmpPath string) error {
		if err := api.OptimizeFile(inputPath, tmpPath, nil); err != nil {
			return fmt.Errorf("%w: ошибка оптимизации PDFCPU: %v", entities.ErrEngineFailure, err)
		}
		return nil
	})
}
