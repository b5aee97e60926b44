package compressors

import (
	"zipcompressor/internal/domain/entities"
	"zipcompressor/internal/domain/repositories"
)

// NewEngine выбирает движок сжатия на основе конфигурации
func NewEngine(config *entities.Config, logger repositories.Logger) (repositories.CompressionEngine, error) {
	switch config.Compression.Algorithm {
	case entities.EngineGhostscript:
		return NewGhostscriptEngine(config.Engine.Binary, config.Engine.ExtraArgs), nil
	case entities.EnginePDFCPU:
		return NewPDFCPUCompressor(logger), nil
	case entities.EngineUniPDF:
		return NewUniPDFCompressor(config.Compression.UniPDFLicenseKey), nil
	default:
		return nil, entities.ErrInvalidEngine
	}
}
