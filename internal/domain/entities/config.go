package entities

import "strings"

// CompressionLevel уровень агрессивности сжатия документов
type CompressionLevel int

const (
	LevelMedium CompressionLevel = iota
	LevelLow
	LevelHigh
)

// Пресеты движка сжатия
const (
	PresetPrepress = "prepress"
	PresetScreen   = "screen"
	PresetEbook    = "ebook"
)

// ParseCompressionLevel разбирает строковое значение уровня.
// Неизвестные значения приводятся к среднему уровню и ошибкой не считаются.
func ParseCompressionLevel(value string) CompressionLevel {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "low":
		return LevelLow
	case "high":
		return LevelHigh
	default:
		return LevelMedium
	}
}

// String возвращает имя уровня
func (l CompressionLevel) String() string {
	switch l {
	case LevelLow:
		return "low"
	case LevelHigh:
		return "high"
	default:
		return "medium"
	}
}

// CompressionProfile набор параметров движка, выводимый только из уровня сжатия
type CompressionProfile struct {
	Level                CompressionLevel
	Preset               string // Пресет движка (-dPDFSETTINGS)
	ColorImageResolution int    // DPI для цветных изображений
	GrayImageResolution  int    // DPI для изображений в оттенках серого
	MonoImageResolution  int    // DPI для монохромных изображений
	DownsampleImages     bool   // Уменьшать разрешение изображений
	ImageQuality         int    // Качество изображений для библиотечных движков (10-100)
}

// ProfileForLevel создает профиль сжатия на основе уровня
func ProfileForLevel(level CompressionLevel) *CompressionProfile {
	profile := &CompressionProfile{
		Level:            level,
		DownsampleImages: true,
	}

	switch level {
	case LevelLow: // Максимальное качество
		profile.Preset = PresetPrepress
		profile.setResolution(300)
		profile.ImageQuality = 90

	case LevelHigh: // Максимальное уменьшение размера
		profile.Preset = PresetEbook
		profile.setResolution(100)
		profile.ImageQuality = 40

	default: // Средний уровень
		profile.Level = LevelMedium
		profile.Preset = PresetScreen
		profile.setResolution(150)
		profile.ImageQuality = 60
	}

	return profile
}

func (p *CompressionProfile) setResolution(dpi int) {
	p.ColorImageResolution = dpi
	p.GrayImageResolution = dpi
	p.MonoImageResolution = dpi
}
