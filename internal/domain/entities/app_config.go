package entities

import (
	"runtime"
	"time"
)

// Движки сжатия
const (
	EngineGhostscript = "ghostscript"
	EnginePDFCPU      = "pdfcpu"
	EngineUniPDF      = "unipdf"
)

// DefaultOutputPrefix префикс имени выходного архива
const DefaultOutputPrefix = "compressed_"

// DefaultEngineTimeout ограничение времени сжатия одного документа
const DefaultEngineTimeout = 120 * time.Second

// Config представляет конфигурацию приложения
type Config struct {
	Scanner     ScannerConfig        `yaml:"scanner"`
	Compression AppCompressionConfig `yaml:"compression"`
	Engine      EngineConfig         `yaml:"engine"`
	Processing  ProcessingConfig     `yaml:"processing"`
	Output      OutputConfig         `yaml:"output"`
}

// ScannerConfig настройки пакетной обработки директорий
type ScannerConfig struct {
	SourceDirectory string `yaml:"source_directory"`
	TargetDirectory string `yaml:"target_directory"`
}

// AppCompressionConfig настройки сжатия приложения
type AppCompressionConfig struct {
	Level              string   `yaml:"level"`
	Algorithm          string   `yaml:"algorithm"`
	DocumentExtensions []string `yaml:"document_extensions"`
	UniPDFLicenseKey   string   `yaml:"unipdf_license_key,omitempty"`
}

// EngineConfig настройки внешнего движка
type EngineConfig struct {
	Binary    string   `yaml:"binary"`
	ExtraArgs []string `yaml:"extra_args,omitempty"`
}

// ProcessingConfig настройки обработки
type ProcessingConfig struct {
	ParallelWorkers   int    `yaml:"parallel_workers"`
	TimeoutSeconds    int    `yaml:"timeout_seconds"`
	ScratchDirectory  string `yaml:"scratch_directory,omitempty"`
	MaxEntries        int    `yaml:"max_entries"`
	MaxUncompressedMB int64  `yaml:"max_uncompressed_mb"`
}

// OutputConfig настройки вывода
type OutputConfig struct {
	Prefix       string `yaml:"prefix"`
	LogLevel     string `yaml:"log_level"`
	LogToFile    bool   `yaml:"log_to_file"`
	LogFileName  string `yaml:"log_file_name"`
	LogMaxSizeMB int    `yaml:"log_max_size_mb"`
	TUI          bool   `yaml:"tui"`
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		Scanner: ScannerConfig{
			SourceDirectory: "./archives",
			TargetDirectory: "./compressed",
		},
		Compression: AppCompressionConfig{
			Level:              LevelMedium.String(),
			Algorithm:          EngineGhostscript,
			DocumentExtensions: append([]string(nil), DefaultDocumentExtensions...),
		},
		Engine: EngineConfig{
			Binary: "gs",
		},
		Processing: ProcessingConfig{
			ParallelWorkers:   DefaultParallelWorkers(),
			TimeoutSeconds:    int(DefaultEngineTimeout / time.Second),
			MaxEntries:        10000,
			MaxUncompressedMB: 2048,
		},
		Output: OutputConfig{
			Prefix:       DefaultOutputPrefix,
			LogLevel:     "info",
			LogToFile:    false,
			LogFileName:  "zipcompressor.log",
			LogMaxSizeMB: 10,
		},
	}
}

// DefaultParallelWorkers количество воркеров по умолчанию
func DefaultParallelWorkers() int {
	workers := runtime.NumCPU()
	if workers > 4 {
		workers = 4
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// ApplyDefaults заполняет незаданные поля значениями по умолчанию
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()

	if c.Compression.Level == "" {
		c.Compression.Level = defaults.Compression.Level
	}
	if c.Compression.Algorithm == "" {
		c.Compression.Algorithm = defaults.Compression.Algorithm
	}
	if len(c.Compression.DocumentExtensions) == 0 {
		c.Compression.DocumentExtensions = defaults.Compression.DocumentExtensions
	}
	if c.Engine.Binary == "" {
		c.Engine.Binary = defaults.Engine.Binary
	}
	if c.Processing.ParallelWorkers == 0 {
		c.Processing.ParallelWorkers = defaults.Processing.ParallelWorkers
	}
	if c.Processing.TimeoutSeconds == 0 {
		c.Processing.TimeoutSeconds = defaults.Processing.TimeoutSeconds
	}
	if c.Output.Prefix == "" {
		c.Output.Prefix = defaults.Output.Prefix
	}
	if c.Output.LogLevel == "" {
		c.Output.LogLevel = defaults.Output.LogLevel
	}
	if c.Output.LogFileName == "" {
		c.Output.LogFileName = defaults.Output.LogFileName
	}
}

// Validate проверяет корректность конфигурации приложения
func (c *Config) Validate() error {
	switch c.Compression.Algorithm {
	case EngineGhostscript, EnginePDFCPU, EngineUniPDF:
	default:
		return ErrInvalidEngine
	}

	if len(c.Compression.DocumentExtensions) == 0 {
		return ErrEmptyDocumentExtensions
	}

	if c.Processing.ParallelWorkers < 1 || c.Processing.ParallelWorkers > 64 {
		return ErrInvalidParallelWorkers
	}

	if c.Processing.TimeoutSeconds <= 0 {
		return ErrInvalidTimeout
	}

	if c.Processing.MaxEntries < 0 || c.Processing.MaxUncompressedMB < 0 {
		return ErrInvalidLimits
	}

	return nil
}

// EngineTimeout таймаут сжатия одного документа
func (c *ProcessingConfig) EngineTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultEngineTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ExtractLimits лимиты извлечения архива
func (c *ProcessingConfig) ExtractLimits() ExtractLimits {
	return ExtractLimits{
		MaxEntries:          c.MaxEntries,
		MaxUncompressedSize: c.MaxUncompressedMB * 1024 * 1024,
	}
}

// ExtractLimits ограничения на содержимое входного архива. Ноль означает без ограничений.
type ExtractLimits struct {
	MaxEntries          int
	MaxUncompressedSize int64
}

// ProcessingStatus статус обработки
type ProcessingStatus struct {
	// Текущая фаза обработки
	Phase ProcessingPhase

	RunID       string
	ArchivePath string

	// Текущий элемент архива
	CurrentFile     string
	CurrentFileSize int64

	// Общая статистика
	TotalFiles      int
	ProcessedFiles  int
	SuccessfulFiles int
	FailedFiles     int
	SkippedFiles    int

	// Прогресс
	Progress float64

	// Статистика сжатия
	TotalOriginalSize   int64
	TotalCompressedSize int64
	TotalSavedSpace     int64
	AverageCompression  float64

	// Текущий результат
	LastResult *CompressionResult

	// Время выполнения
	StartTime     time.Time
	ElapsedTime   time.Duration
	EstimatedTime time.Duration

	// Состояние
	IsComplete bool
	Error      error

	// Сообщение для UI
	Message string
}

// ProcessingPhase фаза обработки
type ProcessingPhase int

const (
	PhaseInitializing ProcessingPhase = iota
	PhaseValidating
	PhaseExtracting
	PhaseCompressing
	PhasePackaging
	PhaseCleanup
	PhaseCompleted
	PhaseFailed
)

// NewProcessingStatus создает новый статус обработки
func NewProcessingStatus(totalFiles int) *ProcessingStatus {
	return &ProcessingStatus{
		Phase:      PhaseInitializing,
		TotalFiles: totalFiles,
		StartTime:  time.Now(),
	}
}

// UpdateProgress обновляет прогресс обработки
func (ps *ProcessingStatus) UpdateProgress() {
	if ps.TotalFiles > 0 {
		ps.Progress = float64(ps.ProcessedFiles) / float64(ps.TotalFiles) * 100
	}

	ps.ElapsedTime = time.Since(ps.StartTime)

	// Оценка оставшегося времени
	if ps.ProcessedFiles > 0 && ps.ProcessedFiles < ps.TotalFiles {
		avgTimePerFile := ps.ElapsedTime / time.Duration(ps.ProcessedFiles)
		remainingFiles := ps.TotalFiles - ps.ProcessedFiles
		ps.EstimatedTime = avgTimePerFile * time.Duration(remainingFiles)
	}
}

// AddResult добавляет результат обработки документа
func (ps *ProcessingStatus) AddResult(result *CompressionResult) {
	ps.ProcessedFiles++
	ps.LastResult = result

	if result.Success && result.Error == nil {
		ps.SuccessfulFiles++
		ps.TotalOriginalSize += result.OriginalSize
		ps.TotalCompressedSize += result.CompressedSize
		ps.TotalSavedSpace += result.SavedSpace

		if ps.TotalOriginalSize > 0 {
			ps.AverageCompression = ((float64(ps.TotalOriginalSize) - float64(ps.TotalCompressedSize)) / float64(ps.TotalOriginalSize)) * 100
		}
	} else {
		ps.FailedFiles++
	}

	ps.UpdateProgress()
}

// AddSkipped учитывает пропущенный элемент
func (ps *ProcessingStatus) AddSkipped() {
	ps.SkippedFiles++
}

// SetPhase устанавливает фазу обработки
func (ps *ProcessingStatus) SetPhase(phase ProcessingPhase, message string) {
	ps.Phase = phase
	ps.Message = message
}

// SetCurrentFile устанавливает текущий обрабатываемый файл
func (ps *ProcessingStatus) SetCurrentFile(filePath string, size int64) {
	ps.CurrentFile = filePath
	ps.CurrentFileSize = size
}

// Complete завершает обработку
func (ps *ProcessingStatus) Complete() {
	ps.IsComplete = true
	ps.Phase = PhaseCompleted
	ps.Progress = 100
	ps.ElapsedTime = time.Since(ps.StartTime)
	ps.EstimatedTime = 0
}

// Fail отмечает обработку как неудачную
func (ps *ProcessingStatus) Fail(err error) {
	ps.IsComplete = true
	ps.Phase = PhaseFailed
	ps.Error = err
	ps.ElapsedTime = time.Since(ps.StartTime)
}

// String возвращает название фазы
func (phase ProcessingPhase) String() string {
	switch phase {
	case PhaseInitializing:
		return "Инициализация"
	case PhaseValidating:
		return "Проверка архива"
	case PhaseExtracting:
		return "Извлечение архива"
	case PhaseCompressing:
		return "Сжатие документов"
	case PhasePackaging:
		return "Упаковка архива"
	case PhaseCleanup:
		return "Очистка временных файлов"
	case PhaseCompleted:
		return "Завершено"
	case PhaseFailed:
		return "Ошибка"
	default:
		return "Неизвестно"
	}
}

// FormatElapsedTime форматирует время выполнения
func (ps *ProcessingStatus) FormatElapsedTime() string {
	return formatDuration(ps.ElapsedTime)
}

// FormatEstimatedTime форматирует оставшееся время
func (ps *ProcessingStatus) FormatEstimatedTime() string {
	if ps.EstimatedTime == 0 {
		return "N/A"
	}
	return formatDuration(ps.EstimatedTime)
}

func formatDuration(duration time.Duration) string {
	if duration < time.Second {
		return "< 1 сек"
	}
	return duration.Round(time.Second).String()
}
