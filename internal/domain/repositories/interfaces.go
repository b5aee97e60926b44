package repositories

import (
	"context"

	"zipcompressor/internal/domain/entities"
)

// CompressionEngine интерфейс движка сжатия одного документа.
// Возвращает nil только если выходной файл был записан.
type CompressionEngine interface {
	Name() string
	Compress(ctx context.Context, inputPath, outputPath string, profile *entities.CompressionProfile) error
}

// DocumentCompressor сжимает документ, при неудаче копируя его без изменений.
// Ошибка возвращается только если не удалось даже скопировать файл.
type DocumentCompressor interface {
	Compress(ctx context.Context, inputPath, outputPath string, profile *entities.CompressionProfile) (*entities.CompressionResult, error)
}

// ArchiveRepository интерфейс для работы с контейнером архива
type ArchiveRepository interface {
	// Validate проверяет, что файл является корректным архивом
	Validate(archivePath string) error
	// Extract извлекает архив, пропуская недопустимые пути
	Extract(ctx context.Context, archivePath, targetDir string, limits entities.ExtractLimits) (*entities.ExtractReport, error)
	// Build упаковывает дерево в новый архив. Для directories и пустых директорий пишутся записи "dir/".
	Build(ctx context.Context, sourceTree, outputArchivePath string, directories []entities.RelativePath) error
}

// FileRepository интерфейс для работы с файловой системой
type FileRepository interface {
	GetFileInfo(path string) (*entities.FileEntry, error)
	FileExists(path string) bool
	CreateDirectory(path string) error
	CopyFile(src, dst string) error
	ListArchives(directory string) ([]string, error)
}

// ProfileRepository интерфейс для получения профилей сжатия
type ProfileRepository interface {
	GetCompressionProfile(level entities.CompressionLevel) (*entities.CompressionProfile, error)
}
