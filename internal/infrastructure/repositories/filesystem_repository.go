package repositories

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"zipcompressor/internal/domain/entities"
)

// FileSystemRepository реализация репозитория для работы с файловой системой
type FileSystemRepository struct{}

// NewFileSystemRepository создает новый репозиторий файловой системы
func NewFileSystemRepository() *FileSystemRepository {
	return &FileSystemRepository{}
}

// GetFileInfo получает информацию о файле
func (r *FileSystemRepository) GetFileInfo(path string) (*entities.FileEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	return &entities.FileEntry{
		Path:         path,
		Size:         info.Size(),
		ModifiedTime: info.ModTime(),
	}, nil
}

// FileExists проверяет существование файла
func (r *FileSystemRepository) FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// CreateDirectory создает директорию. Безопасно при одновременном вызове из нескольких горутин.
func (r *FileSystemRepository) CreateDirectory(path string) error {
	return os.MkdirAll(path, 0755)
}

// CopyFile копирует файл без изменений, сохраняя права и время модификации
func (r *FileSystemRepository) CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: не удалось открыть %s: %v", entities.ErrFilesystem, src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("%w: не удалось получить информацию о %s: %v", entities.ErrFilesystem, src, err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("%w: не удалось создать %s: %v", entities.ErrFilesystem, dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("%w: ошибка копирования %s: %v", entities.ErrFilesystem, src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: ошибка закрытия %s: %v", entities.ErrFilesystem, dst, err)
	}

	// Время модификации сохраняется по возможности
	_ = os.Chtimes(dst, info.ModTime(), info.ModTime())

	return nil
}

// ListArchives возвращает список ZIP архивов в директории и всех подпапках
func (r *FileSystemRepository) ListArchives(directory string) ([]string, error) {
	var archives []string

	err := filepath.WalkDir(directory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), ".zip") {
			archives = append(archives, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(archives)
	return archives, nil
}
