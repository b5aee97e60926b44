package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"zipcompressor/internal/domain/entities"
)

// ZipRepository реализация репозитория архивов формата ZIP
type ZipRepository struct{}

// NewZipRepository создает новый репозиторий ZIP архивов
func NewZipRepository() *ZipRepository {
	return &ZipRepository{}
}

// Validate проверяет, что файл является корректным ZIP архивом
func (r *ZipRepository) Validate(archivePath string) error {
	info, err := os.Stat(archivePath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", entities.ErrInvalidArchive, archivePath, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s является директорией", entities.ErrInvalidArchive, archivePath)
	}

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", entities.ErrInvalidArchive, archivePath, err)
	}
	return reader.Close()
}

// Extract извлекает архив в targetDir. Имена записей проверяются до обращения к диску,
// недопустимые записи и символические ссылки пропускаются и попадают в отчет.
func (r *ZipRepository) Extract(ctx context.Context, archivePath, targetDir string, limits entities.ExtractLimits) (*entities.ExtractReport, error) {
	report := &entities.ExtractReport{}

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return report, fmt.Errorf("%w: %s: %v", entities.ErrInvalidArchive, archivePath, err)
	}
	defer reader.Close()

	if limits.MaxEntries > 0 && len(reader.File) > limits.MaxEntries {
		return report, fmt.Errorf("%w: %d записей при лимите %d", entities.ErrArchiveTooLarge, len(reader.File), limits.MaxEntries)
	}

	var declared uint64
	for _, f := range reader.File {
		declared += f.UncompressedSize64
	}
	if limits.MaxUncompressedSize > 0 && declared > uint64(limits.MaxUncompressedSize) {
		return report, fmt.Errorf("%w: %d байт при лимите %d", entities.ErrArchiveTooLarge, declared, limits.MaxUncompressedSize)
	}

	remaining := int64(-1)
	if limits.MaxUncompressedSize > 0 {
		remaining = limits.MaxUncompressedSize
	}

	for _, f := range reader.File {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		relPath, err := entities.ValidateRelativePath(f.Name)
		if err != nil {
			report.Rejected = append(report.Rejected, f.Name)
			continue
		}

		mode := f.Mode()
		if mode&fs.ModeSymlink != 0 || (!mode.IsDir() && !mode.IsRegular()) {
			report.Rejected = append(report.Rejected, f.Name)
			continue
		}

		target := relPath.Join(targetDir)

		if mode.IsDir() || strings.HasSuffix(f.Name, "/") {
			if err := os.MkdirAll(target, 0755); err != nil {
				return report, fmt.Errorf("%w: не удалось создать директорию %s: %v", entities.ErrFilesystem, target, err)
			}
			report.Directories = append(report.Directories, relPath)
			continue
		}

		written, err := extractFile(f, target, remaining)
		if err != nil {
			return report, err
		}
		if remaining >= 0 {
			remaining -= written
		}
	}

	return report, nil
}

// extractFile записывает одну запись архива. Отрицательный limit означает без ограничений.
func extractFile(f *zip.File, target string, limit int64) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return 0, fmt.Errorf("%w: не удалось создать директорию %s: %v", entities.ErrFilesystem, filepath.Dir(target), err)
	}

	src, err := f.Open()
	if err != nil {
		return 0, fmt.Errorf("%w: не удалось открыть запись %s: %v", entities.ErrInvalidArchive, f.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return 0, fmt.Errorf("%w: не удалось создать файл %s: %v", entities.ErrFilesystem, target, err)
	}

	var reader io.Reader = src
	if limit >= 0 {
		reader = io.LimitReader(src, limit+1)
	}

	written, copyErr := io.Copy(dst, reader)
	closeErr := dst.Close()

	switch {
	case copyErr != nil:
		if errors.Is(copyErr, zip.ErrChecksum) || errors.Is(copyErr, zip.ErrFormat) || errors.Is(copyErr, io.ErrUnexpectedEOF) {
			return written, fmt.Errorf("%w: повреждена запись %s: %v", entities.ErrInvalidArchive, f.Name, copyErr)
		}
		return written, fmt.Errorf("%w: ошибка записи %s: %v", entities.ErrFilesystem, target, copyErr)
	case closeErr != nil:
		return written, fmt.Errorf("%w: ошибка закрытия %s: %v", entities.ErrFilesystem, target, closeErr)
	case limit >= 0 && written > limit:
		return written, fmt.Errorf("%w: запись %s превышает лимит распаковки", entities.ErrArchiveTooLarge, f.Name)
	}

	if !f.Modified.IsZero() {
		_ = os.Chtimes(target, f.Modified, f.Modified)
	}

	return written, nil
}

// Build упаковывает дерево sourceTree в новый архив со сжатием Deflate.
// Записи директорий пишутся для directories и для пустых директорий.
// Архив сначала пишется во временный файл рядом с целевым и переименовывается после успеха.
func (r *ZipRepository) Build(ctx context.Context, sourceTree, outputArchivePath string, directories []entities.RelativePath) (err error) {
	explicit := make(map[string]struct{}, len(directories))
	for _, dir := range directories {
		explicit[dir.String()] = struct{}{}
	}

	outputDir := filepath.Dir(outputArchivePath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("%w: не удалось создать директорию %s: %v", entities.ErrFilesystem, outputDir, err)
	}

	tmp, err := os.CreateTemp(outputDir, "."+filepath.Base(outputArchivePath)+".*.part")
	if err != nil {
		return fmt.Errorf("%w: не удалось создать временный архив: %v", entities.ErrFilesystem, err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	writer := zip.NewWriter(tmp)

	walkErr := filepath.WalkDir(sourceTree, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == sourceTree {
			return nil
		}

		rel, err := filepath.Rel(sourceTree, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)

		if d.IsDir() {
			_, listed := explicit[name]
			return addDirectory(writer, path, name, d, listed)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return addFile(writer, path, name, d)
	})
	if walkErr != nil {
		writer.Close()
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return walkErr
		}
		return fmt.Errorf("%w: ошибка упаковки %s: %v", entities.ErrFilesystem, sourceTree, walkErr)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("%w: ошибка финализации архива: %v", entities.ErrFilesystem, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: ошибка закрытия архива: %v", entities.ErrFilesystem, err)
	}
	if err := os.Rename(tmpPath, outputArchivePath); err != nil {
		return fmt.Errorf("%w: не удалось сохранить архив %s: %v", entities.ErrFilesystem, outputArchivePath, err)
	}

	return nil
}

// addDirectory записывает запись директории, если она была в исходном архиве или пуста
func addDirectory(writer *zip.Writer, path, name string, d fs.DirEntry, listed bool) error {
	if !listed {
		children, err := os.ReadDir(path)
		if err != nil {
			return err
		}
		if len(children) > 0 {
			return nil
		}
	}

	info, err := d.Info()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name + "/"
	header.Method = zip.Store

	_, err = writer.CreateHeader(header)
	return err
}

func addFile(writer *zip.Writer, path, name string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = zip.Deflate

	entry, err := writer.CreateHeader(header)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(entry, file)
	return err
}
