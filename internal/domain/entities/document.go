package entities

import (
	"path/filepath"
	"strings"
	"time"
)

// DefaultDocumentExtensions расширения документов, подлежащих сжатию
var DefaultDocumentExtensions = []string{".pdf"}

// FileEntry представляет файл во временном дереве
type FileEntry struct {
	Path         string
	Size         int64
	ModifiedTime time.Time
}

// IsDocument проверяет по расширению (без учета регистра), является ли файл документом
func IsDocument(name string, extensions []string) bool {
	ext := filepath.Ext(name)
	if ext == "" {
		return false
	}
	for _, candidate := range extensions {
		if !strings.HasPrefix(candidate, ".") {
			candidate = "." + candidate
		}
		if strings.EqualFold(ext, candidate) {
			return true
		}
	}
	return false
}

// CompressionResult представляет результат сжатия одного документа
type CompressionResult struct {
	CurrentFile      string
	OriginalSize     int64
	CompressedSize   int64
	CompressionRatio float64
	SavedSpace       int64
	Success          bool
	Error            error
}

// CalculateCompressionRatio вычисляет коэффициент сжатия
func (cr *CompressionResult) CalculateCompressionRatio() {
	if cr.OriginalSize > 0 {
		cr.CompressionRatio = ((float64(cr.OriginalSize) - float64(cr.CompressedSize)) / float64(cr.OriginalSize)) * 100
		cr.SavedSpace = cr.OriginalSize - cr.CompressedSize
	}
}

// IsEffective проверяет, было ли сжатие эффективным
func (cr *CompressionResult) IsEffective() bool {
	return cr.Success && cr.CompressionRatio > 0
}
