package entities

import "time"

// ProcessingResult итог обработки одного архива
type ProcessingResult struct {
	RunID   string
	Success bool

	// Все принятые документы, включая скопированные без сжатия
	TotalDocuments int
	// Документы, для которых движок сообщил об успехе
	CompressedDocuments int

	CopiedFiles    int
	SkippedEntries int

	OriginalDocumentBytes   int64
	CompressedDocumentBytes int64

	Elapsed time.Duration
}

// ExtractReport итог извлечения архива
type ExtractReport struct {
	// Отклоненные имена записей
	Rejected []string
	// Явные записи директорий, принятые при извлечении
	Directories []RelativePath
}

// Merge добавляет счетчики другого результата
func (r *ProcessingResult) Merge(other *ProcessingResult) {
	if other == nil {
		return
	}
	r.TotalDocuments += other.TotalDocuments
	r.CompressedDocuments += other.CompressedDocuments
	r.CopiedFiles += other.CopiedFiles
	r.SkippedEntries += other.SkippedEntries
	r.OriginalDocumentBytes += other.OriginalDocumentBytes
	r.CompressedDocumentBytes += other.CompressedDocumentBytes
}

// AddDocument учитывает обработанный документ
func (r *ProcessingResult) AddDocument(result *CompressionResult) {
	r.TotalDocuments++
	r.OriginalDocumentBytes += result.OriginalSize
	r.CompressedDocumentBytes += result.CompressedSize
	if result.Success {
		r.CompressedDocuments++
	}
}

// SavingsRatio процент сэкономленного объема по документам
func (r *ProcessingResult) SavingsRatio() float64 {
	if r.OriginalDocumentBytes <= 0 {
		return 0
	}
	return (float64(r.OriginalDocumentBytes) - float64(r.CompressedDocumentBytes)) / float64(r.OriginalDocumentBytes) * 100
}

// FallbackDocuments количество документов, скопированных без сжатия
func (r *ProcessingResult) FallbackDocuments() int {
	return r.TotalDocuments - r.CompressedDocuments
}
