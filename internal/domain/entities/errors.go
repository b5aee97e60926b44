package entities

import (
	"errors"
	"fmt"
)

// Доменные ошибки
var (
	// Ошибки уровня запуска: прерывают обработку архива
	ErrInvalidArchive  = errors.New("неверный формат архива")
	ErrArchiveTooLarge = fmt.Errorf("%w: архив превышает допустимые лимиты", ErrInvalidArchive)
	ErrFilesystem      = errors.New("ошибка файловой системы")
	ErrRunPanicked     = errors.New("аварийное завершение обработки")

	// Ошибки уровня записи: запись пропускается или копируется как есть
	ErrPathTraversal  = errors.New("недопустимый путь в архиве")
	ErrEngineFailure  = errors.New("ошибка движка сжатия")
	ErrEngineNotFound = fmt.Errorf("%w: движок сжатия не найден", ErrEngineFailure)
	ErrEngineTimeout  = fmt.Errorf("%w: превышено время ожидания", ErrEngineFailure)

	// Ошибки конфигурации
	ErrInvalidParallelWorkers  = errors.New("количество воркеров должно быть от 1 до 64")
	ErrInvalidTimeout          = errors.New("таймаут должен быть положительным")
	ErrInvalidEngine           = errors.New("неизвестный движок сжатия")
	ErrEmptyDocumentExtensions = errors.New("не указаны расширения документов")
	ErrInvalidLimits           = errors.New("лимиты извлечения не могут быть отрицательными")
	ErrFileNotFound            = errors.New("файл не найден")
	ErrDirectoryNotFound       = errors.New("директория не найдена")
)
