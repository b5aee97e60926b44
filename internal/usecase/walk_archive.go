package usecases

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"zipcompressor/internal/domain/entities"
	"zipcompressor/internal/domain/repositories"
)

// ArchiveWalker обходит извлеченное дерево и переносит каждый элемент в дерево для упаковки.
// Документы проходят через DocumentCompressor, остальные файлы копируются без изменений.
type ArchiveWalker struct {
	compressor repositories.DocumentCompressor
	fileRepo   repositories.FileRepository
	logger     repositories.Logger
	workers    int
	extensions []string
	onPlan     func(documents int)
	onDocument func(*entities.CompressionResult)
}

// NewArchiveWalker создает новый обходчик архива
func NewArchiveWalker(
	compressor repositories.DocumentCompressor,
	fileRepo repositories.FileRepository,
	logger repositories.Logger,
	workers int,
	extensions []string,
) *ArchiveWalker {
	if workers <= 0 {
		workers = 1
	}
	if len(extensions) == 0 {
		extensions = entities.DefaultDocumentExtensions
	}
	return &ArchiveWalker{
		compressor: compressor,
		fileRepo:   fileRepo,
		logger:     loggerOrDiscard(logger),
		workers:    workers,
		extensions: extensions,
	}
}

// SetDocumentHandler устанавливает функцию, вызываемую после обработки каждого документа.
// Вызовы выполняются последовательно из одной горутины.
func (w *ArchiveWalker) SetDocumentHandler(handler func(*entities.CompressionResult)) {
	w.onDocument = handler
}

// SetPlanHandler устанавливает функцию, получающую число документов до начала сжатия
func (w *ArchiveWalker) SetPlanHandler(handler func(documents int)) {
	w.onPlan = handler
}

// fileTask файл, принятый к обработке
type fileTask struct {
	source   string
	target   string
	relPath  entities.RelativePath
	document bool
}

// fileOutcome результат обработки одного файла
type fileOutcome struct {
	task   fileTask
	result *entities.CompressionResult
}

// Walk переносит extractedRoot в compressTarget.
// Возвращает частичные счетчики вместе с первой фатальной ошибкой.
func (w *ArchiveWalker) Walk(ctx context.Context, extractedRoot, compressTarget string, profile *entities.CompressionProfile) (*entities.ProcessingResult, error) {
	result := &entities.ProcessingResult{}

	tasks, skipped, err := w.plan(extractedRoot, compressTarget)
	result.SkippedEntries = skipped
	if err != nil {
		return result, err
	}

	if w.onPlan != nil {
		documents := 0
		for _, task := range tasks {
			if task.document {
				documents++
			}
		}
		w.onPlan(documents)
	}

	results := make(chan fileOutcome, w.workers)
	collected := make(chan struct{})

	// Счетчики изменяются только в сборщике
	go func() {
		defer close(collected)
		for outcome := range results {
			if !outcome.task.document {
				result.CopiedFiles++
				continue
			}
			outcome.result.CurrentFile = outcome.task.relPath.String()
			result.AddDocument(outcome.result)
			if w.onDocument != nil {
				w.onDocument(outcome.result)
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.workers)

	for _, task := range tasks {
		if gctx.Err() != nil {
			break
		}
		task := task
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: %s: %v", entities.ErrRunPanicked, task.relPath, r)
				}
			}()

			outcome, err := w.processFile(gctx, task, profile)
			if err != nil {
				return err
			}
			results <- outcome
			return nil
		})
	}

	err = g.Wait()
	close(results)
	<-collected

	if err == nil {
		err = ctx.Err()
	}
	return result, err
}

// plan обходит дерево последовательно: проверяет пути, зеркалирует директории и собирает файлы
func (w *ArchiveWalker) plan(extractedRoot, compressTarget string) ([]fileTask, int, error) {
	var tasks []fileTask
	skipped := 0

	err := filepath.WalkDir(extractedRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("%w: ошибка обхода %s: %v", entities.ErrFilesystem, path, walkErr)
		}
		if path == extractedRoot {
			return nil
		}

		rel, err := filepath.Rel(extractedRoot, path)
		if err != nil {
			return fmt.Errorf("%w: %v", entities.ErrFilesystem, err)
		}

		relPath, err := entities.ValidateRelativePath(filepath.ToSlash(rel))
		if err != nil {
			w.logger.Warning("Пропущен недопустимый путь %q: %v", rel, err)
			skipped++
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		target := relPath.Join(compressTarget)

		switch {
		case d.Type()&fs.ModeSymlink != 0:
			w.logger.Warning("Пропущена символическая ссылка: %s", relPath)
			skipped++

		case d.IsDir():
			if err := w.fileRepo.CreateDirectory(target); err != nil {
				return fmt.Errorf("%w: не удалось создать директорию %s: %v", entities.ErrFilesystem, target, err)
			}

		case d.Type().IsRegular():
			tasks = append(tasks, fileTask{
				source:   path,
				target:   target,
				relPath:  relPath,
				document: entities.IsDocument(d.Name(), w.extensions),
			})

		default:
			w.logger.Warning("Пропущен специальный файл: %s", relPath)
			skipped++
		}

		return nil
	})

	return tasks, skipped, err
}

// processFile обрабатывает один файл в горутине воркера
func (w *ArchiveWalker) processFile(ctx context.Context, task fileTask, profile *entities.CompressionProfile) (fileOutcome, error) {
	outcome := fileOutcome{task: task}

	if err := ctx.Err(); err != nil {
		return outcome, err
	}

	if err := w.fileRepo.CreateDirectory(filepath.Dir(task.target)); err != nil {
		return outcome, fmt.Errorf("%w: не удалось создать директорию для %s: %v", entities.ErrFilesystem, task.relPath, err)
	}

	if !task.document {
		if err := w.fileRepo.CopyFile(task.source, task.target); err != nil {
			return outcome, err
		}
		w.logger.Debug("Скопирован: %s", task.relPath)
		return outcome, nil
	}

	result, err := w.compressor.Compress(ctx, task.source, task.target, profile)
	if err != nil {
		if !errors.Is(err, entities.ErrFilesystem) {
			err = fmt.Errorf("%w: %v", entities.ErrFilesystem, err)
		}
		return outcome, err
	}
	outcome.result = result

	return outcome, nil
}

