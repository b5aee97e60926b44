package main

import (
	"context"
	"io"
	"sync"

	"zipcompressor/internal/domain/entities"
	"zipcompressor/internal/domain/repositories"
	"zipcompressor/internal/infrastructure/archive"
	"zipcompressor/internal/infrastructure/compressors"
	infraRepos "zipcompressor/internal/infrastructure/repositories"
	"zipcompressor/internal/interface/controllers"
	usecases "zipcompressor/internal/usecase"
)

// ApplicationProcessor собирает сценарии обработки по конфигурации и управляет их жизненным циклом
type ApplicationProcessor struct {
	logger   repositories.Logger
	reporter func(entities.ProcessingStatus)

	// Graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewApplicationProcessor создает новый процессор приложения
func NewApplicationProcessor(parent context.Context, logger repositories.Logger) *ApplicationProcessor {
	ctx, cancel := context.WithCancel(parent)

	return &ApplicationProcessor{
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetProgressReporter устанавливает функцию для отчета о прогрессе
func (p *ApplicationProcessor) SetProgressReporter(reporter func(entities.ProcessingStatus)) {
	p.reporter = reporter
}

// buildPipeline создает сценарии обработки для конфигурации
func (p *ApplicationProcessor) buildPipeline(config *entities.Config) (*usecases.ProcessArchiveUseCase, *usecases.ProcessArchivesUseCase, error) {
	engine, err := compressors.NewEngine(config, p.logger)
	if err != nil {
		return nil, nil, err
	}

	fileRepo := infraRepos.NewFileSystemRepository()
	compressor := usecases.NewCompressDocumentUseCase(engine, fileRepo, p.logger, config.Processing.EngineTimeout())

	processor := usecases.NewProcessArchiveUseCase(
		archive.NewZipRepository(),
		fileRepo,
		infraRepos.NewProfileRepository(),
		compressor,
		p.logger,
		config,
	)
	processor.SetProgressReporter(p.reporter)

	batch := usecases.NewProcessArchivesUseCase(processor, fileRepo, p.logger)
	batch.SetProgressReporter(p.reporter)

	return processor, batch, nil
}

// Controller создает CLI контроллер для конфигурации
func (p *ApplicationProcessor) Controller(config *entities.Config, out io.Writer) (*controllers.CLIController, error) {
	processor, batch, err := p.buildPipeline(config)
	if err != nil {
		return nil, err
	}
	return controllers.NewCLIController(processor, batch, out), nil
}

// Context контекст, отменяемый при завершении работы
func (p *ApplicationProcessor) Context() context.Context {
	return p.ctx
}

// StartProcessing запускает пакетную обработку архивов
func (p *ApplicationProcessor) StartProcessing(config *entities.Config) {
	p.wg.Add(1)
	defer p.wg.Done()

	_, batch, err := p.buildPipeline(config)
	if err != nil {
		p.logger.Error("Ошибка инициализации обработки: %v", err)
		return
	}

	outcomes, err := batch.Execute(p.ctx, config)
	if err != nil {
		p.logger.Error("Ошибка обработки: %v", err)
		return
	}

	for _, outcome := range outcomes {
		if outcome.Error != nil {
			p.logger.Warning("Обработка завершена с ошибками")
			return
		}
	}
	p.logger.Success("Обработка архивов завершена успешно")
}

// Shutdown корректно завершает работу процессора
func (p *ApplicationProcessor) Shutdown() {
	p.cancel()
	p.wg.Wait()
}
