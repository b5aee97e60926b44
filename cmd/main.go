package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"zipcompressor/internal/domain/entities"
	"zipcompressor/internal/domain/repositories"
	"zipcompressor/internal/infrastructure/config"
	"zipcompressor/internal/infrastructure/logging"
	"zipcompressor/internal/presentation/tui"
)

var (
	configFlag = flag.String("config", "config.yaml", "Путь к файлу конфигурации")
	levelFlag  = flag.String("level", "", "Уровень сжатия: low, medium, high")
	engineFlag = flag.String("engine", "", "Движок сжатия: ghostscript (gs), pdfcpu, unipdf")
	outFlag    = flag.String("out", "", "Директория для выходных архивов")
	tuiFlag    = flag.Bool("tui", false, "Запустить интерактивный интерфейс")
)

func main() {
	flag.Usage = printUsage
	flag.Parse()
	os.Exit(run(flag.Args()))
}

func run(archives []string) int {
	// Загрузка конфигурации
	configRepo := config.NewRepository()
	appConfig, err := configRepo.Load(*configFlag)
	if err != nil {
		log.Printf("Ошибка загрузки конфигурации: %v", err)
		return 1
	}

	if err := applyFlags(appConfig); err != nil {
		log.Printf("Ошибка параметров: %v", err)
		return 1
	}

	tuiMode := *tuiFlag || appConfig.Output.TUI

	// В режиме TUI журнал не выводится в терминал
	fileLogger, err := logging.NewFileLogger(logging.Options{
		Level:     appConfig.Output.LogLevel,
		LogToFile: appConfig.Output.LogToFile,
		FileName:  appConfig.Output.LogFileName,
		MaxSizeMB: appConfig.Output.LogMaxSizeMB,
		Console:   !tuiMode,
	})
	if err != nil {
		log.Printf("Ошибка инициализации логгера: %v", err)
		return 1
	}
	defer fileLogger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if tuiMode {
		return runTUI(ctx, configRepo, appConfig, fileLogger)
	}
	return runCLI(ctx, appConfig, fileLogger, archives)
}

// applyFlags переопределяет конфигурацию параметрами командной строки
func applyFlags(appConfig *entities.Config) error {
	if *levelFlag != "" {
		appConfig.Compression.Level = entities.ParseCompressionLevel(*levelFlag).String()
	}
	if *engineFlag != "" {
		engine := strings.ToLower(*engineFlag)
		if engine == "gs" {
			engine = entities.EngineGhostscript
		}
		appConfig.Compression.Algorithm = engine
	}
	if *outFlag != "" {
		appConfig.Scanner.TargetDirectory = *outFlag
	}
	return appConfig.Validate()
}

// warnMissingEngine предупреждает, что документы будут копироваться без сжатия
func warnMissingEngine(appConfig *entities.Config, logger repositories.Logger) {
	if appConfig.Compression.Algorithm != entities.EngineGhostscript {
		return
	}
	if _, err := exec.LookPath(appConfig.Engine.Binary); err != nil {
		logger.Warning("⚠️  Ghostscript (%s) не найден, документы будут скопированы без сжатия", appConfig.Engine.Binary)
	}
}

func runCLI(ctx context.Context, appConfig *entities.Config, logger repositories.Logger, archives []string) int {
	warnMissingEngine(appConfig, logger)

	processor := NewApplicationProcessor(ctx, logger)
	defer processor.Shutdown()

	controller, err := processor.Controller(appConfig, os.Stdout)
	if err != nil {
		logger.Error("Ошибка инициализации: %v", err)
		return 1
	}

	if len(archives) == 0 {
		err = controller.HandleDirectory(processor.Context(), appConfig)
	} else {
		level := entities.ParseCompressionLevel(appConfig.Compression.Level)
		err = controller.HandleArchives(processor.Context(), archives, *outFlag, appConfig.Output.Prefix, level)
	}

	if err != nil {
		logger.Error("%v", err)
		return 1
	}
	return 0
}

func runTUI(ctx context.Context, configRepo repositories.AppConfigRepository, appConfig *entities.Config, fileLogger repositories.Logger) int {
	tuiManager := tui.NewManager(configRepo, *configFlag, appConfig)
	tuiManager.Initialize()
	defer tuiManager.Cleanup()

	// Оборачиваем логгер адаптером, чтобы видеть логи в TUI
	logger := tui.NewUILogger(fileLogger, tuiManager)
	warnMissingEngine(appConfig, logger)

	processor := NewApplicationProcessor(ctx, logger)
	processor.SetProgressReporter(tuiManager.SendStatusUpdate)
	defer processor.Shutdown()

	tuiManager.SetOnStartProcessing(processor.StartProcessing)

	// Сигнал завершения закрывает интерфейс
	go func() {
		<-ctx.Done()
		tuiManager.Stop()
	}()

	if err := tuiManager.Run(); err != nil {
		fileLogger.Error("Ошибка запуска TUI: %v", err)
		return 1
	}
	return 0
}

func printUsage() {
	fmt.Fprintf(flag.CommandLine.Output(), `ZIP Compressor - сжатие PDF документов внутри ZIP архивов.

Использование: zipcompressor [параметры] [archive.zip ...]

Без аргументов обрабатываются все архивы scanner.source_directory из конфигурации.
Для каждого архива создается compressed_<имя>.zip, исходный архив не изменяется.

Параметры:
`)
	flag.PrintDefaults()
}
