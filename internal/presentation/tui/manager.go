package tui

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"zipcompressor/internal/domain/entities"
	"zipcompressor/internal/domain/repositories"
)

// Screen экран интерфейса
type Screen int

const (
	ScreenMenu Screen = iota
	ScreenConfig
	ScreenProcessing
)

// UI Configuration constants
const (
	MaxLogBufferSize     = 1000
	LogFlushInterval     = 50 * time.Millisecond
	ProgressBarWidth     = 40
	MaxFileNameLength    = 60
	MaxFileNameDisplay   = 57
	ProgressViewHeight   = 9
	FormItemLicenseIndex = 5
)

var (
	levelOptions  = []string{"low", "medium", "high"}
	engineOptions = []string{entities.EngineGhostscript, entities.EnginePDFCPU, entities.EngineUniPDF}
)

// Manager управляет TUI интерфейсом
type Manager struct {
	app           *tview.Application
	pages         *tview.Pages
	currentScreen Screen

	// UI компоненты
	mainMenu     *tview.List
	configForm   *tview.Form
	progressView *tview.TextView
	logView      *tview.TextView

	// Callbacks
	onStartProcessing func(*entities.Config)

	// Конфигурация
	configRepo repositories.AppConfigRepository
	configPath string
	config     *entities.Config

	// Состояние
	logBuffer    []string
	statusMutex  sync.RWMutex
	isProcessing bool

	// Батчинг логов через канал
	logChan  chan string
	logDone  chan struct{}
	logMutex sync.Mutex
}

// NewManager создает новый менеджер TUI
func NewManager(configRepo repositories.AppConfigRepository, configPath string, config *entities.Config) *Manager {
	if config == nil {
		config = entities.DefaultConfig()
	}
	m := &Manager{
		app:        tview.NewApplication(),
		pages:      tview.NewPages(),
		configRepo: configRepo,
		configPath: configPath,
		config:     config,
		logBuffer:  make([]string, 0, MaxLogBufferSize),
		logChan:    make(chan string, 100),
		logDone:    make(chan struct{}),
	}
	go m.logProcessor()
	return m
}

// Initialize инициализирует TUI
func (m *Manager) Initialize() {
	m.createUI()
	m.setupKeyBindings()
}

// Run запускает TUI
func (m *Manager) Run() error {
	return m.app.SetRoot(m.pages, true).EnableMouse(true).Run()
}

// Stop останавливает TUI
func (m *Manager) Stop() {
	m.app.Stop()
}

// SetOnStartProcessing устанавливает callback для начала обработки
func (m *Manager) SetOnStartProcessing(callback func(*entities.Config)) {
	m.onStartProcessing = callback
}

// SendStatusUpdate отправляет обновление статуса
func (m *Manager) SendStatusUpdate(status entities.ProcessingStatus) {
	m.updateProgress(status)
}

// GetConfig возвращает копию текущей конфигурации
func (m *Manager) GetConfig() *entities.Config {
	m.statusMutex.RLock()
	defer m.statusMutex.RUnlock()

	config := *m.config
	config.Compression.DocumentExtensions = append([]string(nil), m.config.Compression.DocumentExtensions...)
	config.Engine.ExtraArgs = append([]string(nil), m.config.Engine.ExtraArgs...)
	return &config
}

// reloadConfig перечитывает конфигурацию из файла (отмена изменений формы)
func (m *Manager) reloadConfig() {
	if m.configRepo == nil {
		return
	}
	config, err := m.configRepo.Load(m.configPath)
	if err != nil {
		m.AddLog("error", fmt.Sprintf("Ошибка загрузки конфигурации: %v", err))
		return
	}
	m.config = config
}

// saveConfig сохраняет конфигурацию
func (m *Manager) saveConfig() {
	if m.configRepo == nil {
		return
	}
	m.config.ApplyDefaults()
	if err := m.config.Validate(); err != nil {
		m.AddLog("error", fmt.Sprintf("Некорректная конфигурация: %v", err))
		return
	}
	if err := m.configRepo.Save(m.configPath, m.config); err != nil {
		m.AddLog("error", fmt.Sprintf("Ошибка сохранения конфигурации: %v", err))
	}
}

// createUI создает пользовательский интерфейс
func (m *Manager) createUI() {
	m.createMainMenu()
	m.createConfigScreen()
	m.createProcessingScreen()

	m.pages.AddPage("menu", m.mainMenu, true, true)
	m.pages.AddPage("config", m.configForm, true, false)
	m.pages.AddPage("processing", m.createProcessingLayout(), true, false)

	m.currentScreen = ScreenMenu
}

// createMainMenu создает главное меню
func (m *Manager) createMainMenu() {
	m.mainMenu = tview.NewList().
		AddItem("🚀 Обработать архивы", "Сжать документы во всех ZIP архивах исходной директории", '1', func() {
			m.startProcessing()
		}).
		AddItem("⚙️ Конфигурация", "Настроить параметры сжатия и обработки", '2', func() {
			m.switchToScreen(ScreenConfig)
		}).
		AddItem("❌ Выход", "Закрыть приложение", 'q', func() {
			m.Cleanup()
			m.app.Stop()
		})

	m.mainMenu.SetBorder(true).
		SetTitle("🔥 ZIP Compressor - Главное меню").
		SetTitleAlign(tview.AlignCenter)

	m.mainMenu.SetSelectedBackgroundColor(tcell.ColorDarkBlue).
		SetSelectedTextColor(tcell.ColorWhite).
		SetMainTextColor(tcell.ColorWhite).
		SetSecondaryTextColor(tcell.ColorGray)
}

// createConfigScreen создает экран конфигурации
func (m *Manager) createConfigScreen() {
	m.configForm = tview.NewForm().
		AddInputField("Исходная директория", m.config.Scanner.SourceDirectory, 60, nil, func(text string) {
			m.config.Scanner.SourceDirectory = text
		}).
		AddInputField("Целевая директория", m.config.Scanner.TargetDirectory, 60, nil, func(text string) {
			m.config.Scanner.TargetDirectory = text
		}).
		AddDropDown("Уровень сжатия", levelOptions, optionIndex(levelOptions, m.config.Compression.Level, 1), func(option string, _ int) {
			m.config.Compression.Level = option
		}).
		AddDropDown("Движок", engineOptions, optionIndex(engineOptions, m.config.Compression.Algorithm, 0), func(option string, _ int) {
			m.config.Compression.Algorithm = option
			m.updateLicenseFieldVisibility()
		}).
		AddInputField("Бинарник Ghostscript", m.config.Engine.Binary, 40, nil, func(text string) {
			m.config.Engine.Binary = text
		}).
		AddInputField("Лицензия UniPDF (UNIDOC_LICENSE_API_KEY)", m.config.Compression.UniPDFLicenseKey, 60, nil, func(text string) {
			m.config.Compression.UniPDFLicenseKey = text
		}).
		AddInputField("Параллельных воркеров", strconv.Itoa(m.config.Processing.ParallelWorkers), 10, nil, func(text string) {
			if workers, err := strconv.Atoi(text); err == nil && workers > 0 {
				m.config.Processing.ParallelWorkers = workers
			}
		}).
		AddInputField("Таймаут движка (сек)", strconv.Itoa(m.config.Processing.TimeoutSeconds), 10, nil, func(text string) {
			if timeout, err := strconv.Atoi(text); err == nil && timeout > 0 {
				m.config.Processing.TimeoutSeconds = timeout
			}
		}).
		AddButton("Сохранить", func() {
			m.saveConfig()
			m.switchToScreen(ScreenMenu)
			// Позиционируемся на пункте "Конфигурация"
			m.mainMenu.SetCurrentItem(1)
		})

	m.updateLicenseFieldVisibility()

	m.configForm.SetBorder(true).
		SetTitle("🔥 ZIP Compressor - Конфигурация (ESC - выйти без сохранения)").
		SetTitleAlign(tview.AlignCenter)

	m.configForm.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			m.reloadConfig()
			m.switchToScreen(ScreenMenu)
			return nil
		}
		return event
	})
}

// createProcessingScreen создает экран обработки
func (m *Manager) createProcessingScreen() {
	m.progressView = tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetScrollable(true)

	m.progressView.SetBorder(true).
		SetTitle("📊 Прогресс обработки").
		SetTitleAlign(tview.AlignCenter)

	m.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetMaxLines(MaxLogBufferSize)

	m.logView.SetBorder(true).
		SetTitle("📋 Журнал событий").
		SetTitleAlign(tview.AlignCenter)
}

// createProcessingLayout создает layout для экрана обработки
func (m *Manager) createProcessingLayout() *tview.Flex {
	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(m.logView, 0, 1, false).
		AddItem(m.progressView, ProgressViewHeight, 0, false)
}

// setupKeyBindings настраивает горячие клавиши
func (m *Manager) setupKeyBindings() {
	m.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF1:
			m.switchToScreen(ScreenMenu)
			return nil
		case tcell.KeyF2:
			m.switchToScreen(ScreenConfig)
			return nil
		case tcell.KeyF3:
			if m.isProcessing {
				m.switchToScreen(ScreenProcessing)
			}
			return nil
		case tcell.KeyEscape:
			// В конфигурации ESC обрабатывается формой
			if m.currentScreen == ScreenConfig {
				return event
			} else if m.currentScreen != ScreenMenu {
				m.switchToScreen(ScreenMenu)
				return nil
			}
		}

		if m.currentScreen == ScreenMenu {
			switch event.Rune() {
			case '1':
				m.startProcessing()
				return nil
			case '2':
				m.switchToScreen(ScreenConfig)
				return nil
			case 'q', 'Q':
				m.Cleanup()
				m.app.Stop()
				return nil
			}
		}

		return event
	})
}

// switchToScreen переключает на указанный экран
func (m *Manager) switchToScreen(screen Screen) {
	m.statusMutex.Lock()
	defer m.statusMutex.Unlock()

	m.currentScreen = screen

	switch screen {
	case ScreenMenu:
		m.pages.SwitchToPage("menu")
	case ScreenConfig:
		m.refreshConfigForm()
		m.pages.SwitchToPage("config")
	case ScreenProcessing:
		m.pages.SwitchToPage("processing")
	}
}

// startProcessing начинает обработку
func (m *Manager) startProcessing() {
	if m.isProcessing {
		m.switchToScreen(ScreenProcessing)
		return
	}

	m.saveConfig()
	m.isProcessing = true
	m.switchToScreen(ScreenProcessing)

	if m.onStartProcessing != nil {
		go m.onStartProcessing(m.GetConfig())
	}
}

// updateProgress обновляет прогресс
func (m *Manager) updateProgress(status entities.ProcessingStatus) {
	if m.progressView == nil {
		return
	}

	progressText := m.formatStatus(status)
	if status.IsComplete && status.ArchivePath == "" {
		m.isProcessing = false
	}

	// Обновляем UI потокобезопасно через QueueUpdateDraw
	m.app.QueueUpdateDraw(func() {
		m.progressView.SetText(progressText)
	})
}

// formatStatus формирует текст панели прогресса
func (m *Manager) formatStatus(status entities.ProcessingStatus) string {
	progressBar := m.createProgressBar(status.Progress, ProgressBarWidth)
	displayFile := m.truncateFileName(status.CurrentFile, MaxFileNameLength, MaxFileNameDisplay)

	phaseText := status.Phase.String()
	if status.Message != "" {
		phaseText = status.Message
	}

	progressText := fmt.Sprintf("[yellow]⚙️  Фаза:[white] %s\n", phaseText)

	if status.ArchivePath != "" {
		progressText += fmt.Sprintf("[yellow]📦 Архив:[white] %s\n", filepath.Base(status.ArchivePath))
	}

	progressText += fmt.Sprintf("\n[yellow]📁 Текущий файл:[white] %s\n", displayFile)

	if status.CurrentFileSize > 0 {
		progressText += fmt.Sprintf("[dim]   Размер: %.2f MB[white]\n", float64(status.CurrentFileSize)/1024/1024)
	}

	progressText += fmt.Sprintf(
		"\n[cyan]📊 Прогресс:[white] %s [cyan]%.1f%%[white]\n\n",
		progressBar,
		status.Progress,
	)

	progressText += fmt.Sprintf(
		"[green]📈 Статистика документов:[white]\n"+
			"  • Всего: [cyan]%d[white]\n"+
			"  • Обработано: [cyan]%d[white]\n"+
			"  • Сжато: [green]%d[white]",
		status.TotalFiles,
		status.ProcessedFiles,
		status.SuccessfulFiles,
	)

	if status.FailedFiles > 0 {
		progressText += fmt.Sprintf("\n  • Без сжатия: [red]%d[white]", status.FailedFiles)
	}

	if status.SkippedFiles > 0 {
		progressText += fmt.Sprintf("\n  • Пропущено: [yellow]%d[white]", status.SkippedFiles)
	}

	if status.TotalOriginalSize > 0 {
		progressText += fmt.Sprintf(
			"\n\n[green]💾 Статистика сжатия:[white]\n"+
				"  • Исходный размер: [cyan]%.2f MB[white]\n"+
				"  • Сжатый размер: [cyan]%.2f MB[white]\n"+
				"  • Среднее сжатие: [green]%.1f%%[white]\n"+
				"  • Сэкономлено: [green]%.2f MB[white]",
			float64(status.TotalOriginalSize)/1024/1024,
			float64(status.TotalCompressedSize)/1024/1024,
			status.AverageCompression,
			float64(status.TotalSavedSpace)/1024/1024,
		)
	}

	progressText += fmt.Sprintf(
		"\n\n[yellow]⏱️  Время:[white]\n"+
			"  • Прошло: [cyan]%s[white]",
		status.FormatElapsedTime(),
	)

	if !status.IsComplete && status.EstimatedTime > 0 {
		progressText += fmt.Sprintf("\n  • Осталось: [cyan]~%s[white]", status.FormatEstimatedTime())
	}

	progressText += "\n\n"

	if status.IsComplete {
		if status.Error != nil {
			progressText += "[red]❌ Обработка завершена с ошибкой![white]\n"
			progressText += fmt.Sprintf("[red]Ошибка: %v[white]\n", status.Error)
		} else {
			progressText += "[green]✅ Обработка успешно завершена![white]\n"
		}
	}
	progressText += "\n[yellow]F1[white] - Главное меню\n"
	progressText += "[yellow]ESC[white] - Главное меню\n"

	return progressText
}

// truncateFileName корректно усекает имя файла с учетом UTF-8
func (m *Manager) truncateFileName(fileName string, maxLength, truncateAt int) string {
	runes := []rune(fileName)
	if len(runes) <= maxLength {
		return fileName
	}
	return string(runes[:truncateAt]) + "..."
}

// createProgressBar создает цветной прогресс-бар
func (m *Manager) createProgressBar(progress float64, width int) string {
	if progress < 0 {
		progress = 0
	} else if progress > 100 {
		progress = 100
	}

	filled := int(math.Round(progress * float64(width) / 100))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	const filledChar = "█"
	const emptyChar = "░"

	var color string
	switch {
	case progress < 25:
		color = "red"
	case progress < 50:
		color = "yellow"
	case progress < 75:
		color = "blue"
	default:
		color = "green"
	}

	filledPart := strings.Repeat(filledChar, filled)
	emptyPart := strings.Repeat(emptyChar, width-filled)

	return fmt.Sprintf("[%s]%s[gray]%s", color, filledPart, emptyPart)
}

// AddLog добавляет запись в лог через канал (неблокирующе)
func (m *Manager) AddLog(level, message string) {
	var color string
	switch strings.ToLower(level) {
	case "error":
		color = "red"
	case "warning":
		color = "yellow"
	case "success":
		color = "green"
	case "debug":
		color = "gray"
	default:
		color = "white"
	}

	logLine := fmt.Sprintf("[%s]%s:[white] %s", color, strings.ToUpper(level), tview.Escape(message))

	// Если канал переполнен, запись отбрасывается
	select {
	case m.logChan <- logLine:
	default:
	}
}

// logProcessor обрабатывает логи в отдельной горутине с батчингом
func (m *Manager) logProcessor() {
	ticker := time.NewTicker(LogFlushInterval)
	defer ticker.Stop()

	batch := make([]string, 0, 50)

	for {
		select {
		case logLine := <-m.logChan:
			batch = append(batch, logLine)

			if len(batch) >= 20 {
				m.flushLogBatch(batch)
				batch = make([]string, 0, 50)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				m.flushLogBatch(batch)
				batch = make([]string, 0, 50)
			}

		case <-m.logDone:
			if len(batch) > 0 {
				m.flushLogBatch(batch)
			}
			return
		}
	}
}

// flushLogBatch сбрасывает батч логов в UI
func (m *Manager) flushLogBatch(batch []string) {
	m.statusMutex.Lock()
	m.logBuffer = append(m.logBuffer, batch...)

	if len(m.logBuffer) > MaxLogBufferSize {
		m.logBuffer = m.logBuffer[len(m.logBuffer)-MaxLogBufferSize:]
	}

	logText := strings.Join(m.logBuffer, "\n")
	logView := m.logView
	m.statusMutex.Unlock()

	if logView != nil {
		m.app.QueueUpdateDraw(func() {
			logView.SetText(logText)
			logView.ScrollToEnd()
		})
	}
}

// logLines возвращает копию буфера журнала
func (m *Manager) logLines() []string {
	m.statusMutex.RLock()
	defer m.statusMutex.RUnlock()
	return append([]string(nil), m.logBuffer...)
}

// Cleanup освобождает ресурсы менеджера (идемпотентный)
func (m *Manager) Cleanup() {
	m.logMutex.Lock()
	defer m.logMutex.Unlock()

	select {
	case <-m.logDone:
		return
	default:
		close(m.logDone)
	}
}

// updateLicenseFieldVisibility обновляет поле лицензии в зависимости от выбранного движка
func (m *Manager) updateLicenseFieldVisibility() {
	if m.configForm == nil || m.configForm.GetFormItemCount() <= FormItemLicenseIndex {
		return
	}

	licenseField, ok := m.configForm.GetFormItem(FormItemLicenseIndex).(*tview.InputField)
	if !ok {
		return
	}

	if m.config.Compression.Algorithm == entities.EngineUniPDF {
		licenseField.SetLabel("🔑 Лицензия UniPDF - ОБЯЗАТЕЛЬНО ")
		licenseField.SetFieldBackgroundColor(tcell.ColorDarkBlue)
	} else {
		licenseField.SetLabel("Лицензия UniPDF (не требуется) ")
		licenseField.SetFieldBackgroundColor(tcell.ColorDarkGray)
	}
}

// refreshConfigForm синхронизирует значения формы с текущей конфигурацией
func (m *Manager) refreshConfigForm() {
	if m.configForm == nil {
		return
	}

	setText := func(index int, text string) {
		if field, ok := m.configForm.GetFormItem(index).(*tview.InputField); ok {
			field.SetText(text)
		}
	}
	setOption := func(index int, options []string, value string, fallback int) {
		if dd, ok := m.configForm.GetFormItem(index).(*tview.DropDown); ok {
			dd.SetCurrentOption(optionIndex(options, value, fallback))
		}
	}

	setText(0, m.config.Scanner.SourceDirectory)
	setText(1, m.config.Scanner.TargetDirectory)
	setOption(2, levelOptions, m.config.Compression.Level, 1)
	setOption(3, engineOptions, m.config.Compression.Algorithm, 0)
	setText(4, m.config.Engine.Binary)
	setText(5, m.config.Compression.UniPDFLicenseKey)
	setText(6, strconv.Itoa(m.config.Processing.ParallelWorkers))
	setText(7, strconv.Itoa(m.config.Processing.TimeoutSeconds))

	m.updateLicenseFieldVisibility()
}

// optionIndex индекс значения в списке вариантов
func optionIndex(options []string, value string, fallback int) int {
	for i, option := range options {
		if strings.EqualFold(option, value) {
			return i
		}
	}
	return fallback
}
