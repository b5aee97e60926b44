package compressors

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/unidoc/unipdf/v3/common"
	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/model"
	"github.com/unidoc/unipdf/v3/model/optimize"

	"zipcompressor/internal/domain/entities"
)

// UniPDFCompressor реализация движка с использованием UniPDF
type UniPDFCompressor struct {
	licenseKey string

	once       sync.Once
	licenseErr error
}

// NewUniPDFCompressor создает новый UniPDF движок.
// Пустой ключ берется из переменной UNIDOC_LICENSE_API_KEY.
func NewUniPDFCompressor(licenseKey string) *UniPDFCompressor {
	if licenseKey == "" {
		licenseKey = os.Getenv("UNIDOC_LICENSE_API_KEY")
	}
	return &UniPDFCompressor{licenseKey: licenseKey}
}

// Name возвращает имя движка
func (u *UniPDFCompressor) Name() string {
	return entities.EngineUniPDF
}

// setup однократно настраивает логгер и лицензию библиотеки
func (u *UniPDFCompressor) setup() error {
	u.once.Do(func() {
		common.SetLogger(common.NewConsoleLogger(common.LogLevelError))

		if u.licenseKey == "" {
			u.licenseErr = fmt.Errorf("%w: UniPDF требует лицензионный ключ (UNIDOC_LICENSE_API_KEY)", entities.ErrEngineFailure)
			return
		}
		if err := license.SetMeteredKey(u.licenseKey); err != nil {
			u.licenseErr = fmt.Errorf("%w: лицензия UniPDF не принята: %v", entities.ErrEngineFailure, err)
		}
	})
	return u.licenseErr
}

// Compress сжимает PDF файл используя UniPDF библиотеку
func (u *UniPDFCompressor) Compress(ctx context.Context, inputPath, outputPath string, profile *entities.CompressionProfile) error {
	if err := u.setup(); err != nil {
		return err
	}

	return runInProcess(ctx, outputPath, func(tmpPath string) error {
		return u.optimize(inputPath, tmpPath, profile)
	})
}

func (u *UniPDFCompressor) optimize(inputPath, outputPath string, profile *entities.CompressionProfile) error {
	pdfReader, file, err := model.NewPdfReaderFromFile(inputPath, nil)
	if err != nil {
		return fmt.Errorf("%w: ошибка открытия файла: %v", entities.ErrEngineFailure, err)
	}
	defer file.Close()

	pdfWriter := model.NewPdfWriter()

	options := optimize.Options{
		CombineDuplicateDirectObjects:   true,
		CombineIdenticalIndirectObjects: true,
		CombineDuplicateStreams:         true,
		CompressStreams:                 true,
		UseObjectStreams:                true,
		ImageQuality:                    profile.ImageQuality,
	}
	if profile.DownsampleImages {
		options.ImageUpperPPI = float64(profile.ColorImageResolution)
	}
	pdfWriter.SetOptimizer(optimize.New(options))

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return fmt.Errorf("%w: ошибка получения количества страниц: %v", entities.ErrEngineFailure, err)
	}

	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			return fmt.Errorf("%w: ошибка получения страницы %d: %v", entities.ErrEngineFailure, i, err)
		}
		if err := pdfWriter.AddPage(page); err != nil {
			return fmt.Errorf("%w: ошибка добавления страницы %d: %v", entities.ErrEngineFailure, i, err)
		}
	}

	outputFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("%w: ошибка создания выходного файла: %v", entities.ErrEngineFailure, err)
	}
	defer outputFile.Close()

	if err := pdfWriter.Write(outputFile); err != nil {
		return fmt.Errorf("%w: ошибка записи файла: %v", entities.ErrEngineFailure, err)
	}

	return nil
}
