// Package convert normalizes arbitrary supported input files into a single
// raster image suitable for visual-AI submission.
package convert

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"docscan/internal/apperr"
	"docscan/internal/config"
	"docscan/internal/model"
)

const (
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
	MimeJPG  = "image/jpg"
	MimePDF  = "application/pdf"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Converter turns a fetched file into a NormalizedImage. Raster inputs pass
// through untouched; PDFs are rasterized at a fixed first-page viewport;
// word-processor formats are converted to markup and screenshotted by a
// headless browser. Everything else is rejected.
type Converter struct {
	renderer   Renderer
	scratchDir string
	pdfWidth   int
	pdfHeight  int
	logger     *slog.Logger
}

// NewConverter builds a Converter around a page renderer.
func NewConverter(cfg config.ConvertConfig, renderer Renderer, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{
		renderer:   renderer,
		scratchDir: cfg.ScratchDir,
		pdfWidth:   cfg.PDFWidth,
		pdfHeight:  cfg.PDFHeight,
		logger:     logger,
	}
}

// ToImage normalizes file into a base64 raster image. The file's media type
// is rewritten in place when conversion forces PNG. Fails with a
// conversion-kind error for missing payloads and unsupported types.
func (c *Converter) ToImage(ctx context.Context, file *model.File) (model.NormalizedImage, error) {
	if len(file.Data) == 0 {
		return model.NormalizedImage{}, apperr.Conversion("file data is missing", nil)
	}

	switch file.MimeType {
	case MimePNG, MimeJPEG, MimeJPG:
		return model.NewNormalizedImage(file.Data, file.MimeType), nil

	case MimePDF:
		c.logger.Info("convert.pdf", "file_id", file.ID, "bytes", len(file.Data))
		raw, err := c.pdfToPNG(ctx, file.Data)
		if err != nil {
			return model.NormalizedImage{}, err
		}
		file.MimeType = MimePNG
		return model.NewNormalizedImage(raw, MimePNG), nil

	case MimeDOC:
		c.logger.Info("convert.doc", "file_id", file.ID, "bytes", len(file.Data))
		html, err := docToHTML(file.Data)
		if err != nil {
			return model.NormalizedImage{}, apperr.Conversion("failed to convert DOC to markup", err)
		}
		return c.renderMarkup(ctx, file, html)

	case MimeDOCX:
		c.logger.Info("convert.docx", "file_id", file.ID, "bytes", len(file.Data))
		html, err := docxToHTML(file.Data)
		if err != nil {
			return model.NormalizedImage{}, apperr.Conversion("failed to convert DOCX to markup", err)
		}
		return c.renderMarkup(ctx, file, html)

	default:
		return model.NormalizedImage{}, apperr.Conversion(
			fmt.Sprintf("unsupported file type: %s", file.MimeType), nil)
	}
}

// renderMarkup captures a full-page PNG screenshot of the given markup and
// forces the file's media type to PNG.
func (c *Converter) renderMarkup(ctx context.Context, file *model.File, html string) (model.NormalizedImage, error) {
	raw, err := c.renderer.RenderHTML(ctx, html)
	if err != nil {
		return model.NormalizedImage{}, apperr.Conversion("failed to render document markup", err)
	}
	if len(raw) == 0 {
		return model.NormalizedImage{}, apperr.Conversion("markup rendering produced no output", nil)
	}
	file.MimeType = MimePNG
	return model.NewNormalizedImage(raw, MimePNG), nil
}

// pdfToPNG writes the payload to the scratch directory (created if absent),
// renders the first page at the fixed raster viewport, and removes the
// temporary file on every exit path.
func (c *Converter) pdfToPNG(ctx context.Context, data []byte) ([]byte, error) {
	if err := os.MkdirAll(c.scratchDir, 0o755); err != nil {
		return nil, apperr.Conversion("failed to create scratch directory", err)
	}

	tmp, err := os.CreateTemp(c.scratchDir, "docscan-*.pdf")
	if err != nil {
		return nil, apperr.Conversion("failed to create temporary pdf", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, apperr.Conversion("failed to write temporary pdf", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, apperr.Conversion("failed to write temporary pdf", err)
	}

	raw, err := c.renderer.RenderFile(ctx, tmp.Name(), c.pdfWidth, c.pdfHeight)
	if err != nil {
		return nil, apperr.Conversion("failed to rasterize pdf", err)
	}
	if len(raw) == 0 {
		return nil, apperr.Conversion("pdf conversion produced no output", nil)
	}
	return raw, nil
}
