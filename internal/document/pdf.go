package document

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/nao1215/selfcheck/internal/model"
	"github.com/nao1215/selfcheck/internal/paginate"
)

// imageName is the name the report image is registered under in the PDF.
const imageName = "report"

// Document is everything needed to produce one file.
type Document struct {
	// Image is the rendered report.
	Image image.Image

	// Placements are the pages, as returned by paginate.Paginate.
	Placements []model.PagePlacement

	// Page is the page size the placements were computed for.
	Page paginate.PageSize

	// Title and Author end up in the document metadata.
	Title  string
	Author string

	// CreatedAt is the creation date; zero means now.
	CreatedAt time.Time
}

// Writer saves a Document to a path.
type Writer interface {
	Write(ctx context.Context, path string, doc Document) error
}

// PDFWriter is a Writer producing PDF files with go-pdf/fpdf.
type PDFWriter struct{}

// NewPDFWriter returns a PDFWriter.
func NewPDFWriter() *PDFWriter {
	return &PDFWriter{}
}

// Write renders doc and saves it atomically to path.
func (w *PDFWriter) Write(ctx context.Context, path string, doc Document) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingFailure, err)
	}

	var buf bytes.Buffer
	if err := w.Encode(&buf, doc); err != nil {
		return err
	}

	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingFailure, err)
	}
	return nil
}

// Encode writes the PDF bytes of doc to out.
func (w *PDFWriter) Encode(out io.Writer, doc Document) error {
	if doc.Image == nil {
		return fmt.Errorf("%w: image is nil", ErrEncodingFailure)
	}
	if len(doc.Placements) == 0 {
		return fmt.Errorf("%w: %w", ErrEncodingFailure, ErrNoPages)
	}
	if !doc.Page.Valid() {
		return fmt.Errorf("%w: %w", ErrEncodingFailure, paginate.ErrInvalidDimensions)
	}

	var raw bytes.Buffer
	if err := png.Encode(&raw, doc.Image); err != nil {
		return fmt.Errorf("%w: encode image: %w", ErrEncodingFailure, err)
	}

	b := doc.Image.Bounds()
	scaledHeight := paginate.ScaledHeight(b.Dx(), b.Dy(), doc.Page)

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: doc.Page.Width, Ht: doc.Page.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("selfcheck", true)
	if doc.Title != "" {
		pdf.SetTitle(doc.Title, true)
	}
	if doc.Author != "" {
		pdf.SetAuthor(doc.Author, true)
	}
	created := doc.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	pdf.SetCreationDate(created)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(imageName, opts, &raw)

	pages := 0
	for _, p := range doc.Placements {
		if paginate.VisibleHeight(p, scaledHeight, doc.Page.Height) <= 0 {
			continue
		}
		pages++
		pdf.AddPage()
		pdf.ImageOptions(imageName, 0, p.Offset, doc.Page.Width, scaledHeight, false, opts, 0, "")
	}

	if pages == 0 {
		return fmt.Errorf("%w: %w", ErrEncodingFailure, ErrNoPages)
	}

	if err := pdf.Output(out); err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingFailure, err)
	}
	return nil
}

// writeFileAtomic writes data to a temporary file next to path and renames it.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
