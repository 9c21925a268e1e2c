package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// ImageSource resolves a photo reference to JPEG thumbnail bytes.
type ImageSource interface {
	Thumbnail(ref string) ([]byte, error)
}

const (
	pageMargin = 15.0
	imageWidth = 60.0
)

// FileName is the conventional report file name for a period.
func FileName(period string) string {
	if period == "" {
		period = "completo"
	}
	return "informe_" + period + ".pdf"
}

// RenderPDF writes the report to path, embedding a thumbnail for every
// image instruction. Photos that cannot be read or decoded degrade to a
// placeholder line instead of failing the whole report.
func RenderPDF(rep *Report, images ImageSource, path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	imgSeq := 0
	for _, in := range rep.Instructions {
		switch in.Kind {
		case OpPage:
			pdf.AddPage()
		case OpHeading:
			pdf.SetFont("Helvetica", "B", 16)
			pdf.CellFormat(0, 10, tr(in.Text), "", 1, "L", false, 0, "")
			pdf.Ln(2)
		case OpText:
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 6, tr(in.Text), "", "L", false)
		case OpImage:
			thumb, err := images.Thumbnail(in.Image)
			if err != nil {
				pdf.SetFont("Helvetica", "I", 9)
				pdf.MultiCell(0, 5, tr("(image unavailable)"), "", "L", false)
				continue
			}
			imgSeq++
			name := fmt.Sprintf("img%d", imgSeq)
			opts := fpdf.ImageOptions{ImageType: "JPG"}
			pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(thumb))
			pdf.ImageOptions(name, pageMargin, -1, imageWidth, 0, true, opts, 0, "")
			pdf.Ln(3)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
