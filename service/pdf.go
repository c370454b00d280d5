package service

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/elayeboussama/University-Order-Management-System/model"
	"github.com/georgepadayatti/gopdf/pdf/generic"
	"github.com/georgepadayatti/gopdf/pdf/reader"
	"github.com/georgepadayatti/gopdf/pdf/writer"
	"github.com/georgepadayatti/gopdf/stamp"
)

// Signature stamp geometry, in page coordinate units. Every signature is a
// fixed-size stamp on page one with its caption drawn just below.
const (
	SignatureStampWidth  = 100
	SignatureStampHeight = 50
	CaptionOffset        = 20
	CaptionFontSize      = 10
)

// PDFStamper embeds signature rasters into PDF documents. Stateless; the
// output is fully determined by the inputs.
type PDFStamper struct{}

func NewPDFStamper() *PDFStamper {
	return &PDFStamper{}
}

// Stamp places the signature image as a 100x50 stamp anchored at (x, y) on
// the first page, draws the caption at (x, y-20), and re-serializes the
// document. All other pages and content are preserved. Page count and
// stamp placement are deterministic for fixed inputs; the output bytes are
// not, because stamp resource names are randomly generated.
func (s *PDFStamper) Stamp(pdf, image []byte, x, y float64, caption string) ([]byte, error) {
	r, err := reader.NewPdfFileReaderFromBytes(pdf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedDocument, err)
	}
	if r.GetPageCount() == 0 {
		return nil, fmt.Errorf("%w: document has no pages", model.ErrMalformedDocument)
	}

	imgStamp, err := stamp.NewImageStamp(image, SignatureStampWidth, SignatureStampHeight, signatureImageStyle())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrUnsupportedImage, err)
	}

	w := writer.NewIncrementalPdfFileWriter(r)

	if err := applyImageStamp(w, imgStamp, 0, x, y); err != nil {
		return nil, fmt.Errorf("failed to apply signature stamp: %w", err)
	}

	capStamp := stamp.NewTextStamp([]string{caption}, captionStyle())
	if _, _, _, err := stamp.ApplyStamp(w, capStamp, 0, x, y-CaptionOffset, nil); err != nil {
		return nil, fmt.Errorf("failed to apply caption: %w", err)
	}

	var buf bytes.Buffer
	if err := w.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}
	return buf.Bytes(), nil
}

// applyImageStamp wires the image XObjects into the appearance form and
// stamps it onto the page.
func applyImageStamp(w *writer.IncrementalPdfFileWriter, imgStamp *stamp.ImageStamp, pageNum int, x, y float64) error {
	appearance, extraStreams, err := imgStamp.CreateAppearanceStream()
	if err != nil {
		return err
	}

	if len(extraStreams) > 0 {
		resources := appearance.Dictionary.GetDict("Resources")
		if resources == nil {
			resources = generic.NewDictionary()
			appearance.Dictionary.Set("Resources", resources)
		}
		xobjects := resources.GetDict("XObject")
		if xobjects == nil {
			xobjects = generic.NewDictionary()
			resources.Set("XObject", xobjects)
		}

		imageStream := extraStreams[0]
		if len(extraStreams) > 1 {
			alphaRef := w.AddObject(extraStreams[1])
			imageStream.Dictionary.Set("SMask", alphaRef)
		}
		imageRef := w.AddObject(imageStream)
		xobjects.Set("Im1", imageRef)
	}

	width, height := imgStamp.GetDimensions()
	stamper := &appearanceStamper{stream: appearance, width: width, height: height}
	_, _, _, err = stamp.ApplyStamp(w, stamper, pageNum, x, y, nil)
	return err
}

// appearanceStamper adapts a prebuilt appearance stream to the Stamper
// interface gopdf applies to pages.
type appearanceStamper struct {
	stream *generic.StreamObject
	width  float64
	height float64
}

func (a *appearanceStamper) CreateAppearanceStream() *generic.StreamObject {
	return a.stream
}

func (a *appearanceStamper) GetDimensions() (width, height float64) {
	return a.width, a.height
}

// signatureImageStyle stretches the raster to the fixed stamp size, no
// border, transparent background.
func signatureImageStyle() *stamp.ImageStampStyle {
	style := stamp.DefaultImageStampStyle()
	style.ScaleMode = stamp.ImageScaleStretch
	return style
}

// captionStyle draws the signer caption in small black text with no box
// around it.
func captionStyle() *stamp.StampStyle {
	return &stamp.StampStyle{
		BackgroundColor: color.RGBA{0, 0, 0, 0},
		BorderWidth:     0,
		TextColor:       color.RGBA{0, 0, 0, 255},
		FontSize:        CaptionFontSize,
		FontName:        "Helvetica",
		Padding:         0,
	}
}

// PageCount parses a PDF and returns its page count.
func PageCount(pdf []byte) (int, error) {
	r, err := reader.NewPdfFileReaderFromBytes(pdf)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrMalformedDocument, err)
	}
	return r.GetPageCount(), nil
}
