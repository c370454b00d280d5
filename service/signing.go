package service

import (
	"context"
	"fmt"
	"time"

	"github.com/elayeboussama/University-Order-Management-System/model"
	"github.com/elayeboussama/University-Order-Management-System/pkg/logger"
	"github.com/elayeboussama/University-Order-Management-System/pkg/sigpad"
)

// SigningService coordinates one signing action: capture, PDF mutation,
// storage and record persistence, in a fixed order of fallible steps.
// There is no automatic compensation: a failure after the signature record
// was written leaves the record in place and the PDF URL unchanged, and the
// next full load presents that state as-is.
type SigningService struct {
	records   OrderRecords
	artifacts Artifacts
	stamper   Stamper
	now       func() time.Time
}

func NewSigningService(records OrderRecords, artifacts Artifacts, stamper Stamper) *SigningService {
	return &SigningService{
		records:   records,
		artifacts: artifacts,
		stamper:   stamper,
		now:       time.Now,
	}
}

// Sign applies one signer's pad to an order and returns the refreshed
// order aggregate list.
func (s *SigningService) Sign(ctx context.Context, orderID string, signer *model.Profile, pad *sigpad.Pad) ([]model.Order, error) {
	// Step 1: the order must already have a document to sign
	order, err := s.records.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PDFURL == "" {
		return nil, fmt.Errorf("%w: order %s", model.ErrMissingDocument, orderID)
	}

	// Step 2: rasterize the captured strokes
	if pad.IsEmpty() {
		return nil, model.ErrEmptySignature
	}
	image, err := pad.Export()
	if err != nil {
		return nil, err
	}

	// Step 3: placement follows the signer's role
	placement := model.PlacementFor(signer.Role)

	// Step 4: persist the signature record. From here on the signature
	// exists even if a later step fails.
	sig, err := s.records.RecordSignature(ctx, orderID, signer.ID, image)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "signature recorded",
		"order_id", orderID,
		"signature_id", sig.ID,
		"signer_role", signer.Role,
	)

	// Step 5: mutate the current PDF revision and store the result
	base, err := s.artifacts.Fetch(ctx, order.PDFURL)
	if err != nil {
		return nil, fmt.Errorf("fetching current PDF: %w", err)
	}

	caption := fmt.Sprintf("%s (%s)", signer.FullName, signer.Role)
	signed, err := s.stamper.Stamp(base, image, placement.X, placement.Y, caption)
	if err != nil {
		return nil, fmt.Errorf("stamping PDF: %w", err)
	}

	newURL, err := s.artifacts.Upload(ctx, SignedKey(s.now()), signed, "application/pdf", false)
	if err != nil {
		return nil, fmt.Errorf("uploading signed PDF: %w", err)
	}

	// Step 6: point the order at the new revision
	if err := s.records.UpdateOrderPDFURL(ctx, orderID, newURL); err != nil {
		return nil, fmt.Errorf("updating order PDF URL: %w", err)
	}

	logger.Info(ctx, "order PDF updated",
		"order_id", orderID,
		"pdf_url", newURL,
	)

	// Step 7: reload the aggregate so status reflects the new signature
	return s.records.LoadAll(ctx)
}
