package model

import "errors"

// Error taxonomy for the signing pipeline. Every pipeline stage either
// completes fully or fails with one of these; callers match with errors.Is.
var (
	// ErrEmptySignature is returned when a signature pad holds no strokes.
	ErrEmptySignature = errors.New("signature pad is empty")

	// ErrMissingDocument is returned when an order has no PDF to sign.
	ErrMissingDocument = errors.New("order has no document")

	// ErrMalformedDocument is returned when bytes cannot be parsed as a PDF.
	ErrMalformedDocument = errors.New("malformed PDF document")

	// ErrUnsupportedImage is returned when a raster payload cannot be
	// decoded as an embeddable image.
	ErrUnsupportedImage = errors.New("unsupported signature image format")

	// ErrKeyConflict is returned when an upload would overwrite an existing
	// object and upsert was not requested.
	ErrKeyConflict = errors.New("storage key already exists")

	// ErrArtifactNotFound is returned when no object exists at a URL.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrTransientIO is returned on storage network failures. Safe to retry.
	ErrTransientIO = errors.New("transient storage error")

	// ErrOrderNotFound is returned for unknown order ids.
	ErrOrderNotFound = errors.New("order not found")

	// ErrDuplicateSignature is returned when a signer already has a
	// signature on the order.
	ErrDuplicateSignature = errors.New("signer already signed this order")
)
