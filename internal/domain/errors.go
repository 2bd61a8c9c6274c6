package domain

import "errors"

var (
	// ErrPatentNotFound signals a missing patent record.
	ErrPatentNotFound = errors.New("patent not found")
	// ErrInvalidQuery signals a malformed similarity query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrFetchFailed signals a network or parse failure while scraping a patent page.
	ErrFetchFailed = errors.New("patent fetch failed")
	// ErrEncoderUnavailable signals an embedding provider failure.
	ErrEncoderUnavailable = errors.New("encoder unavailable")
	// ErrEncoderMismatch signals that the encoder returned a different number of vectors than inputs.
	ErrEncoderMismatch = errors.New("encoder returned mismatched vector count")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
)
