package stock

import "errors"

var (
	// ErrBoxNotFound means no box carries the requested label.
	ErrBoxNotFound = errors.New("box not found")

	// ErrQrCodeNotFound means a scan code has no mapping. Callers treat
	// absence of an *optional* code as "no linked scan code", not as an
	// error; a dangling code on creation is one.
	ErrQrCodeNotFound = errors.New("qr code not found")

	// ErrQrCodeInUse means another box already links the scan code.
	ErrQrCodeInUse = errors.New("qr code already assigned to a box")

	// ErrInvalidReference means a product/location/size reference points
	// at a row that does not exist. Writes with dangling references are
	// rejected before anything is persisted.
	ErrInvalidReference = errors.New("referenced entity does not exist")
)
