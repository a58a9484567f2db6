// Package usecase implements tender submission and reads.
package usecase

import "tender_backend/internal/platform/apperr"

var (
	// ErrTenderNotFound is returned when no tender has the requested id.
	ErrTenderNotFound = apperr.New(apperr.KindNotFound, "tender not found")

	ErrInvalidDeadline     = apperr.New(apperr.KindValidation, "deadline must be a date in YYYY-MM-DD format")
	ErrInvalidContactEmail = apperr.New(apperr.KindValidation, "contactPersonEmail must be a valid email address")
	ErrUnsupportedDocument = apperr.New(apperr.KindValidation, "document must be a .pdf or .txt file")
	ErrDocumentTooLarge    = apperr.New(apperr.KindValidation, "document exceeds the 20 MiB limit")
	ErrUnsupportedImage    = apperr.New(apperr.KindValidation, "advertisementImage must be a .png, .jpg, .jpeg or .webp file")
	ErrImageTooLarge       = apperr.New(apperr.KindValidation, "advertisementImage exceeds the 5 MiB limit")
	ErrInvalidPagination   = apperr.New(apperr.KindValidation, "limit and offset must not be negative")
)

// extractionWarning is reported to the client when a tender was stored without text.
const extractionWarning = "document text could not be extracted; AI tools will use the title and description"

func requiredField(name string) error {
	return apperr.New(apperr.KindValidation, name+" is required")
}
