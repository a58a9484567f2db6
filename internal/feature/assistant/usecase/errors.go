// Package usecase implements the AI assistant operations over tenders.
package usecase

import (
	"errors"
	"fmt"

	"tender_backend/internal/platform/apperr"
)

var (
	ErrTenderTextRequired       = apperr.New(apperr.KindValidation, "tenderText is required")
	ErrTenderTitleRequired      = apperr.New(apperr.KindValidation, "tenderTitle is required")
	ErrAuthorizedPersonRequired = apperr.New(apperr.KindValidation, "authorizedPerson is required")
	ErrQuestionRequired         = apperr.New(apperr.KindValidation, "question is required")
	ErrTenderIDRequired         = apperr.New(apperr.KindValidation, "tenderId is required")

	ErrTenderTextTooLong = apperr.New(apperr.KindValidation,
		fmt.Sprintf("tenderText exceeds %d characters", MaxInputRunes))
	ErrQuestionTooLong = apperr.New(apperr.KindValidation,
		fmt.Sprintf("question exceeds %d characters", MaxQuestionRunes))
)

var errEmptyResponse = errors.New("empty model response")

// upstreamError is returned for any failed model call.
func upstreamError(operation string, err error) error {
	return apperr.Wrap(apperr.KindUpstream, "could not generate "+operation, err)
}
