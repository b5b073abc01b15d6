package organizationerrors

import (
	"go-userhub/internal/shared/apperror"
	"net/http"
)

var (
	ErrOrganizationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Organization not found",
		http.StatusNotFound,
	)

	ErrOrganizationAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Organization with the same email already exists",
		http.StatusConflict,
	)

	ErrInvalidOrganizationID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid organization ID",
		http.StatusBadRequest,
	)

	ErrOrganizationInactive = apperror.New(
		apperror.CodeInvalidState,
		"Organization is inactive",
		http.StatusUnprocessableEntity,
	)

	ErrLocationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Office location not found",
		http.StatusNotFound,
	)

	ErrMissingRequiredFields = apperror.New(
		apperror.CodeInvalidInput,
		"Missing required fields",
		http.StatusBadRequest,
	)
)
