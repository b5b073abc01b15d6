package membershiperrors

import (
	"go-userhub/internal/shared/apperror"
	"net/http"
)

var (
	ErrMemberNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found in this organization",
		http.StatusNotFound,
	)

	ErrManagerNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"Manager not found",
		http.StatusUnprocessableEntity,
	)

	ErrCrossOrganizationManager = apperror.New(
		apperror.CodeInvalidInput,
		"Manager must be in the same organization",
		http.StatusUnprocessableEntity,
	)

	ErrSelfReport = apperror.New(
		apperror.CodeInvalidInput,
		"User cannot report to themselves",
		http.StatusUnprocessableEntity,
	)

	ErrCircularReporting = apperror.New(
		apperror.CodeInvalidInput,
		"Change would create a circular reporting structure",
		http.StatusUnprocessableEntity,
	)

	ErrOrganizationLimitReached = apperror.New(
		apperror.CodeCapacityReached,
		"Organization has reached its user limit",
		http.StatusUnprocessableEntity,
	)

	ErrCannotRemoveOwner = apperror.New(
		apperror.CodeInvalidState,
		"Cannot remove organization owner",
		http.StatusUnprocessableEntity,
	)

	ErrAlreadyMember = apperror.New(
		apperror.CodeConflict,
		"User is already a member of an organization",
		http.StatusConflict,
	)

	ErrNotAMember = apperror.New(
		apperror.CodeInvalidState,
		"User is not a member of this organization",
		http.StatusUnprocessableEntity,
	)
)
