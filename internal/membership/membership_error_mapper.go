package membership

import (
	"errors"
	"strings"

	membershiperrors "go-userhub/internal/membership/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return membershiperrors.ErrMemberNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return membershiperrors.ErrAlreadyMember
	}
	if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
		return membershiperrors.ErrAlreadyMember
	}

	return err
}
