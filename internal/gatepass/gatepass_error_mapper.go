package gatepass

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	gatepasserrors "go-gatepass/internal/gatepass/errors"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return gatepasserrors.ErrGatePassNotFound
	}

	// Pass numbers come from an atomic counter, so a collision here means the
	// counter table was reset underneath a live deployment.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_gatepass_number" {
			return gatepasserrors.ErrDecisionConflict
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_gatepass_number") {
		return gatepasserrors.ErrDecisionConflict
	}

	return err
}
