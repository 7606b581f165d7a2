package closing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
)

// PeriodChecker reports whether a statement exists for exact period bounds.
type PeriodChecker interface {
	StatementExists(ctx context.Context, accountID uuid.UUID, periodStart, periodEnd time.Time) (bool, error)
}

// GuardPeriod fails with *apperr.DuplicatePeriodError when the account already
// has a statement for [periodStart, periodEnd]. It must be called with the
// account lock held; the unique index on the statement period key backs it up
// if it is not.
//
// Only exact bounds match. Overlapping periods are not rejected.
func GuardPeriod(ctx context.Context, c PeriodChecker, accountID uuid.UUID, periodStart, periodEnd time.Time) error {
	exists, err := c.StatementExists(ctx, accountID, periodStart, periodEnd)
	if err != nil {
		return persistence("check duplicate period", err)
	}

	if exists {
		return &apperr.DuplicatePeriodError{AccountID: accountID, PeriodStart: periodStart, PeriodEnd: periodEnd}
	}

	return nil
}
