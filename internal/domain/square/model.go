package square

import (
	"fmt"
	"time"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
)

// Square is one claimed cell of a board's 10x10 grid. GridPosition and the
// digit labels stay nil until the owning board's assignment runs, then never
// change. ClaimOrder is display/audit only and plays no part in assignment
// fairness.
type Square struct {
	ID                string
	BoardID           string
	OwnerID           string
	OwnerName         string
	PaymentStatus     PaymentStatus
	ClaimOrder        int
	GridPosition      *int
	WinningTeamNumber *int
	LosingTeamNumber  *int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (s Square) Assigned() bool {
	return s.GridPosition != nil && s.WinningTeamNumber != nil && s.LosingTeamNumber != nil
}

func (s Square) ValidateBasic() error {
	if s.ID == "" {
		return fmt.Errorf("square id is required")
	}
	if s.BoardID == "" {
		return fmt.Errorf("board id is required")
	}
	if s.OwnerID == "" {
		return fmt.Errorf("owner id is required")
	}
	switch s.PaymentStatus {
	case PaymentPending, PaymentPaid:
	default:
		return fmt.Errorf("unknown payment status %q", s.PaymentStatus)
	}
	return nil
}

// Assignment is one square's computed grid binding, applied as a unit with
// the rest of the board's assignments.
type Assignment struct {
	SquareID          string
	GridPosition      int
	WinningTeamNumber int
	LosingTeamNumber  int
}
