package policy

import (
	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// TerminalStatus selects the status the close operation drives tickets
// to: RESOLVED when present in the enumeration, CLOSED as fallback. A
// missing terminal status is an invariant violation, not user error.
func TerminalStatus() (domain.TicketStatus, error) {
	for _, s := range domain.TicketStatuses {
		if s == domain.TicketStatusResolved {
			return domain.TicketStatusResolved, nil
		}
	}
	for _, s := range domain.TicketStatuses {
		if s == domain.TicketStatusClosed {
			return domain.TicketStatusClosed, nil
		}
	}
	return "", apperrors.NewConfigurationError("no terminal status (RESOLVED/CLOSED) in status enumeration")
}
