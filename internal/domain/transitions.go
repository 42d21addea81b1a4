package domain

// TransitionTable restricts which status transitions are legal. A nil
// or empty table permits every transition, which matches current
// product behavior; tightening the workflow later is a configuration
// change, not a code change.
type TransitionTable map[TicketStatus][]TicketStatus

// Allowed reports whether moving from one status to another is legal
// under the table. Same-status writes are always allowed.
func (t TransitionTable) Allowed(from, to TicketStatus) bool {
	if from == to {
		return true
	}
	if len(t) == 0 {
		return true
	}
	for _, candidate := range t[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// StrictTransitions is an opt-in table that forces resolved tickets
// through an explicit reopen and makes closed a terminal state except
// for reopening.
func StrictTransitions() TransitionTable {
	return TransitionTable{
		TicketStatusNew:      {TicketStatusOpen, TicketStatusPending, TicketStatusClosed},
		TicketStatusOpen:     {TicketStatusPending, TicketStatusResolved, TicketStatusClosed},
		TicketStatusPending:  {TicketStatusOpen, TicketStatusResolved, TicketStatusClosed},
		TicketStatusResolved: {TicketStatusClosed, TicketStatusOpen},
		TicketStatusClosed:   {TicketStatusOpen},
	}
}
