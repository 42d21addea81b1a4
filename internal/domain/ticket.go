package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusNew      TicketStatus = "new"
	TicketStatusOpen     TicketStatus = "open"
	TicketStatusPending  TicketStatus = "pending"
	TicketStatusResolved TicketStatus = "resolved"
	TicketStatusClosed   TicketStatus = "closed"
)

// TicketStatuses lists every member of the status vocabulary in
// lifecycle order.
var TicketStatuses = []TicketStatus{
	TicketStatusNew,
	TicketStatusOpen,
	TicketStatusPending,
	TicketStatusResolved,
	TicketStatusClosed,
}

// Valid reports vocabulary membership.
func (s TicketStatus) Valid() bool {
	for _, known := range TicketStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// TicketPriorities lists every member of the priority vocabulary.
var TicketPriorities = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityMedium,
	TicketPriorityHigh,
	TicketPriorityUrgent,
}

// Valid reports vocabulary membership.
func (p TicketPriority) Valid() bool {
	for _, known := range TicketPriorities {
		if p == known {
			return true
		}
	}
	return false
}

// TicketChannel identifies the medium a ticket arrived through.
type TicketChannel string

const (
	ChannelWeb      TicketChannel = "web"
	ChannelEmail    TicketChannel = "email"
	ChannelPhone    TicketChannel = "phone"
	ChannelTelegram TicketChannel = "telegram"
	ChannelWhatsapp TicketChannel = "whatsapp"
	ChannelVK       TicketChannel = "vk"
)

// TicketChannels lists every member of the channel vocabulary.
var TicketChannels = []TicketChannel{
	ChannelWeb,
	ChannelEmail,
	ChannelPhone,
	ChannelTelegram,
	ChannelWhatsapp,
	ChannelVK,
}

// Valid reports vocabulary membership.
func (c TicketChannel) Valid() bool {
	for _, known := range TicketChannels {
		if c == known {
			return true
		}
	}
	return false
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          string
	Subject     string
	Description string
	Status      TicketStatus
	Priority    TicketPriority
	Channel     TicketChannel
	Tags        []string
	AssignedTo  *string
	ClientID    *string
	CompanyID   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ResolvedAt  *time.Time
	ClosedAt    *time.Time
}

// TicketStats aggregates ticket counts per status. Every vocabulary
// member has a field so the shape is stable regardless of population.
type TicketStats struct {
	Total    int `json:"total"`
	New      int `json:"new"`
	Open     int `json:"open"`
	Pending  int `json:"pending"`
	Resolved int `json:"resolved"`
	Closed   int `json:"closed"`
}

// Add increments the counter for the given status.
func (s *TicketStats) Add(status TicketStatus, n int) {
	s.Total += n
	switch status {
	case TicketStatusNew:
		s.New += n
	case TicketStatusOpen:
		s.Open += n
	case TicketStatusPending:
		s.Pending += n
	case TicketStatusResolved:
		s.Resolved += n
	case TicketStatusClosed:
		s.Closed += n
	}
}
