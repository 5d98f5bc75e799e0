package domain

// PollState represents the lifecycle state of a poll.
// Polls start active and are archived by the sweeper once expired;
// archived is terminal.
type PollState string

const (
	PollStateActive   PollState = "active"
	PollStateArchived PollState = "archived"
)

func (s PollState) String() string { return string(s) }

func (s PollState) IsValid() bool {
	switch s {
	case PollStateActive, PollStateArchived:
		return true
	}
	return false
}

// VoteChoice is one of the two mutually exclusive poll answers:
// the claim is true, or it is an urban legend.
type VoteChoice string

const (
	VoteChoiceTrue   VoteChoice = "true"
	VoteChoiceLegend VoteChoice = "legend"
)

func (c VoteChoice) String() string { return string(c) }

func (c VoteChoice) IsValid() bool {
	switch c {
	case VoteChoiceTrue, VoteChoiceLegend:
		return true
	}
	return false
}

// PollStatusFilter selects a projection in list queries.
type PollStatusFilter string

const (
	PollStatusActive   PollStatusFilter = "active"
	PollStatusArchived PollStatusFilter = "archived"
)

func (f PollStatusFilter) IsValid() bool {
	return f == PollStatusActive || f == PollStatusArchived
}
