package transfer

type State string

const (
	StateDrafting             State = "drafting"
	StateReviewing            State = "reviewing"
	StateAwaitingVerification State = "awaiting_verification"
	StateCommitted            State = "committed"
	StateCancelled            State = "cancelled"
	StateFailed               State = "failed"
)

func (s State) Terminal() bool {
	return s == StateCommitted || s == StateCancelled
}

func (s State) in(states ...State) bool {
	for _, candidate := range states {
		if s == candidate {
			return true
		}
	}
	return false
}
