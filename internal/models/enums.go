package models

// RegistrationState is the lifecycle state of a registration. The zero value
// means "not yet assigned"; SyncState picks the initial state on creation.
type RegistrationState int

const (
	StateNone      RegistrationState = 0
	StateComplete  RegistrationState = 1
	StatePending   RegistrationState = 2
	StateRejected  RegistrationState = 3
	StateWithdrawn RegistrationState = 4
	StateUnpaid    RegistrationState = 5
)

func (s RegistrationState) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateComplete:
		return "complete"
	case StatePending:
		return "pending"
	case StateRejected:
		return "rejected"
	case StateWithdrawn:
		return "withdrawn"
	case StateUnpaid:
		return "unpaid"
	}
	return "unknown"
}

// PublishMode is a form-level policy for exposing registrations to a viewer
// class (participants or the general public).
type PublishMode int

const (
	PublishHideAll         PublishMode = 0
	PublishShowWithConsent PublishMode = 1
	PublishShowAll         PublishMode = 2
)

func (m PublishMode) String() string {
	switch m {
	case PublishHideAll:
		return "hide_all"
	case PublishShowWithConsent:
		return "show_with_consent"
	case PublishShowAll:
		return "show_all"
	}
	return "unknown"
}

// Visibility is who may see a registration. The ordering matters:
// nobody < participants < all, and the resolver takes min/max over it.
type Visibility int

const (
	VisibilityNobody       Visibility = 0
	VisibilityParticipants Visibility = 1
	VisibilityAll          Visibility = 2
)

func (v Visibility) String() string {
	switch v {
	case VisibilityNobody:
		return "nobody"
	case VisibilityParticipants:
		return "participants"
	case VisibilityAll:
		return "all"
	}
	return "unknown"
}

func MinVisibility(a, b Visibility) Visibility {
	if a < b {
		return a
	}
	return b
}

func MaxVisibility(a, b Visibility) Visibility {
	if a > b {
		return a
	}
	return b
}

// ModificationMode controls self-service edits after submission.
type ModificationMode int

const (
	ModificationAllowed      ModificationMode = 0
	ModificationUntilPayment ModificationMode = 1
	ModificationNotAllowed   ModificationMode = 2
)

// TransactionStatus is the state of a payment transaction.
type TransactionStatus int

const (
	TxPending    TransactionStatus = 1
	TxSuccessful TransactionStatus = 2
	TxFailed     TransactionStatus = 3
	TxCancelled  TransactionStatus = 4
)
