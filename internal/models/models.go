package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Event struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Title             string
	EndDt             time.Time
	HasPaymentFeature bool

	// Per-event counter backing friendly registration numbers.
	// Incremented atomically inside the creation transaction.
	LastFriendlyRegistrationID uint `gorm:"not null;default:0"`
}

type User struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Email     string `gorm:"uniqueIndex;not null"`
	FirstName string
	LastName  string
}

type RegistrationForm struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	EventID uint `gorm:"index;not null"`
	Event   Event

	Title             string
	ModerationEnabled bool
	ModificationMode  ModificationMode
	ModificationEndDt *time.Time

	PublishRegistrationsParticipants PublishMode
	PublishRegistrationsPublic       PublishMode
	// How long after event end registrations stay published; nil = forever.
	PublishRegistrationsDuration *time.Duration

	Currency  string          `gorm:"not null;default:''"`
	BasePrice decimal.Decimal `gorm:"type:numeric(11,2);not null;default:0"`

	TicketQR  bool
	IsDeleted bool `gorm:"not null;default:false"`

	Fields []FormField `gorm:"foreignKey:FormID"`
}

// FormField is the read-only field metadata the data entries hang off.
// Pricing/rendering config lives in Data, keyed by InputType.
type FormField struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	FormID uint `gorm:"index;not null"`

	Title            string
	InputType        string // text | textarea | email | phone | checkbox | choice | accompanying_persons | file
	Data             datatypes.JSON
	PersonalDataType string // empty unless the field maps to a personal-data slot (email, first_name, ...)
	IsActive         bool   `gorm:"not null;default:true"`
	IsDeleted        bool   `gorm:"not null;default:false"`
	IsManagerOnly    bool   `gorm:"not null;default:false"`
}

// Registration is somebody's registration for an event through a form.
type Registration struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Unguessable token for unauthenticated access links.
	UUID string `gorm:"uniqueIndex;not null"`
	// Separate token embedded in tickets, so access links and tickets
	// can be revoked independently.
	TicketUUID string `gorm:"uniqueIndex;not null"`
	// Human-friendly sequential number, scoped per event.
	FriendlyID uint `gorm:"not null"`

	EventID            uint `gorm:"index;not null"`
	Event              Event
	RegistrationFormID uint `gorm:"index;not null"`
	Form               RegistrationForm `gorm:"foreignKey:RegistrationFormID"`
	UserID             *uint            `gorm:"index"`
	User               *User
	TransactionID      *uint
	Transaction        *PaymentTransaction `gorm:"foreignKey:TransactionID"`
	Invitation         *Invitation         `gorm:"foreignKey:RegistrationID"`

	State RegistrationState `gorm:"index;not null;default:0"`

	BasePrice       decimal.Decimal `gorm:"type:numeric(11,2);not null;default:0"`
	PriceAdjustment decimal.Decimal `gorm:"type:numeric(11,2);not null;default:0"`
	Currency        string          `gorm:"not null;default:''"`

	SubmittedDt time.Time
	Email       string `gorm:"index;not null"` // always stored lower-case
	FirstName   string `gorm:"not null"`
	LastName    string `gorm:"not null"`

	IsDeleted bool `gorm:"not null;default:false"`

	// Use SetCheckedIn; CheckedInDt is non-nil iff CheckedIn was last set true.
	CheckedIn   bool `gorm:"not null;default:false"`
	CheckedInDt *time.Time

	RejectionReason string `gorm:"not null;default:''"`

	ConsentToPublish  Visibility `gorm:"not null;default:0"`
	ParticipantHidden bool       `gorm:"not null;default:false"`
	CreatedByManager  bool       `gorm:"not null;default:false"`

	ModificationEndDt *time.Time

	Data []RegistrationData `gorm:"foreignKey:RegistrationID;constraint:OnDelete:CASCADE"`
	Tags []RegistrationTag  `gorm:"many2many:registrations_tags;"`
}

// RegistrationData is the submitted value for one form field, with an
// optional stored file (at most one per entry).
type RegistrationData struct {
	RegistrationID uint `gorm:"primaryKey;autoIncrement:false"`
	FieldID        uint `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Field FormField `gorm:"foreignKey:FieldID"`

	Data datatypes.JSON

	Filename      string
	ContentType   string
	Size          int64
	StorageFileID string // backend-assigned path; empty = no file
}

type RegistrationTag struct {
	ID    uint `gorm:"primaryKey"`
	Title string

	Registrations []Registration `gorm:"many2many:registrations_tags;"`
}

type PaymentTransaction struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	RegistrationID uint `gorm:"index;not null"`
	Status         TransactionStatus
	Amount         decimal.Decimal `gorm:"type:numeric(11,2);not null;default:0"`
	Currency       string
	Timestamp      time.Time
}

// Invitation grants a registrant pre-approved entry; SkipModeration waives
// the form's moderation gate for the linked registration.
type Invitation struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	FormID         uint `gorm:"index;not null"`
	Email          string
	SkipModeration bool
	RegistrationID *uint `gorm:"index"`
}
