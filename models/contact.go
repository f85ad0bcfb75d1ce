package models

import "time"

// Contact types recognized by the API. The database enforces the same set
// via a CHECK constraint.
const (
	ContactTypeWork     = "work"
	ContactTypeHome     = "home"
	ContactTypePersonal = "personal"
)

// ValidContactType reports whether t is one of the recognized contact types.
func ValidContactType(t string) bool {
	switch t {
	case ContactTypeWork, ContactTypeHome, ContactTypePersonal:
		return true
	default:
		return false
	}
}

// Contact is a phone-book entry owned by exactly one user. Every read and
// write is scoped by UserID so that records of other users are
// indistinguishable from absent ones.
type Contact struct {
	// ContactID is the internal unique identifier of the contact.
	ContactID int64 `json:"id"`

	// UserID is the owning user. Not exposed: ownership is implied by the
	// authenticated session.
	UserID int64 `json:"-"`

	// Name is the contact's display name.
	Name string `json:"name"`

	// Phone is the contact's phone number.
	Phone string `json:"phoneNumber"`

	// Email is the contact's email address, possibly empty.
	Email string `json:"email,omitempty"`

	// IsFavourite marks the contact as a favourite.
	IsFavourite bool `json:"isFavourite"`

	// ContactType is one of work, home, personal.
	ContactType string `json:"contactType"`

	// Photo is the resolved URL of the contact's photo, nil when none was
	// uploaded.
	Photo *string `json:"photo"`

	// CreatedAt is the timestamp when the contact was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is the timestamp of the last modification.
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the name of the database table
// associated with the Contact model.
func (c Contact) TableName() string {
	return "contacts"
}

// ContactUpdate describes a partial modification of a contact. Nil fields
// are left unchanged by the store.
type ContactUpdate struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phoneNumber"`
	Email       *string `json:"email"`
	IsFavourite *bool   `json:"isFavourite"`
	ContactType *string `json:"contactType"`

	// Photo is set by the handler after a successful upload, never taken
	// from the request body directly.
	Photo *string `json:"-"`
}

// Empty reports whether the update carries no field changes at all.
func (u ContactUpdate) Empty() bool {
	return u.Name == nil && u.Phone == nil && u.Email == nil &&
		u.IsFavourite == nil && u.ContactType == nil && u.Photo == nil
}
