package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-contact-keeper/internal/adapter"
	"github.com/MKhiriev/go-contact-keeper/internal/logger"
	"github.com/MKhiriev/go-contact-keeper/internal/store"
	"github.com/MKhiriev/go-contact-keeper/models"
)

// contactService is the concrete implementation of ContactService. It scopes
// every repository call by the authenticated user and stores uploaded photos
// through the configured PhotoStore before persisting the record.
type contactService struct {
	// contactRepository is the data-access layer for contact records.
	contactRepository store.ContactRepository

	// photoStore resolves uploaded photo bytes to a servable URL.
	photoStore adapter.PhotoStore

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewContactService constructs a new ContactService wired to the given
// repository and photo store.
func NewContactService(contactRepository store.ContactRepository, photoStore adapter.PhotoStore, logger *logger.Logger) ContactService {
	return &contactService{
		contactRepository: contactRepository,
		photoStore:        photoStore,
		logger:            logger,
	}
}

// ListContacts returns one page of the user's contacts per the descriptor,
// wrapped with pagination metadata computed from the total row count.
func (c *contactService) ListContacts(ctx context.Context, userID int64, q models.QueryDescriptor) (models.ContactPage, error) {
	log := logger.FromContext(ctx)

	contacts, total, err := c.contactRepository.ListContacts(ctx, userID, q)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("contact listing ended with error")
		return models.ContactPage{}, fmt.Errorf("contact listing ended with error: %w", err)
	}

	return models.NewContactPage(contacts, total, q), nil
}

// GetContact returns the contact owned by userID. A contact owned by someone
// else surfaces as a wrapped store.ErrContactNotFound.
func (c *contactService) GetContact(ctx context.Context, contactID, userID int64) (models.Contact, error) {
	log := logger.FromContext(ctx)

	contact, err := c.contactRepository.GetContactByID(ctx, contactID, userID)
	if err != nil {
		log.Err(err).Int64("contact_id", contactID).Msg("contact search ended with error")
		return models.Contact{}, fmt.Errorf("contact search ended with error: %w", err)
	}

	return contact, nil
}

// CreateContact validates the request, stores the optional photo, and
// persists a new contact owned by userID.
//
// Returns the persisted contact (with server-assigned fields) or:
//   - ErrInvalidDataProvided if name or phone is empty, or the contact type
//     is not one of the recognized values. An empty type defaults to
//     personal.
//   - A wrapped adapter.ErrStoringPhoto if the photo upload fails; nothing
//     is persisted in that case.
func (c *contactService) CreateContact(ctx context.Context, userID int64, request models.CreateContactRequest, photo *adapter.PhotoUpload) (models.Contact, error) {
	log := logger.FromContext(ctx)

	if request.Name == "" || request.Phone == "" {
		log.Error().Int64("user_id", userID).Msg("invalid contact data provided")
		return models.Contact{}, ErrInvalidDataProvided
	}

	contactType := request.ContactType
	if contactType == "" {
		contactType = models.ContactTypePersonal
	}
	if !models.ValidContactType(contactType) {
		log.Error().Str("contact_type", contactType).Msg("unknown contact type")
		return models.Contact{}, fmt.Errorf("%w: unknown contact type %q", ErrInvalidDataProvided, contactType)
	}

	contact := models.Contact{
		UserID:      userID,
		Name:        request.Name,
		Phone:       request.Phone,
		Email:       request.Email,
		IsFavourite: request.IsFavourite,
		ContactType: contactType,
	}

	if photo != nil {
		photoURL, err := c.photoStore.Store(ctx, *photo)
		if err != nil {
			log.Err(err).Int64("user_id", userID).Msg("photo upload ended with error")
			return models.Contact{}, fmt.Errorf("photo upload ended with error: %w", err)
		}
		contact.Photo = &photoURL
	}

	createdContact, err := c.contactRepository.CreateContact(ctx, contact)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("contact creation ended with error")
		return models.Contact{}, fmt.Errorf("contact creation ended with error: %w", err)
	}

	return createdContact, nil
}

// UpdateContact applies the non-nil fields of update to the contact owned by
// userID, storing a replacement photo first when one was uploaded. An update
// carrying no changes returns the current record untouched.
//
// Returns the updated contact or:
//   - ErrInvalidDataProvided if a supplied field is empty or the contact
//     type is not recognized.
//   - A wrapped store.ErrContactNotFound if the contact does not exist or is
//     owned by someone else.
func (c *contactService) UpdateContact(ctx context.Context, contactID, userID int64, update models.ContactUpdate, photo *adapter.PhotoUpload) (models.Contact, error) {
	log := logger.FromContext(ctx)

	if err := validateContactUpdate(update); err != nil {
		log.Err(err).Int64("contact_id", contactID).Msg("invalid contact update provided")
		return models.Contact{}, err
	}

	if photo != nil {
		photoURL, err := c.photoStore.Store(ctx, *photo)
		if err != nil {
			log.Err(err).Int64("contact_id", contactID).Msg("photo upload ended with error")
			return models.Contact{}, fmt.Errorf("photo upload ended with error: %w", err)
		}
		update.Photo = &photoURL
	}

	updatedContact, err := c.contactRepository.UpdateContact(ctx, contactID, userID, update)
	if err != nil {
		log.Err(err).Int64("contact_id", contactID).Msg("contact update ended with error")
		return models.Contact{}, fmt.Errorf("contact update ended with error: %w", err)
	}

	return updatedContact, nil
}

// DeleteContact removes the contact owned by userID and returns the removed
// record.
func (c *contactService) DeleteContact(ctx context.Context, contactID, userID int64) (models.Contact, error) {
	log := logger.FromContext(ctx)

	deletedContact, err := c.contactRepository.DeleteContact(ctx, contactID, userID)
	if err != nil {
		log.Err(err).Int64("contact_id", contactID).Msg("contact removal ended with error")
		return models.Contact{}, fmt.Errorf("contact removal ended with error: %w", err)
	}

	return deletedContact, nil
}

// validateContactUpdate rejects updates that would blank a required field or
// set an unknown contact type.
func validateContactUpdate(update models.ContactUpdate) error {
	if update.Name != nil && *update.Name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidDataProvided)
	}
	if update.Phone != nil && *update.Phone == "" {
		return fmt.Errorf("%w: phone number cannot be empty", ErrInvalidDataProvided)
	}
	if update.ContactType != nil && !models.ValidContactType(*update.ContactType) {
		return fmt.Errorf("%w: unknown contact type %q", ErrInvalidDataProvided, *update.ContactType)
	}

	return nil
}
