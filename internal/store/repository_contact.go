package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-contact-keeper/internal/logger"
	"github.com/MKhiriev/go-contact-keeper/models"
)

// contactRepository is the PostgreSQL-backed implementation of
// [ContactRepository]. It executes all contact CRUD operations against the
// "contacts" table using the embedded [*DB] connection.
//
// Every statement carries the owning user_id in its WHERE clause, so a
// contact belonging to another user is indistinguishable from a missing
// one.
type contactRepository struct {
	*DB
	logger *logger.Logger
}

// NewContactRepository constructs a [ContactRepository] backed by the
// provided database connection and logger.
func NewContactRepository(db *DB, logger *logger.Logger) ContactRepository {
	logger.Debug().Msg("creating contact repository")
	return &contactRepository{
		DB:     db,
		logger: logger,
	}
}

// ListContacts returns one page of the user's contacts per the descriptor
// plus the total number of rows matching the same filter.
//
// The page SELECT and the COUNT are built by [buildListContactsQuery] and
// [buildCountContactsQuery] from the same filter conjunction, so the
// pagination metadata always agrees with the page contents.
func (r *contactRepository) ListContacts(ctx context.Context, userID int64, q models.QueryDescriptor) ([]models.Contact, int64, error) {
	log := logger.FromContext(ctx)

	listQuery, listArgs, err := buildListContactsQuery(userID, q)
	if err != nil {
		log.Err(err).
			Str("func", "contactRepository.ListContacts").
			Int64("user_id", userID).
			Msg("failed to build list query")
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		log.Err(err).
			Str("func", "contactRepository.ListContacts").
			Int64("user_id", userID).
			Msg("failed to execute query for listing contacts")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	contacts := make([]models.Contact, 0, q.PerPage)

	for rows.Next() {
		var contact models.Contact

		scanErr := rows.Scan(
			&contact.ContactID,
			&contact.UserID,
			&contact.Name,
			&contact.Phone,
			&contact.Email,
			&contact.IsFavourite,
			&contact.ContactType,
			&contact.Photo,
			&contact.CreatedAt,
			&contact.UpdatedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "contactRepository.ListContacts").
				Int64("user_id", userID).
				Msg("failed to scan contact row")
			return nil, 0, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		contacts = append(contacts, contact)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "contactRepository.ListContacts").
			Int64("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, 0, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	countQuery, countArgs, err := buildCountContactsQuery(userID, q.Filter)
	if err != nil {
		log.Err(err).
			Str("func", "contactRepository.ListContacts").
			Int64("user_id", userID).
			Msg("failed to build count query")
		return nil, 0, err
	}

	var total int64
	if err = r.DB.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		log.Err(err).
			Str("func", "contactRepository.ListContacts").
			Int64("user_id", userID).
			Msg("failed to count contacts")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return contacts, total, nil
}

// GetContactByID retrieves a single contact owned by userID.
func (r *contactRepository) GetContactByID(ctx context.Context, contactID, userID int64) (models.Contact, error) {
	log := logger.FromContext(ctx)

	var contact models.Contact
	row := r.DB.QueryRowContext(ctx, getContactByID, contactID, userID)

	if err := scanContact(row, &contact); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Contact{}, ErrContactNotFound
		}

		log.Err(err).
			Str("func", "contactRepository.GetContactByID").
			Int64("contact_id", contactID).
			Int64("user_id", userID).
			Msg("failed to scan contact row")
		return models.Contact{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return contact, nil
}

// CreateContact inserts a new contact and returns the fully populated row
// with server-assigned fields (ContactID, CreatedAt, UpdatedAt).
func (r *contactRepository) CreateContact(ctx context.Context, contact models.Contact) (models.Contact, error) {
	log := logger.FromContext(ctx)

	row := r.DB.QueryRowContext(ctx, createContact,
		contact.UserID,
		contact.Name,
		contact.Phone,
		contact.Email,
		contact.IsFavourite,
		contact.ContactType,
		contact.Photo,
	)

	var saved models.Contact
	if err := scanContact(row, &saved); err != nil {
		log.Err(err).
			Str("func", "contactRepository.CreateContact").
			Int64("user_id", contact.UserID).
			Msg("failed to save contact")
		return models.Contact{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return saved, nil
}

// UpdateContact applies the non-nil fields of update to the contact owned
// by userID and returns the updated row.
//
// The UPDATE is built dynamically by [buildUpdateContactQuery]; a zero-row
// result — absent record or ownership mismatch — is reported as
// [ErrContactNotFound]. An empty update degenerates to a GetContactByID so
// the caller still receives the current row.
func (r *contactRepository) UpdateContact(ctx context.Context, contactID, userID int64, update models.ContactUpdate) (models.Contact, error) {
	log := logger.FromContext(ctx)

	if update.Empty() {
		return r.GetContactByID(ctx, contactID, userID)
	}

	query, args, err := buildUpdateContactQuery(contactID, userID, update)
	if err != nil {
		log.Err(err).
			Str("func", "contactRepository.UpdateContact").
			Int64("contact_id", contactID).
			Msg("failed to build update query")
		return models.Contact{}, err
	}

	var updated models.Contact
	row := r.DB.QueryRowContext(ctx, query, args...)

	if err = scanContact(row, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Warn().
				Str("func", "contactRepository.UpdateContact").
				Int64("contact_id", contactID).
				Int64("user_id", userID).
				Msg("contact not found")
			return models.Contact{}, ErrContactNotFound
		}

		log.Err(err).
			Str("func", "contactRepository.UpdateContact").
			Int64("contact_id", contactID).
			Msg("failed to execute update query")
		return models.Contact{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return updated, nil
}

// DeleteContact removes the contact owned by userID and returns the
// removed row.
func (r *contactRepository) DeleteContact(ctx context.Context, contactID, userID int64) (models.Contact, error) {
	log := logger.FromContext(ctx)

	var removed models.Contact
	row := r.DB.QueryRowContext(ctx, deleteContact, contactID, userID)

	if err := scanContact(row, &removed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Contact{}, ErrContactNotFound
		}

		log.Err(err).
			Str("func", "contactRepository.DeleteContact").
			Int64("contact_id", contactID).
			Int64("user_id", userID).
			Msg("failed to delete contact")
		return models.Contact{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return removed, nil
}

// scanContact scans one contact row in canonical column order.
func scanContact(row *sql.Row, contact *models.Contact) error {
	return row.Scan(
		&contact.ContactID,
		&contact.UserID,
		&contact.Name,
		&contact.Phone,
		&contact.Email,
		&contact.IsFavourite,
		&contact.ContactType,
		&contact.Photo,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)
}
