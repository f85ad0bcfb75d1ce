package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-contact-keeper/models"
)

const (
	createUser = `INSERT INTO users (email, name, password)
    VALUES ($1, $2, $3)
    RETURNING user_id, email, name, password, created_at, updated_at;`

	findUserByEmail = `SELECT user_id, email, name, password, created_at, updated_at
    FROM users
    WHERE email = $1;`

	findUserByIDAndEmail = `SELECT user_id, email, name, password, created_at, updated_at
    FROM users
    WHERE user_id = $1 AND email = $2;`

	updateUserPassword = `UPDATE users
    SET password = $2, updated_at = NOW()
    WHERE user_id = $1;`

	createSession = `INSERT INTO sessions (
			user_id,
			access_token,
			refresh_token,
			access_token_valid_until,
			refresh_token_valid_until
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING session_id;`

	findSessionByAccessToken = `SELECT session_id, user_id, access_token, refresh_token, access_token_valid_until, refresh_token_valid_until
		FROM sessions
		WHERE access_token = $1;`

	findSessionByIDAndToken = `SELECT session_id, user_id, access_token, refresh_token, access_token_valid_until, refresh_token_valid_until
		FROM sessions
		WHERE session_id = $1 AND refresh_token = $2;`

	deleteSessionByIDAndToken = `DELETE FROM sessions
		WHERE session_id = $1 AND refresh_token = $2;`

	deleteSessionByID = `DELETE FROM sessions
		WHERE session_id = $1;`

	deleteSessionsByUser = `DELETE FROM sessions
		WHERE user_id = $1;`

	createContact = `INSERT INTO contacts (user_id, name, phone, email, is_favourite, contact_type, photo)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING contact_id, user_id, name, phone, email, is_favourite, contact_type, photo, created_at, updated_at;`

	getContactByID = `SELECT contact_id, user_id, name, phone, email, is_favourite, contact_type, photo, created_at, updated_at
		FROM contacts
		WHERE contact_id = $1 AND user_id = $2;`

	deleteContact = `DELETE FROM contacts
		WHERE contact_id = $1 AND user_id = $2
		RETURNING contact_id, user_id, name, phone, email, is_favourite, contact_type, photo, created_at, updated_at;`
)

// contactColumns is the canonical column list of the contacts table, in
// scan order.
var contactColumns = []string{
	"contact_id",
	"user_id",
	"name",
	"phone",
	"email",
	"is_favourite",
	"contact_type",
	"photo",
	"created_at",
	"updated_at",
}

// psql builds queries with PostgreSQL-style $N placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// contactFilterConjunction translates the typed filter predicates into
// squirrel WHERE conjuncts. Ownership scoping is always the first conjunct.
func contactFilterConjunction(userID int64, filter models.ContactFilter) sq.And {
	conj := sq.And{sq.Eq{"user_id": userID}}

	if filter.ContactType != nil {
		conj = append(conj, sq.Eq{"contact_type": *filter.ContactType})
	}
	if filter.IsFavourite != nil {
		conj = append(conj, sq.Eq{"is_favourite": *filter.IsFavourite})
	}

	return conj
}

// buildListContactsQuery builds the paginated, sorted, filtered SELECT for
// one page of a user's contacts.
func buildListContactsQuery(userID int64, q models.QueryDescriptor) (string, []any, error) {
	query, args, err := psql.
		Select(contactColumns...).
		From("contacts").
		Where(contactFilterConjunction(userID, q.Filter)).
		OrderBy(fmt.Sprintf("%s %s", q.SortBy, q.SortOrder)).
		Limit(uint64(q.PerPage)).
		Offset(uint64(q.Offset())).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildCountContactsQuery builds the COUNT matching the same filter as
// buildListContactsQuery, without pagination.
func buildCountContactsQuery(userID int64, filter models.ContactFilter) (string, []any, error) {
	query, args, err := psql.
		Select("COUNT(*)").
		From("contacts").
		Where(contactFilterConjunction(userID, filter)).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildUpdateContactQuery builds the dynamic UPDATE applying only the
// non-nil fields of update, scoped by (contact_id, user_id), returning the
// full updated row.
func buildUpdateContactQuery(contactID, userID int64, update models.ContactUpdate) (string, []any, error) {
	builder := psql.
		Update("contacts").
		Set("updated_at", sq.Expr("NOW()"))

	if update.Name != nil {
		builder = builder.Set("name", *update.Name)
	}
	if update.Phone != nil {
		builder = builder.Set("phone", *update.Phone)
	}
	if update.Email != nil {
		builder = builder.Set("email", *update.Email)
	}
	if update.IsFavourite != nil {
		builder = builder.Set("is_favourite", *update.IsFavourite)
	}
	if update.ContactType != nil {
		builder = builder.Set("contact_type", *update.ContactType)
	}
	if update.Photo != nil {
		builder = builder.Set("photo", *update.Photo)
	}

	query, args, err := builder.
		Where(sq.Eq{"contact_id": contactID, "user_id": userID}).
		Suffix("RETURNING contact_id, user_id, name, phone, email, is_favourite, contact_type, photo, created_at, updated_at").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}
