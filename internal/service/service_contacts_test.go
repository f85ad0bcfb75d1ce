package service

import (
	"context"
	"errors"
	"testing"

	"github.com/MKhiriev/go-contact-keeper/internal/adapter"
	"github.com/MKhiriev/go-contact-keeper/internal/logger"
	"github.com/MKhiriev/go-contact-keeper/internal/mock"
	"github.com/MKhiriev/go-contact-keeper/internal/store"
	"github.com/MKhiriev/go-contact-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestContactSvc(t *testing.T, ctrl *gomock.Controller) (ContactService, *mock.MockContactRepository, *mock.MockPhotoStore) {
	t.Helper()
	contacts := mock.NewMockContactRepository(ctrl)
	photos := mock.NewMockPhotoStore(ctrl)

	return NewContactService(contacts, photos, logger.Nop()), contacts, photos
}

func testDescriptor() models.QueryDescriptor {
	return models.QueryDescriptor{Page: 1, PerPage: 10, SortBy: "name", SortOrder: models.SortOrderAsc}
}

func TestContactService_ListContacts_PageMetadata(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, contacts, _ := newTestContactSvc(t, ctrl)
	ctx := context.Background()

	items := []models.Contact{{ContactID: 1, Name: "Alice"}, {ContactID: 2, Name: "Bob"}}
	contacts.EXPECT().ListContacts(ctx, int64(7), testDescriptor()).Return(items, int64(23), nil)

	page, err := svc.ListContacts(ctx, 7, testDescriptor())

	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, int64(23), page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
	assert.False(t, page.HasPreviousPage)
	assert.True(t, page.HasNextPage)
}

func TestContactService_CreateContact_WithPhoto(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, contacts, photos := newTestContactSvc(t, ctrl)
	ctx := context.Background()

	upload := adapter.PhotoUpload{Filename: "avatar.png", ContentType: "image/png", Data: []byte{1, 2, 3}}

	gomock.InOrder(
		photos.EXPECT().Store(ctx, upload).Return("https://img.example.com/avatar.png", nil),
		contacts.EXPECT().CreateContact(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, c models.Contact) (models.Contact, error) {
				require.NotNil(t, c.Photo)
				assert.Equal(t, "https://img.example.com/avatar.png", *c.Photo)
				assert.Equal(t, int64(7), c.UserID)
				c.ContactID = 1
				return c, nil
			}),
	)

	created, err := svc.CreateContact(ctx, 7, models.CreateContactRequest{
		Name:        "Alice",
		Phone:       "+100200300",
		ContactType: models.ContactTypeWork,
	}, &upload)

	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ContactID)
}

func TestContactService_CreateContact_DefaultsContactType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, contacts, _ := newTestContactSvc(t, ctrl)
	ctx := context.Background()

	contacts.EXPECT().CreateContact(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, c models.Contact) (models.Contact, error) {
			assert.Equal(t, models.ContactTypePersonal, c.ContactType)
			return c, nil
		})

	_, err := svc.CreateContact(ctx, 7, models.CreateContactRequest{Name: "Alice", Phone: "+1"}, nil)

	require.NoError(t, err)
}

func TestContactService_CreateContact_UnknownType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _ := newTestContactSvc(t, ctrl)

	_, err := svc.CreateContact(context.Background(), 7, models.CreateContactRequest{
		Name:        "Alice",
		Phone:       "+1",
		ContactType: "imaginary",
	}, nil)

	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestContactService_CreateContact_PhotoUploadFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, photos := newTestContactSvc(t, ctrl)
	ctx := context.Background()

	upload := adapter.PhotoUpload{Filename: "avatar.png", Data: []byte{1}}
	photos.EXPECT().Store(ctx, upload).Return("", adapter.ErrStoringPhoto)

	// Nothing must be persisted when the upload fails.
	_, err := svc.CreateContact(ctx, 7, models.CreateContactRequest{Name: "Alice", Phone: "+1"}, &upload)

	assert.ErrorIs(t, err, adapter.ErrStoringPhoto)
}

func TestContactService_UpdateContact_SetsPhotoURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, contacts, photos := newTestContactSvc(t, ctrl)
	ctx := context.Background()

	upload := adapter.PhotoUpload{Filename: "new.png", Data: []byte{9}}
	name := "Alice Updated"

	gomock.InOrder(
		photos.EXPECT().Store(ctx, upload).Return("https://img.example.com/new.png", nil),
		contacts.EXPECT().UpdateContact(ctx, int64(1), int64(7), gomock.Any()).DoAndReturn(
			func(_ context.Context, _, _ int64, update models.ContactUpdate) (models.Contact, error) {
				require.NotNil(t, update.Photo)
				assert.Equal(t, "https://img.example.com/new.png", *update.Photo)
				require.NotNil(t, update.Name)
				assert.Equal(t, name, *update.Name)
				return models.Contact{ContactID: 1, Name: name}, nil
			}),
	)

	updated, err := svc.UpdateContact(ctx, 1, 7, models.ContactUpdate{Name: &name}, &upload)

	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
}

func TestContactService_UpdateContact_BlankName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _ := newTestContactSvc(t, ctrl)

	blank := ""
	_, err := svc.UpdateContact(context.Background(), 1, 7, models.ContactUpdate{Name: &blank}, nil)

	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestContactService_UpdateContact_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, contacts, _ := newTestContactSvc(t, ctrl)
	ctx := context.Background()

	name := "Ghost"
	contacts.EXPECT().UpdateContact(ctx, int64(404), int64(7), gomock.Any()).
		Return(models.Contact{}, store.ErrContactNotFound)

	_, err := svc.UpdateContact(ctx, 404, 7, models.ContactUpdate{Name: &name}, nil)

	assert.ErrorIs(t, err, store.ErrContactNotFound)
}

func TestContactService_GetContact_PassesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, contacts, _ := newTestContactSvc(t, ctrl)
	ctx := context.Background()

	contacts.EXPECT().GetContactByID(ctx, int64(1), int64(7)).
		Return(models.Contact{ContactID: 1, Name: "Alice"}, nil)

	contact, err := svc.GetContact(ctx, 1, 7)

	require.NoError(t, err)
	assert.Equal(t, "Alice", contact.Name)
}

func TestContactService_DeleteContact_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, contacts, _ := newTestContactSvc(t, ctrl)
	ctx := context.Background()

	dbErr := errors.New("connection reset")
	contacts.EXPECT().DeleteContact(ctx, int64(1), int64(7)).Return(models.Contact{}, dbErr)

	_, err := svc.DeleteContact(ctx, 1, 7)

	assert.ErrorIs(t, err, dbErr)
}
