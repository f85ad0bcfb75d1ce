package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-contact-keeper/internal/adapter"
	"github.com/MKhiriev/go-contact-keeper/internal/logger"
	"github.com/MKhiriev/go-contact-keeper/internal/query"
	"github.com/MKhiriev/go-contact-keeper/internal/service"
	"github.com/MKhiriev/go-contact-keeper/internal/utils"
	"github.com/MKhiriev/go-contact-keeper/models"
	"github.com/go-chi/chi/v5"
)

// maxUploadBytes bounds the in-memory part of a multipart contact request,
// photo included.
const maxUploadBytes = 10 << 20

func (h *Handler) listContacts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user id in request context")
		respondError(w, service.ErrInvalidDataProvided)
		return
	}

	page, err := h.services.ContactService.ListContacts(ctx, userID, query.Parse(r.URL.Query()))
	if err != nil {
		log.Err(err).Msg("unexpected error occurred during contact listing")
		respondError(w, err)
		return
	}

	utils.WriteJSON(w, models.Envelope{
		Status:  http.StatusOK,
		Message: "contacts listed",
		Data:    page,
	}, http.StatusOK)
}

func (h *Handler) getContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user id in request context")
		respondError(w, service.ErrInvalidDataProvided)
		return
	}

	contactID, err := contactIDFromURL(r)
	if err != nil {
		log.Err(err).Msg("invalid contact id in url")
		respondError(w, err)
		return
	}

	contact, err := h.services.ContactService.GetContact(ctx, contactID, userID)
	if err != nil {
		log.Err(err).Int64("contact_id", contactID).Msg("contact lookup ended with error")
		respondError(w, err)
		return
	}

	utils.WriteJSON(w, models.Envelope{
		Status:  http.StatusOK,
		Message: "contact found",
		Data:    contact,
	}, http.StatusOK)
}

func (h *Handler) createContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user id in request context")
		respondError(w, service.ErrInvalidDataProvided)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		log.Err(err).Msg("invalid multipart form")
		respondError(w, service.ErrInvalidDataProvided)
		return
	}

	request := models.CreateContactRequest{
		Name:        r.FormValue("name"),
		Phone:       r.FormValue("phoneNumber"),
		Email:       r.FormValue("email"),
		ContactType: r.FormValue("contactType"),
	}
	if rawFavourite := r.FormValue("isFavourite"); rawFavourite != "" {
		favourite, err := strconv.ParseBool(rawFavourite)
		if err != nil {
			log.Err(err).Str("isFavourite", rawFavourite).Msg("invalid isFavourite value")
			respondError(w, service.ErrInvalidDataProvided)
			return
		}
		request.IsFavourite = favourite
	}

	photo, err := readPhotoUpload(r)
	if err != nil {
		log.Err(err).Msg("invalid photo upload")
		respondError(w, service.ErrInvalidDataProvided)
		return
	}

	contact, err := h.services.ContactService.CreateContact(ctx, userID, request, photo)
	if err != nil {
		log.Err(err).Msg("contact creation ended with error")
		respondError(w, err)
		return
	}

	log.Debug().Int64("contact_id", contact.ContactID).Msg("contact created")
	utils.WriteJSON(w, models.Envelope{
		Status:  http.StatusCreated,
		Message: "contact created",
		Data:    contact,
	}, http.StatusCreated)
}

func (h *Handler) updateContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user id in request context")
		respondError(w, service.ErrInvalidDataProvided)
		return
	}

	contactID, err := contactIDFromURL(r)
	if err != nil {
		log.Err(err).Msg("invalid contact id in url")
		respondError(w, err)
		return
	}

	update, photo, err := readContactUpdate(r)
	if err != nil {
		log.Err(err).Msg("invalid contact update payload")
		respondError(w, err)
		return
	}

	contact, err := h.services.ContactService.UpdateContact(ctx, contactID, userID, update, photo)
	if err != nil {
		log.Err(err).Int64("contact_id", contactID).Msg("contact update ended with error")
		respondError(w, err)
		return
	}

	utils.WriteJSON(w, models.Envelope{
		Status:  http.StatusOK,
		Message: "contact updated",
		Data:    contact,
	}, http.StatusOK)
}

func (h *Handler) deleteContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user id in request context")
		respondError(w, service.ErrInvalidDataProvided)
		return
	}

	contactID, err := contactIDFromURL(r)
	if err != nil {
		log.Err(err).Msg("invalid contact id in url")
		respondError(w, err)
		return
	}

	deleted, err := h.services.ContactService.DeleteContact(ctx, contactID, userID)
	if err != nil {
		log.Err(err).Int64("contact_id", contactID).Msg("contact removal ended with error")
		respondError(w, err)
		return
	}

	log.Debug().Int64("contact_id", deleted.ContactID).Msg("contact deleted")
	w.WriteHeader(http.StatusNoContent)
}

// contactIDFromURL parses the {contactID} route parameter.
func contactIDFromURL(r *http.Request) (int64, error) {
	contactID, err := strconv.ParseInt(chi.URLParam(r, "contactID"), 10, 64)
	if err != nil || contactID <= 0 {
		return 0, service.ErrInvalidDataProvided
	}
	return contactID, nil
}

// readContactUpdate extracts the partial update and the optional photo from
// a PATCH request. Multipart forms carry field presence in the form value
// map; a plain JSON body is accepted as well for photo-less updates.
func readContactUpdate(r *http.Request) (models.ContactUpdate, *adapter.PhotoUpload, error) {
	var update models.ContactUpdate

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			return models.ContactUpdate{}, nil, service.ErrInvalidDataProvided
		}
		return update, nil, nil
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return models.ContactUpdate{}, nil, service.ErrInvalidDataProvided
	}

	form := r.MultipartForm.Value
	if value, ok := formField(form, "name"); ok {
		update.Name = &value
	}
	if value, ok := formField(form, "phoneNumber"); ok {
		update.Phone = &value
	}
	if value, ok := formField(form, "email"); ok {
		update.Email = &value
	}
	if value, ok := formField(form, "contactType"); ok {
		update.ContactType = &value
	}
	if value, ok := formField(form, "isFavourite"); ok {
		favourite, err := strconv.ParseBool(value)
		if err != nil {
			return models.ContactUpdate{}, nil, service.ErrInvalidDataProvided
		}
		update.IsFavourite = &favourite
	}

	photo, err := readPhotoUpload(r)
	if err != nil {
		return models.ContactUpdate{}, nil, service.ErrInvalidDataProvided
	}

	return update, photo, nil
}

// formField reports whether the multipart form carries the named field at
// all, so that an absent field and an empty one can be told apart.
func formField(form map[string][]string, name string) (string, bool) {
	values, ok := form[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// readPhotoUpload reads the optional "photo" part of a multipart request.
// A missing part is not an error; the contact simply has no photo change.
func readPhotoUpload(r *http.Request) (*adapter.PhotoUpload, error) {
	file, header, err := r.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &adapter.PhotoUpload{
		Filename:    header.Filename,
		ContentType: partContentType(header),
		Data:        data,
	}, nil
}

func partContentType(header *multipart.FileHeader) string {
	if contentType := header.Header.Get("Content-Type"); contentType != "" {
		return contentType
	}
	return "application/octet-stream"
}
