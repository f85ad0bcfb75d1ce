package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MKhiriev/go-contact-keeper/internal/config"
	"github.com/MKhiriev/go-contact-keeper/internal/logger"
	"github.com/go-resty/resty/v2"
)

// remotePhotoStore uploads photos to a remote image host over its HTTP
// upload API and returns the hosted URL. The host is expected to respond
// with a JSON document carrying a "secure_url" (or "url") field, as the
// Cloudinary-style unsigned upload endpoints do.
type remotePhotoStore struct {
	client       *resty.Client
	apiKey       string
	apiSecret    string
	uploadPreset string
	logger       *logger.Logger
}

// remoteUploadResponse is the subset of the image host's upload response
// the store cares about.
type remoteUploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
}

// NewRemotePhotoStore constructs a [PhotoStore] backed by the remote image
// host described in cfg.
func NewRemotePhotoStore(cfg config.Cloud, log *logger.Logger) PhotoStore {
	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.UploadURL, "/")).
		SetTimeout(15 * time.Second)

	log.Debug().Str("upload_url", cfg.UploadURL).Msg("creating remote photo store")
	return &remotePhotoStore{
		client:       cli,
		apiKey:       cfg.APIKey,
		apiSecret:    cfg.APISecret,
		uploadPreset: cfg.UploadPreset,
		logger:       log,
	}
}

// Store uploads the photo as a multipart form and returns the hosted URL.
func (s *remotePhotoStore) Store(ctx context.Context, upload PhotoUpload) (string, error) {
	log := logger.FromContext(ctx)

	if len(upload.Data) == 0 {
		return "", ErrEmptyPhotoUpload
	}

	formData := map[string]string{
		"api_key": s.apiKey,
	}
	if s.uploadPreset != "" {
		formData["upload_preset"] = s.uploadPreset
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetFileReader("file", upload.Filename, bytes.NewReader(upload.Data)).
		SetFormData(formData).
		Post("")
	if err != nil {
		log.Err(err).Str("func", "remotePhotoStore.Store").Msg("photo upload request failed")
		return "", fmt.Errorf("%w: %w", ErrStoringPhoto, err)
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		log.Error().
			Str("func", "remotePhotoStore.Store").
			Int("status", resp.StatusCode()).
			Msg("image host rejected upload")
		return "", fmt.Errorf("%w: http %d: %s", ErrStoringPhoto, resp.StatusCode(), strings.TrimSpace(string(resp.Body())))
	}

	var uploaded remoteUploadResponse
	if err = json.Unmarshal(resp.Body(), &uploaded); err != nil {
		log.Err(err).Str("func", "remotePhotoStore.Store").Msg("failed to decode upload response")
		return "", fmt.Errorf("%w: %w", ErrStoringPhoto, err)
	}

	url := uploaded.SecureURL
	if url == "" {
		url = uploaded.URL
	}
	if url == "" {
		return "", fmt.Errorf("%w: image host returned no url", ErrStoringPhoto)
	}

	return url, nil
}
