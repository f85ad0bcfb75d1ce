package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *StructuredConfig)
		wantErr error
	}{
		{
			name:   "valid config",
			mutate: func(*StructuredConfig) {},
		},
		{
			name:    "missing database DSN",
			mutate:  func(cfg *StructuredConfig) { cfg.Storage.DB.DSN = "" },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "missing jwt secret",
			mutate:  func(cfg *StructuredConfig) { cfg.App.JWTSecret = "" },
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name: "cloud enabled without upload url",
			mutate: func(cfg *StructuredConfig) {
				cfg.Cloud = Cloud{Enabled: true, APIKey: "key"}
			},
			wantErr: ErrInvalidCloudConfigs,
		},
		{
			name: "cloud enabled without api key",
			mutate: func(cfg *StructuredConfig) {
				cfg.Cloud = Cloud{Enabled: true, UploadURL: "https://api.img.example.com/v1/upload"}
			},
			wantErr: ErrInvalidCloudConfigs,
		},
		{
			name: "cloud fields optional when disabled",
			mutate: func(cfg *StructuredConfig) {
				cfg.Cloud = Cloud{Enabled: false}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBaseConfig()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
