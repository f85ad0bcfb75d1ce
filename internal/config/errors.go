package config

import "errors"

var (
	ErrInvalidStorageConfigs = errors.New("invalid storage configs: database DSN is required")
	ErrInvalidAppConfigs     = errors.New("invalid app configs: jwt secret is required")
	ErrInvalidCloudConfigs   = errors.New("invalid cloud configs: upload url and api key are required when enabled")
)
