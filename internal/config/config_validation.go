// SPDX-License-Identifier: Apache-2.0

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.App.JWTSecret == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.Cloud.Enabled && (cfg.Cloud.UploadURL == "" || cfg.Cloud.APIKey == "") {
		return ErrInvalidCloudConfigs
	}

	return nil
}
