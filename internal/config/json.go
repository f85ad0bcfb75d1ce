package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		Domain          string   `json:"domain"`
		JWTSecret       string   `json:"jwt_secret"`
		TokenIssuer     string   `json:"token_issuer"`
		AccessTokenTTL  Duration `json:"access_token_ttl"`
		RefreshTokenTTL Duration `json:"refresh_token_ttl"`
		ResetTokenTTL   Duration `json:"reset_token_ttl"`
		Version         string   `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Uploads struct {
			Dir string `json:"dir"`
		} `json:"uploads,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Mail struct {
		From   string `json:"smtp_from"`
		APIKey string `json:"api_key"`
	} `json:"mail,omitempty"`

	Cloud struct {
		Enabled      bool   `json:"enabled"`
		UploadURL    string `json:"upload_url"`
		APIKey       string `json:"api_key"`
		APISecret    string `json:"api_secret"`
		UploadPreset string `json:"upload_preset"`
	} `json:"cloud,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Domain:          jsonCfg.App.Domain,
			JWTSecret:       jsonCfg.App.JWTSecret,
			TokenIssuer:     jsonCfg.App.TokenIssuer,
			AccessTokenTTL:  time.Duration(jsonCfg.App.AccessTokenTTL),
			RefreshTokenTTL: time.Duration(jsonCfg.App.RefreshTokenTTL),
			ResetTokenTTL:   time.Duration(jsonCfg.App.ResetTokenTTL),
			Version:         jsonCfg.App.Version,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Uploads: Uploads{
				Dir: jsonCfg.Storage.Uploads.Dir,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Mail: Mail{
			From:   jsonCfg.Mail.From,
			APIKey: jsonCfg.Mail.APIKey,
		},
		Cloud: Cloud{
			Enabled:      jsonCfg.Cloud.Enabled,
			UploadURL:    jsonCfg.Cloud.UploadURL,
			APIKey:       jsonCfg.Cloud.APIKey,
			APISecret:    jsonCfg.Cloud.APISecret,
			UploadPreset: jsonCfg.Cloud.UploadPreset,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
