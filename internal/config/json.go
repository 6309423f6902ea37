package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations, so that operators can keep a readable config
// file alongside env/flag overrides.
type StructuredJSONConfig struct {
	App struct {
		AuthTokenKey       string   `json:"auth_token_key"`
		LegacyHashKey      string   `json:"legacy_hash_key"`
		BcryptCost         int      `json:"bcrypt_cost"`
		LockoutThreshold   int      `json:"lockout_threshold"`
		LockoutWindow      Duration `json:"lockout_window"`
		SessionIdleTimeout Duration `json:"session_idle_timeout"`
		ResetTokenSignKey  string   `json:"reset_token_sign_key"`
		ResetTokenIssuer   string   `json:"reset_token_issuer"`
		ResetTokenDuration Duration `json:"reset_token_duration"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Sessions struct {
			Backend string `json:"backend"`
			DSN     string `json:"dsn"`
		} `json:"sessions,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Workers struct {
		PurgeInterval Duration `json:"purge_interval"`
	} `json:"workers,omitempty"`
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
			AuthTokenKey:       jsonCfg.App.AuthTokenKey,
			LegacyHashKey:      jsonCfg.App.LegacyHashKey,
			BcryptCost:         jsonCfg.App.BcryptCost,
			LockoutThreshold:   jsonCfg.App.LockoutThreshold,
			LockoutWindow:      time.Duration(jsonCfg.App.LockoutWindow),
			SessionIdleTimeout: time.Duration(jsonCfg.App.SessionIdleTimeout),
			ResetTokenSignKey:  jsonCfg.App.ResetTokenSignKey,
			ResetTokenIssuer:   jsonCfg.App.ResetTokenIssuer,
			ResetTokenDuration: time.Duration(jsonCfg.App.ResetTokenDuration),
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Sessions: Sessions{
				Backend: jsonCfg.Storage.Sessions.Backend,
				DSN:     jsonCfg.Storage.Sessions.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Workers: Workers{
			PurgeInterval: time.Duration(jsonCfg.Workers.PurgeInterval),
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
