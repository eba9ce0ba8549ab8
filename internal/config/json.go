package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		DeviceID  string `json:"device_id"`
		AccessKey string `json:"access_key"`
		HashKey   string `json:"hash_key"`
		Version   string `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
		FallbackCapacity int `json:"fallback_capacity"`
	} `json:"storage,omitempty"`

	Adapter struct {
		BaseURL        string   `json:"base_url"`
		RequestTimeout Duration `json:"request_timeout"`
		ProbeInterval  Duration `json:"probe_interval"`
	} `json:"adapter,omitempty"`

	Sync struct {
		Strategy               string   `json:"strategy"`
		MaxRetryAttempts       int      `json:"max_retry_attempts"`
		FullDrainInterval      Duration `json:"full_drain_interval"`
		QuickDrainInterval     Duration `json:"quick_drain_interval"`
		QuickDrainAgeThreshold Duration `json:"quick_drain_age_threshold"`
		QuickDrainBatchSize    int      `json:"quick_drain_batch_size"`
		InterItemDelay         Duration `json:"inter_item_delay"`
	} `json:"sync,omitempty"`

	Status struct {
		HTTPAddress string `json:"http_address"`
	} `json:"status,omitempty"`
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
			DeviceID:  jsonCfg.App.DeviceID,
			AccessKey: jsonCfg.App.AccessKey,
			HashKey:   jsonCfg.App.HashKey,
			Version:   jsonCfg.App.Version,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			FallbackCapacity: jsonCfg.Storage.FallbackCapacity,
		},
		Adapter: Adapter{
			BaseURL:        jsonCfg.Adapter.BaseURL,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			ProbeInterval:  time.Duration(jsonCfg.Adapter.ProbeInterval),
		},
		Sync: Sync{
			Strategy:               jsonCfg.Sync.Strategy,
			MaxRetryAttempts:       jsonCfg.Sync.MaxRetryAttempts,
			FullDrainInterval:      time.Duration(jsonCfg.Sync.FullDrainInterval),
			QuickDrainInterval:     time.Duration(jsonCfg.Sync.QuickDrainInterval),
			QuickDrainAgeThreshold: time.Duration(jsonCfg.Sync.QuickDrainAgeThreshold),
			QuickDrainBatchSize:    jsonCfg.Sync.QuickDrainBatchSize,
			InterItemDelay:         time.Duration(jsonCfg.Sync.InterItemDelay),
		},
		Status: Status{
			HTTPAddress: jsonCfg.Status.HTTPAddress,
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
