package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] in the layout of the JSON
// configuration file. Durations are written as strings ("2h", "30s").
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
		PublicURL     string   `json:"public_url"`
		Version       string   `json:"version"`
		LogLevel      string   `json:"log_level"`
	} `json:"app"`

	EmailConfirmation struct {
		ExpirationHours int    `json:"expiration_hours"`
		SuccessURL      string `json:"success_url"`
		FailURL         string `json:"fail_url"`
	} `json:"email_confirmation"`

	Storage struct {
		DB struct {
			Driver string `json:"driver"`
			DSN    string `json:"dsn"`
		} `json:"db"`
	} `json:"storage"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		GRPCAddress    string   `json:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server"`

	Mail struct {
		Driver        string `json:"driver"`
		SMTPHost      string `json:"smtp_host"`
		SMTPPort      int    `json:"smtp_port"`
		SMTPUsername  string `json:"smtp_username"`
		SMTPPassword  string `json:"smtp_password"`
		SenderAddress string `json:"sender_address"`
		AMQPURL       string `json:"amqp_url"`
		AMQPQueue     string `json:"amqp_queue"`
	} `json:"mail"`

	Telemetry struct {
		Exporter     string `json:"exporter"`
		OTLPEndpoint string `json:"otlp_endpoint"`
		ServiceName  string `json:"service_name"`
	} `json:"telemetry"`
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

	return &StructuredConfig{
		App: App{
			TokenSignKey:  jsonCfg.App.TokenSignKey,
			TokenIssuer:   jsonCfg.App.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.App.TokenDuration),
			PublicURL:     jsonCfg.App.PublicURL,
			Version:       jsonCfg.App.Version,
			LogLevel:      jsonCfg.App.LogLevel,
		},
		EmailConfirmation: EmailConfirmation{
			ExpirationHours: jsonCfg.EmailConfirmation.ExpirationHours,
			SuccessURL:      jsonCfg.EmailConfirmation.SuccessURL,
			FailURL:         jsonCfg.EmailConfirmation.FailURL,
		},
		Storage: Storage{
			DB: DB{
				Driver: jsonCfg.Storage.DB.Driver,
				DSN:    jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			GRPCAddress:    jsonCfg.Server.GRPCAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Mail: Mail{
			Driver:        jsonCfg.Mail.Driver,
			SMTPHost:      jsonCfg.Mail.SMTPHost,
			SMTPPort:      jsonCfg.Mail.SMTPPort,
			SMTPUsername:  jsonCfg.Mail.SMTPUsername,
			SMTPPassword:  jsonCfg.Mail.SMTPPassword,
			SenderAddress: jsonCfg.Mail.SenderAddress,
			AMQPURL:       jsonCfg.Mail.AMQPURL,
			AMQPQueue:     jsonCfg.Mail.AMQPQueue,
		},
		Telemetry: Telemetry{
			Exporter:     jsonCfg.Telemetry.Exporter,
			OTLPEndpoint: jsonCfg.Telemetry.OTLPEndpoint,
			ServiceName:  jsonCfg.Telemetry.ServiceName,
		},
	}, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s" as well as from nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
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
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
