package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"affect/internal/sentiment"
)

type AffectServerConfig struct {
	HTTPAddr           string
	DBDSN              string
	MQTTBrokerURL      string
	MQTTClientID       string
	MQTTUsername       string
	MQTTPassword       string
	MQTTTopicPrefix    string
	HistoryLimit       int
	MaxBodyBytes       int64
	LexiconOverlayPath string
	ShutdownTimeout    time.Duration
}

// StoreEnabled reports whether Postgres persistence is configured.
func (c AffectServerConfig) StoreEnabled() bool { return c.DBDSN != "" }

// MQTTEnabled reports whether affection updates should be published.
func (c AffectServerConfig) MQTTEnabled() bool { return c.MQTTBrokerURL != "" }

func LoadAffectServerConfig() AffectServerConfig {
	return AffectServerConfig{
		HTTPAddr:           getenvDefault("AFFECT_HTTP_ADDR", ":9020"),
		DBDSN:              os.Getenv("DB_DSN"),
		MQTTBrokerURL:      os.Getenv("MQTT_BROKER_URL"),
		MQTTClientID:       getenvDefault("AFFECT_MQTT_CLIENT_ID", "affect-server"),
		MQTTUsername:       os.Getenv("MQTT_USERNAME"),
		MQTTPassword:       os.Getenv("MQTT_PASSWORD"),
		MQTTTopicPrefix:    getenvDefault("MQTT_TOPIC_PREFIX", "affect"),
		HistoryLimit:       getenvIntDefault("AFFECT_HISTORY_LIMIT", 10),
		MaxBodyBytes:       int64(getenvIntDefault("AFFECT_MAX_BODY_BYTES", 64*1024)),
		LexiconOverlayPath: os.Getenv("AFFECT_LEXICON_OVERLAY"),
		ShutdownTimeout:    time.Duration(getenvIntDefault("AFFECT_SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

// LoadLexiconOverlay parses a YAML file of per-lexicon weight overrides:
//
//	positive:
//	  awesome: 3
//	negative:
//	  meh: -1
//
// A zero weight removes the word from the lexicon. An empty path returns a
// nil overlay.
func LoadLexiconOverlay(path string) (sentiment.Overlay, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon overlay: %w", err)
	}
	return ParseLexiconOverlay(data)
}

func ParseLexiconOverlay(data []byte) (sentiment.Overlay, error) {
	var overlay sentiment.Overlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parse lexicon overlay: %w", err)
	}
	for name := range overlay {
		switch name {
		case "positive", "negative", "caring", "dismissive", "appreciative", "hostile":
		default:
			return nil, fmt.Errorf("parse lexicon overlay: unknown lexicon %q", name)
		}
	}
	return overlay, nil
}

func getenvDefault(key, val string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return val
}

func getenvIntDefault(key string, val int) int {
	v := os.Getenv(key)
	if v == "" {
		return val
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return val
	}
	return n
}
