package domain

import (
	"time"

	"affect/internal/history"
	"affect/internal/sentiment"
)

type AnalyzeRequest struct {
	SessionID string         `json:"session_id,omitempty"`
	Text      string         `json:"text"`
	History   []history.Turn `json:"history,omitempty"`
}

type AnalyzeResponse struct {
	SessionID     string           `json:"session_id"`
	Result        sentiment.Result `json:"result"`
	FallbackLevel int              `json:"fallback_level"`
	Strategy      string           `json:"strategy"`
	ErrorKind     string           `json:"error_kind,omitempty"`
}

type ExplainResponse struct {
	SessionID   string `json:"session_id"`
	Explanation string `json:"explanation"`
}

type AffectionResponse struct {
	SessionID   string    `json:"session_id"`
	Level       int       `json:"level"`
	Mood        string    `json:"mood"`
	UpdatedAt   time.Time `json:"updated_at"`
	HourlyUsage int       `json:"hourly_usage"`
	DailyUsage  int       `json:"daily_usage"`
}

// MQTT payloads

type AffectionUpdate struct {
	SessionID   string    `json:"session_id"`
	Level       int       `json:"level"`
	Mood        string    `json:"mood"`
	Delta       int       `json:"delta"`
	Score       float64   `json:"score"`
	Interaction string    `json:"interaction"`
	TS          time.Time `json:"ts"`
}

type AnalysisEvent struct {
	SessionID     string           `json:"session_id"`
	Result        sentiment.Result `json:"result"`
	Emotion       string           `json:"emotion,omitempty"`
	Intensity     float64          `json:"intensity"`
	FallbackLevel int              `json:"fallback_level"`
	TS            time.Time        `json:"ts"`
}
