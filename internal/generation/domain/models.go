package domain

import "time"

// Status is the task lifecycle state. Terminal states are final and
// only ever observed, never set by this layer.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// GenerateRequest carries the parameters of one image generation.
type GenerateRequest struct {
	Prompt          string `json:"prompt"`
	Model           string `json:"model"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	Seed            int64  `json:"seed"`
	RemoveWatermark bool   `json:"removeWatermark"`
	EnhancePrompt   bool   `json:"enhancePrompt"`
}

// Task is one generation request and its observed state.
type Task struct {
	TaskID         string    `json:"taskId"`
	Status         Status    `json:"status"`
	Prompt         string    `json:"prompt"`
	EnhancedPrompt string    `json:"enhancedPrompt,omitempty"`
	Model          string    `json:"model"`
	Width          int       `json:"width"`
	Height         int       `json:"height"`
	Seed           int64     `json:"seed"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	ErrorMessage   string    `json:"errorMessage,omitempty"`
	CreditsCost    int64     `json:"creditsCost"`
	CreatedTime    time.Time `json:"createdTime"`
}

// TaskStatus is one poll observation.
type TaskStatus struct {
	TaskID                 string  `json:"taskId"`
	Status                 Status  `json:"status"`
	ImageURL               string  `json:"imageUrl,omitempty"`
	ErrorMessage           string  `json:"errorMessage,omitempty"`
	ProcessDurationSeconds float64 `json:"processDurationSeconds,omitempty"`
}

// PollResult is the terminal outcome of a polling loop.
type PollResult struct {
	ImageURL string `json:"imageUrl"`
	Attempts int    `json:"attempts"`
}

// EnhanceResult is the best-effort prompt enhancement outcome.
type EnhanceResult struct {
	Original string `json:"originalPrompt"`
	Enhanced string `json:"enhancedPrompt"`
	Improved bool   `json:"improved"`
}

// Model describes one selectable generation model.
type Model struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Credits     int64  `json:"credits"`
}

// ProgressFunc receives a cosmetic percentage while a task runs. It is
// monotone over attempts and carries no correctness contract.
type ProgressFunc func(percent int)
