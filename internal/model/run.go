package model

import "time"

// Run statuses recorded in the journal.
const (
	RunStatusOK           = "ok"
	RunStatusError        = "error"
	RunStatusTimeout      = "timeout"
	RunStatusLaunchFailed = "launch_failed"
	RunStatusCanceled     = "canceled"
)

// Run is one journal entry: metadata about an executed snippet. The code
// itself is not stored.
//
// Client is the rate-limiting identity (an address) and is never sent back
// over the API.
type Run struct {
	ID         string    `json:"id"`
	Client     string    `json:"-"`
	Status     string    `json:"status"`
	ExitCode   int       `json:"exitCode"`
	DurationMS int64     `json:"durationMs"`
	CodeBytes  int       `json:"codeBytes"`
	CreatedAt  time.Time `json:"createdAt"`
}
