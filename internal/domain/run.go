package domain

import "time"

// FetchOrigin records where a fetcher's articles came from.
type FetchOrigin string

const (
	OriginCache    FetchOrigin = "cache"
	OriginUpstream FetchOrigin = "upstream"
	OriginStale    FetchOrigin = "stale"
	OriginNone     FetchOrigin = "none"
)

// FetchOutcome is what a source fetcher produced. Err is informational: the
// articles are always usable, even when Err is set.
type FetchOutcome struct {
	Articles []Article
	Origin   FetchOrigin
	Err      error
}

type RunStatus string

const (
	RunSuccess RunStatus = "success"
	RunSkipped RunStatus = "skipped"
	RunFailure RunStatus = "failure"
)

type SourceStatus string

const (
	SourceSuccess SourceStatus = "success"
	SourceFailure SourceStatus = "failure"
)

type SourceResult struct {
	Status SourceStatus `json:"status"`
	Count  int          `json:"count"`
	Origin FetchOrigin  `json:"origin,omitempty"`
	Error  string       `json:"error,omitempty"`
}

type WidgetResult struct {
	Status SourceStatus `json:"status"`
	Error  string       `json:"error,omitempty"`
}

// RunResult summarizes one collection run.
type RunResult struct {
	Status    RunStatus               `json:"status"`
	EditionID *int64                  `json:"editionId"`
	Edition   Slot                    `json:"edition"`
	Sources   map[Source]SourceResult `json:"sources,omitempty"`
	Widgets   map[string]WidgetResult `json:"widgets,omitempty"`
	Articles  int                     `json:"articles"`
	ElapsedMs int64                   `json:"elapsedMs"`
	Error     string                  `json:"error,omitempty"`
}

func (r *RunResult) Finish(start time.Time) *RunResult {
	r.ElapsedMs = time.Since(start).Milliseconds()
	return r
}

// SourceHealth is the last recorded fetch result of a source.
type SourceHealth struct {
	Source              Source       `json:"source" db:"source"`
	LastStatus          SourceStatus `json:"lastStatus" db:"last_status"`
	LastCount           int          `json:"lastCount" db:"last_count"`
	LastOrigin          FetchOrigin  `json:"lastOrigin" db:"last_origin"`
	LastError           *string      `json:"lastError,omitempty" db:"last_error"`
	LastAttemptAt       time.Time    `json:"lastAttemptAt" db:"last_attempt_at"`
	LastSuccessAt       *time.Time   `json:"lastSuccessAt,omitempty" db:"last_success_at"`
	ConsecutiveFailures int          `json:"consecutiveFailures" db:"consecutive_failures"`
}
