package event_handler

import (
	"github.com/fatflowers/paylist/internal/app/service/tagsync"
)

type Disposition string

const (
	DispositionHandled   Disposition = "handled"
	DispositionIgnored   Disposition = "ignored"
	DispositionDuplicate Disposition = "duplicate"
)

// Result describes how an acknowledged delivery was handled.
type Result struct {
	Disposition Disposition      `json:"disposition"`
	Reason      string           `json:"reason,omitempty"`
	Details     map[string]any   `json:"details,omitempty"`
	TagSync     *tagsync.Outcome `json:"-"`
}

func handled() *Result {
	return &Result{Disposition: DispositionHandled}
}

// ignored builds an ignored result; kv are optional detail pairs.
func ignored(reason string, kv ...any) *Result {
	r := &Result{Disposition: DispositionIgnored, Reason: reason}
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			if r.Details == nil {
				r.Details = map[string]any{}
			}
			r.Details[k] = kv[i+1]
		}
	}
	return r
}

// logRecord is the JSON stored in the event log result column.
func (r *Result) logRecord() map[string]any {
	rec := map[string]any{"disposition": r.Disposition}
	if r.Reason != "" {
		rec["reason"] = r.Reason
	}
	for k, v := range r.Details {
		rec[k] = v
	}
	if r.TagSync != nil {
		rec["tag_sync"] = string(r.TagSync.Status)
		rec["tag_sync_steps"] = r.TagSync.Steps
		if r.TagSync.Err != nil {
			rec["tag_sync_error"] = r.TagSync.Err.Error()
		}
	}
	return rec
}
