package export

import (
	"time"

	"github.com/andygrunwald/go-jira"
)

// Record is the flattened form of a Jira issue written to the output file.
// It keeps a fixed subset of fields; everything else is dropped.
type Record struct {
	Key         string    `json:"key"`
	Project     string    `json:"project,omitempty"`
	Type        string    `json:"type,omitempty"`
	Status      string    `json:"status,omitempty"`
	Priority    string    `json:"priority,omitempty"`
	Resolution  string    `json:"resolution,omitempty"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Assignee    string    `json:"assignee,omitempty"`
	Reporter    string    `json:"reporter,omitempty"`
	Labels      []string  `json:"labels,omitempty"`
	Created     string    `json:"created,omitempty"`
	Updated     string    `json:"updated,omitempty"`
	Comments    []Comment `json:"comments,omitempty"`
	Worklogs    []Worklog `json:"worklogs,omitempty"`
}

// Comment is a single flattened issue comment.
type Comment struct {
	Author  string `json:"author,omitempty"`
	Created string `json:"created,omitempty"`
	Body    string `json:"body"`
}

// Worklog is a single flattened work log entry.
type Worklog struct {
	Author           string `json:"author,omitempty"`
	Started          string `json:"started,omitempty"`
	TimeSpentSeconds int    `json:"timeSpentSeconds"`
	Comment          string `json:"comment,omitempty"`
}

// NewRecord flattens a raw issue into a Record. Missing sub-objects map to
// zero values; timestamps are formatted as RFC 3339.
func NewRecord(issue jira.Issue) Record {
	rec := Record{Key: issue.Key}

	fields := issue.Fields
	if fields == nil {
		return rec
	}

	rec.Summary = fields.Summary
	rec.Description = fields.Description
	rec.Project = fields.Project.Key
	rec.Type = fields.Type.Name
	rec.Labels = fields.Labels
	if fields.Status != nil {
		rec.Status = fields.Status.Name
	}
	if fields.Priority != nil {
		rec.Priority = fields.Priority.Name
	}
	if fields.Resolution != nil {
		rec.Resolution = fields.Resolution.Name
	}
	if fields.Assignee != nil {
		rec.Assignee = fields.Assignee.DisplayName
	}
	if fields.Reporter != nil {
		rec.Reporter = fields.Reporter.DisplayName
	}
	rec.Created = formatTime(time.Time(fields.Created))
	rec.Updated = formatTime(time.Time(fields.Updated))

	if fields.Comments != nil {
		for _, c := range fields.Comments.Comments {
			rec.Comments = append(rec.Comments, Comment{
				Author:  c.Author.DisplayName,
				Created: c.Created,
				Body:    c.Body,
			})
		}
	}
	if fields.Worklog != nil {
		for _, w := range fields.Worklog.Worklogs {
			entry := Worklog{
				TimeSpentSeconds: w.TimeSpentSeconds,
				Comment:          w.Comment,
			}
			if w.Author != nil {
				entry.Author = w.Author.DisplayName
			}
			if w.Started != nil {
				entry.Started = formatTime(time.Time(*w.Started))
			}
			rec.Worklogs = append(rec.Worklogs, entry)
		}
	}

	return rec
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
