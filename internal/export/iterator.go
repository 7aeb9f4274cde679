package export

import (
	"context"
	"fmt"

	"github.com/andygrunwald/go-jira"
)

// DefaultPageSize is the number of issues requested per search page.
const DefaultPageSize = 50

// DefaultFields is the field list requested when Query.Fields is empty.
var DefaultFields = []string{
	"summary", "description", "status", "issuetype", "priority", "project",
	"assignee", "reporter", "labels", "resolution", "created", "updated",
	"comment", "worklog",
}

// Query describes a single JQL search.
type Query struct {
	// JQL is the filter to search with. Empty selects all visible issues.
	JQL string
	// PageSize is the number of issues fetched per request. Zero or negative
	// means DefaultPageSize.
	PageSize int
	// MaxResults caps the total number of issues yielded. Zero means no cap.
	MaxResults int
	// Fields are the issue fields to request. Empty means DefaultFields.
	Fields []string
}

// Source is a sequence of issues. Iterator implements it; tests may provide
// their own.
type Source interface {
	Next() bool
	Issue() jira.Issue
	Err() error
}

// Iterator walks a JQL search result set one page at a time, in server order.
// It is lazy (no request is made before the first call to Next) and not
// restartable. It stops on the first empty page, when the server-reported
// total is exhausted, or when the query's MaxResults is reached, whichever
// comes first. Any transport or decode failure ends iteration immediately
// and is reported by Err.
type Iterator struct {
	ctx    context.Context
	client *jira.Client
	query  Query

	startAt int
	total   int
	yielded int
	page    []jira.Issue
	index   int
	done    bool
	err     error
}

// NewIterator creates an iterator over the issues matching query.
func NewIterator(ctx context.Context, client *jira.Client, query Query) *Iterator {
	if query.PageSize <= 0 {
		query.PageSize = DefaultPageSize
	}
	if len(query.Fields) == 0 {
		query.Fields = DefaultFields
	}
	return &Iterator{ctx: ctx, client: client, query: query}
}

// Next reports whether another issue is available, fetching the next page
// from the server if the current one is exhausted.
func (it *Iterator) Next() bool {
	if it.err != nil {
		return false
	}
	if it.query.MaxResults > 0 && it.yielded >= it.query.MaxResults {
		return false
	}
	if it.index < len(it.page) {
		return true
	}
	if it.done {
		return false
	}
	if err := it.fetchPage(); err != nil {
		it.err = err
		return false
	}
	return it.index < len(it.page)
}

// Issue returns the current issue and advances the iterator. It must only be
// called after Next has returned true.
func (it *Iterator) Issue() jira.Issue {
	issue := it.page[it.index]
	it.index++
	it.yielded++
	return issue
}

// Err returns the error that terminated iteration, if any.
func (it *Iterator) Err() error {
	return it.err
}

// Total returns the server-reported total for the query. It is zero before
// the first page has been fetched.
func (it *Iterator) Total() int {
	return it.total
}

func (it *Iterator) fetchPage() error {
	size := it.query.PageSize
	if max := it.query.MaxResults; max > 0 && max-it.yielded < size {
		size = max - it.yielded
	}

	opts := &jira.SearchOptions{
		StartAt:    it.startAt,
		MaxResults: size,
		Fields:     it.query.Fields,
	}
	issues, resp, err := it.client.Issue.SearchWithContext(it.ctx, it.query.JQL, opts)
	if err != nil {
		return fmt.Errorf("failed to search issues at offset %d: %w", it.startAt, err)
	}

	it.total = resp.Total
	it.page = issues
	it.index = 0
	it.startAt += len(issues)
	if len(issues) == 0 || it.startAt >= it.total {
		it.done = true
	}
	return nil
}

// Count returns the server-reported total for jql without paginating through
// the result set.
func Count(ctx context.Context, client *jira.Client, jql string) (int, error) {
	opts := &jira.SearchOptions{MaxResults: 1, Fields: []string{"key"}}
	_, resp, err := client.Issue.SearchWithContext(ctx, jql, opts)
	if err != nil {
		return 0, fmt.Errorf("failed to count issues: %w", err)
	}
	return resp.Total, nil
}
