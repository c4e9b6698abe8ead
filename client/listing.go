package client

import (
	"context"
	"errors"
	"sync"

	"github.com/sahilmate/multi-agent-form-processing-system/model"
)

const DefaultPageSize = 10

// ErrPageOutOfRange is returned for a page outside 1..TotalPages. No request is made.
var ErrPageOutOfRange = errors.New("page out of range")

// ListingState is a snapshot of the submissions list.
type ListingState struct {
	Items      []model.Submission
	Filters    SubmissionFilters
	Page       int
	PageSize   int
	Total      int
	TotalPages int
	Loading    bool
}

// Listing drives the paginated, filterable admin submissions list. Every
// state change re-fetches through Refresh. Requests are not cancelled or
// sequenced, so the last response to arrive wins.
type Listing struct {
	admin    *Admin
	notifier Notifier

	mu    sync.Mutex
	state ListingState
}

func NewListing(admin *Admin, notifier Notifier) *Listing {
	return &Listing{
		admin:    admin,
		notifier: orDiscard(notifier),
		state:    ListingState{Page: 1, PageSize: DefaultPageSize},
	}
}

// State returns a copy of the current state.
func (l *Listing) State() ListingState {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.state
	s.Items = append([]model.Submission(nil), l.state.Items...)
	return s
}

// Refresh fetches the current page with the current filters. On failure the
// previous items stay and a notice is sent.
func (l *Listing) Refresh(ctx context.Context) error {
	l.mu.Lock()
	l.state.Loading = true
	filters, page, pageSize := l.state.Filters, l.state.Page, l.state.PageSize
	l.mu.Unlock()

	result, err := l.admin.ListSubmissions(ctx, filters, page, pageSize)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Loading = false

	if err != nil {
		if errors.Is(err, ErrSessionExpired) {
			l.notifier.Notify(Notice{Title: "Session expired", Description: "Please log in again", Destructive: true})
		} else {
			l.notifier.Notify(Notice{Title: "Error", Description: "Failed to fetch submissions", Destructive: true})
		}
		return err
	}

	l.state.Items = result.Items
	l.state.Total = result.Total
	l.state.TotalPages = result.TotalPages
	return nil
}

// GoToPage moves to page p, which must lie in 1..TotalPages.
func (l *Listing) GoToPage(ctx context.Context, p int) error {
	l.mu.Lock()
	if p < 1 || p > l.state.TotalPages {
		l.mu.Unlock()
		return ErrPageOutOfRange
	}
	l.state.Page = p
	l.mu.Unlock()

	return l.Refresh(ctx)
}

func (l *Listing) NextPage(ctx context.Context) error {
	return l.GoToPage(ctx, l.State().Page+1)
}

func (l *Listing) PrevPage(ctx context.Context) error {
	return l.GoToPage(ctx, l.State().Page-1)
}

// SetFilter changes one filter, returns to page 1 and re-fetches. The value
// "all" clears the filter.
func (l *Listing) SetFilter(ctx context.Context, key, value string) error {
	l.mu.Lock()
	if err := l.state.Filters.Set(key, value); err != nil {
		l.mu.Unlock()
		return err
	}
	l.state.Page = 1
	l.mu.Unlock()

	return l.Refresh(ctx)
}

// SetFilters replaces all filters at once, returns to page 1 and re-fetches.
func (l *Listing) SetFilters(ctx context.Context, filters SubmissionFilters) error {
	for _, v := range []*string{&filters.Status, &filters.FormType, &filters.Department, &filters.StartDate, &filters.EndDate} {
		if *v == "all" {
			*v = ""
		}
	}

	l.mu.Lock()
	l.state.Filters = filters
	l.state.Page = 1
	l.mu.Unlock()

	return l.Refresh(ctx)
}

// ResetFilters clears every filter and re-fetches.
func (l *Listing) ResetFilters(ctx context.Context) error {
	return l.SetFilters(ctx, SubmissionFilters{})
}
