// Package search implements the meta search across social posts, news and creators.
package search

import (
	"net/url"
	"strings"

	"github.com/aristath/bonkdash/internal/utils"
)

// Tabs of the meta search view.
const (
	TabAll      = "all"
	TabPosts    = "posts"
	TabNews     = "news"
	TabCreators = "creators"
)

var validTabs = map[string]bool{TabAll: true, TabPosts: true, TabNews: true, TabCreators: true}

// State holds the query, tab and pager of one search view.
// Changing the query, tab or page size starts again from page 1.
type State struct {
	query    string
	tab      string
	page     int
	pageSize int
}

// NewState returns an empty search on the "all" tab.
func NewState() *State {
	return &State{tab: TabAll, page: 1, pageSize: utils.DefaultPageSize}
}

// StateFromValues builds a State from q, tab, page and pageSize URL parameters.
func StateFromValues(v url.Values) *State {
	s := NewState()
	s.SetQuery(v.Get("q"))
	s.SetTab(v.Get("tab"))
	s.SetPageSize(utils.QueryInt(v, "pageSize", utils.DefaultPageSize))
	s.SetPage(utils.QueryInt(v, "page", 1))
	return s
}

// Query returns the search text.
func (s *State) Query() string { return s.query }

// Tab returns the selected tab.
func (s *State) Tab() string { return s.tab }

// Page returns the 1-based page.
func (s *State) Page() int { return s.page }

// PageSize returns the number of items per page.
func (s *State) PageSize() int { return s.pageSize }

// SetQuery replaces the search text.
func (s *State) SetQuery(q string) {
	q = strings.TrimSpace(q)
	if q == s.query {
		return
	}
	s.query = q
	s.page = 1
}

// SetTab selects a tab. Unknown tabs are ignored.
func (s *State) SetTab(tab string) {
	tab = strings.ToLower(strings.TrimSpace(tab))
	if !validTabs[tab] || tab == s.tab {
		return
	}
	s.tab = tab
	s.page = 1
}

// SetPage moves to page p; values below 1 become 1.
func (s *State) SetPage(p int) {
	if p < 1 {
		p = 1
	}
	s.page = p
}

// SetPageSize changes the page size, clamped to [1, utils.MaxPageSize].
func (s *State) SetPageSize(n int) {
	n = utils.Limit(n, utils.DefaultPageSize, utils.MaxPageSize)
	if n == s.pageSize {
		return
	}
	s.pageSize = n
	s.page = 1
}

// Includes reports whether the current tab shows the given section.
func (s *State) Includes(section string) bool {
	return s.tab == TabAll || s.tab == section
}
