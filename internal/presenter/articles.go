// Package presenter computes derived view data from the application
// state: the visible article list, calendar-day groupings, and the
// sidebar's feeds-by-folder tree. Everything here is pure; the Presenter
// type only adds caching on top.
package presenter

import (
	"sort"
	"strings"
	"time"

	"github.com/mlag/feedra/internal/domain/feed"
	"github.com/mlag/feedra/internal/state"
)

// ScopeArticles returns the source article set for the current
// selection: the aggregate list, a single feed's cached list, or
// nothing when no selection is active.
func ScopeArticles(s state.AppState) []feed.Article {
	switch s.SelectedFeedID {
	case "":
		return nil
	case feed.AllArticlesID:
		return s.AllArticles
	default:
		return s.ArticlesByFeed[s.SelectedFeedID]
	}
}

// SearchArticles keeps articles matching the query in their title,
// snippet, author, or feed title. An empty query passes everything.
func SearchArticles(articles []feed.Article, query string) []feed.Article {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return articles
	}
	out := make([]feed.Article, 0, len(articles))
	for _, a := range articles {
		if strings.Contains(strings.ToLower(a.Title), query) ||
			strings.Contains(strings.ToLower(a.ContentSnippet), query) ||
			strings.Contains(strings.ToLower(a.Author), query) ||
			strings.Contains(strings.ToLower(a.FeedTitle), query) {
			out = append(out, a)
		}
	}
	return out
}

// FilterArticles applies the read-state predicate, preserving order.
func FilterArticles(articles []feed.Article, opt feed.FilterOption) []feed.Article {
	switch opt {
	case feed.FilterUnread:
		return filterBy(articles, func(a feed.Article) bool { return !a.IsRead })
	case feed.FilterRead:
		return filterBy(articles, func(a feed.Article) bool { return a.IsRead })
	default:
		return articles
	}
}

func filterBy(articles []feed.Article, keep func(feed.Article) bool) []feed.Article {
	out := make([]feed.Article, 0, len(articles))
	for _, a := range articles {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// SortArticles returns a sorted copy. Ties keep their input order.
func SortArticles(articles []feed.Article, opt feed.SortOption) []feed.Article {
	out := append([]feed.Article(nil), articles...)
	var less func(a, b feed.Article) bool
	switch opt {
	case feed.SortDateAsc:
		less = func(a, b feed.Article) bool { return a.PubDate.Before(b.PubDate) }
	case feed.SortTitleAsc:
		less = func(a, b feed.Article) bool { return a.Title < b.Title }
	case feed.SortTitleDesc:
		less = func(a, b feed.Article) bool { return a.Title > b.Title }
	default: // feed.SortDateDesc
		less = func(a, b feed.Article) bool { return a.PubDate.After(b.PubDate) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// VisibleArticles composes scope, search, filter, and sort for the
// current state.
func VisibleArticles(s state.AppState, query string) []feed.Article {
	scoped := ScopeArticles(s)
	return SortArticles(FilterArticles(SearchArticles(scoped, query), s.FilterOption), s.SortOption)
}

// DayGroup is one calendar day's worth of articles.
type DayGroup struct {
	Label    string
	Day      time.Time
	Articles []feed.Article
}

const dayLabelFormat = "Jan 2, 2006"

// GroupByDay buckets articles by calendar day (local time), newest day
// first. Articles within a bucket keep their input order.
func GroupByDay(articles []feed.Article) []DayGroup {
	byDay := map[time.Time]int{}
	groups := make([]DayGroup, 0)
	for _, a := range articles {
		local := a.PubDate.Local()
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
		idx, ok := byDay[day]
		if !ok {
			idx = len(groups)
			byDay[day] = idx
			groups = append(groups, DayGroup{Label: day.Format(dayLabelFormat), Day: day})
		}
		groups[idx].Articles = append(groups[idx].Articles, a)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Day.After(groups[j].Day) })
	return groups
}
