// Package analytics reduces a place's event stream into the dashboard summary.
package analytics

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/wadjakorntonsri/booking-bridge/pkg/core/domain"
)

const (
	topLinksLimit     = 10
	recentEventsLimit = 10
	dayLayout         = "2006-01-02"
)

// LinkCount is the click tally for one link position.
type LinkCount struct {
	Key      string          `json:"key"`
	Type     domain.LinkType `json:"type"`
	Platform string          `json:"platform"`
	URL      string          `json:"url"`
	Count    int             `json:"count"`
}

type Summary struct {
	TotalViews   int                     `json:"totalViews"`
	TotalClicks  int                     `json:"totalClicks"`
	ClicksByLink map[string]LinkCount    `json:"clicksByLink"`
	ClicksByDay  map[string]int          `json:"clicksByDay"`
	ViewsByDay   map[string]int          `json:"viewsByDay"`
	TopLinks     []LinkCount             `json:"topLinks"`
	RecentEvents []domain.AnalyticsEvent `json:"recentEvents"`
	CTR          float64                 `json:"ctr"`
}

// EmptySummary is reported when there is no data to look at.
func EmptySummary() Summary {
	return Summary{
		ClicksByLink: map[string]LinkCount{},
		ClicksByDay:  map[string]int{},
		ViewsByDay:   map[string]int{},
		TopLinks:     []LinkCount{},
		RecentEvents: []domain.AnalyticsEvent{},
	}
}

// Summarize makes one pass over events. The caller is expected to pass them
// newest first; recentEvents is simply the head of the input. Day keys are
// calendar dates in loc, nil meaning UTC.
func Summarize(events []domain.AnalyticsEvent, loc *time.Location) Summary {
	if loc == nil {
		loc = time.UTC
	}
	s := EmptySummary()

	var order []string
	for _, e := range events {
		switch e.EventType {
		case domain.EventLinkClick:
			s.TotalClicks++
			key := LinkKey(e.LinkType, e.LinkIndex)
			lc, seen := s.ClicksByLink[key]
			if !seen {
				lc = LinkCount{Key: key, Type: e.LinkType, Platform: e.LinkPlatform, URL: e.LinkURL}
				order = append(order, key)
			}
			lc.Count++
			s.ClicksByLink[key] = lc
			if e.Timestamp != nil {
				s.ClicksByDay[e.Timestamp.In(loc).Format(dayLayout)]++
			}
		case domain.EventProfileView:
			s.TotalViews++
			if e.Timestamp != nil {
				s.ViewsByDay[e.Timestamp.In(loc).Format(dayLayout)]++
			}
		}
	}

	for _, key := range order {
		s.TopLinks = append(s.TopLinks, s.ClicksByLink[key])
	}
	sort.SliceStable(s.TopLinks, func(i, j int) bool {
		return s.TopLinks[i].Count > s.TopLinks[j].Count
	})
	if len(s.TopLinks) > topLinksLimit {
		s.TopLinks = s.TopLinks[:topLinksLimit]
	}

	n := min(len(events), recentEventsLimit)
	s.RecentEvents = append(s.RecentEvents, events[:n]...)

	s.CTR = ClickThroughRate(s)
	return s
}

// ClickThroughRate is clicks per view as a percentage rounded to two decimals,
// and 0 when there were no views.
func ClickThroughRate(s Summary) float64 {
	if s.TotalViews == 0 {
		return 0
	}
	return math.Round(float64(s.TotalClicks)/float64(s.TotalViews)*100*100) / 100
}

// LinkKey identifies a link position in clicksByLink.
func LinkKey(t domain.LinkType, index int) string {
	return string(t) + "-" + strconv.Itoa(index)
}
