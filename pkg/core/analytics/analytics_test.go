package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/domain"
)

func click(t domain.LinkType, index int, platform string, ts *time.Time) domain.AnalyticsEvent {
	return domain.AnalyticsEvent{
		EventType:    domain.EventLinkClick,
		LinkType:     t,
		LinkIndex:    index,
		LinkPlatform: platform,
		Timestamp:    ts,
	}
}

func view(ts *time.Time) domain.AnalyticsEvent {
	return domain.AnalyticsEvent{EventType: domain.EventProfileView, Timestamp: ts}
}

func TestSummarizeScenario(t *testing.T) {
	events := []domain.AnalyticsEvent{
		view(nil),
		click(domain.LinkTypeBooking, 0, "Airbnb", nil),
		click(domain.LinkTypeBooking, 0, "Airbnb", nil),
	}

	s := Summarize(events, time.UTC)

	assert.Equal(t, 1, s.TotalViews)
	assert.Equal(t, 2, s.TotalClicks)
	require.Len(t, s.TopLinks, 1)
	assert.Equal(t, "Airbnb", s.TopLinks[0].Platform)
	assert.Equal(t, 2, s.TopLinks[0].Count)
	assert.Equal(t, "booking-0", s.TopLinks[0].Key)
	assert.Equal(t, 200.0, ClickThroughRate(s))
	assert.Equal(t, 200.0, s.CTR)
	assert.Empty(t, s.ClicksByDay, "events without timestamps are not bucketed")
}

func TestClickThroughRateWithoutViews(t *testing.T) {
	for _, clicks := range []int{0, 1, 50} {
		s := EmptySummary()
		s.TotalClicks = clicks
		assert.Equal(t, 0.0, ClickThroughRate(s))
	}
}

func TestClickThroughRateRounding(t *testing.T) {
	s := Summary{TotalViews: 3, TotalClicks: 1}
	assert.Equal(t, 33.33, ClickThroughRate(s))

	s = Summary{TotalViews: 3, TotalClicks: 2}
	assert.Equal(t, 66.67, ClickThroughRate(s))
}

func TestSummarizeDays(t *testing.T) {
	late := time.Date(2026, 3, 9, 23, 30, 0, 0, time.UTC)
	early := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	events := []domain.AnalyticsEvent{
		click(domain.LinkTypeSocial, 0, "Instagram", &early),
		view(&early),
		view(&late),
		click(domain.LinkTypeSocial, 0, "Instagram", &late),
	}

	s := Summarize(events, time.UTC)
	assert.Equal(t, map[string]int{"2026-03-09": 1, "2026-03-10": 1}, s.ClicksByDay)
	assert.Equal(t, map[string]int{"2026-03-09": 1, "2026-03-10": 1}, s.ViewsByDay)

	bangkok := time.FixedZone("ICT", 7*60*60)
	s = Summarize(events, bangkok)
	assert.Equal(t, map[string]int{"2026-03-10": 2}, s.ViewsByDay)
}

func TestSummarizeTopLinksOrder(t *testing.T) {
	events := []domain.AnalyticsEvent{
		click(domain.LinkTypeSupport, 1, "FAQ", nil),
		click(domain.LinkTypeBooking, 0, "Airbnb", nil),
		click(domain.LinkTypeBooking, 1, "Vrbo", nil),
		click(domain.LinkTypeBooking, 1, "Vrbo", nil),
		click(domain.LinkTypeSocial, 0, "Instagram", nil),
	}

	s := Summarize(events, nil)
	require.Len(t, s.TopLinks, 4)
	assert.Equal(t, "booking-1", s.TopLinks[0].Key)
	// ties keep encounter order
	assert.Equal(t, "support-1", s.TopLinks[1].Key)
	assert.Equal(t, "booking-0", s.TopLinks[2].Key)
	assert.Equal(t, "social-0", s.TopLinks[3].Key)
}

func TestSummarizeLimits(t *testing.T) {
	var events []domain.AnalyticsEvent
	for i := 0; i < 15; i++ {
		events = append(events, click(domain.LinkTypeBooking, i, fmt.Sprintf("P%d", i), nil))
	}

	s := Summarize(events, time.UTC)
	assert.Len(t, s.TopLinks, 10)
	assert.Len(t, s.RecentEvents, 10)
	assert.Equal(t, events[:10], s.RecentEvents)
	assert.Len(t, s.ClicksByLink, 15)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, time.UTC)
	assert.Equal(t, EmptySummary(), s)
}
