package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestLinkIsVisible(t *testing.T) {
	now := *at("2026-03-10T12:00:00Z")

	tests := []struct {
		name string
		link Link
		want bool
	}{
		{name: "active without schedule", link: Link{IsActive: true}, want: true},
		{name: "inactive without schedule", link: Link{IsActive: false}, want: false},
		{name: "inactive inside window", link: Link{IsActive: false, StartDate: at("2026-03-01T00:00:00Z"), EndDate: at("2026-03-31T00:00:00Z")}, want: false},
		{name: "future start", link: Link{IsActive: true, StartDate: at("2026-03-11T00:00:00Z")}, want: false},
		{name: "past end", link: Link{IsActive: true, EndDate: at("2026-03-10T11:59:59Z")}, want: false},
		{name: "start bound inclusive", link: Link{IsActive: true, StartDate: at("2026-03-10T12:00:00Z")}, want: true},
		{name: "end bound inclusive", link: Link{IsActive: true, EndDate: at("2026-03-10T12:00:00Z")}, want: true},
		{name: "start after end", link: Link{IsActive: true, StartDate: at("2026-03-20T00:00:00Z"), EndDate: at("2026-03-01T00:00:00Z")}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.link.IsVisible(now))
		})
	}
}

func TestLinkBecomesVisibleAtStart(t *testing.T) {
	start := at("2026-05-01T00:00:00Z")
	link := Link{IsActive: true, StartDate: start}

	assert.False(t, link.IsVisible(start.Add(-time.Second)))
	assert.True(t, link.IsVisible(*start))
	assert.True(t, link.IsVisible(start.Add(48*time.Hour)))
}

func TestParseLinkType(t *testing.T) {
	lt, err := ParseLinkType(" Social ")
	require.NoError(t, err)
	assert.Equal(t, LinkTypeSocial, lt)

	_, err = ParseLinkType("email")
	assert.ErrorIs(t, err, ErrUnknownLinkType)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestIsValidURL(t *testing.T) {
	assert.True(t, IsValidURL("https://airbnb.com/rooms/1"))
	assert.True(t, IsValidURL("http://example.com"))
	assert.False(t, IsValidURL("not-a-url"))
	assert.False(t, IsValidURL("ftp://example.com"))
	assert.False(t, IsValidURL("https://"))
	assert.False(t, IsValidURL(""))
}

func TestCarryCounters(t *testing.T) {
	clicked := at("2026-01-02T10:00:00Z")
	stored := NewPlace("owner", "Cafe")
	stored.BookingLinks = []Link{
		{ID: "a", Platform: "Airbnb", Clicks: 7, LastClicked: clicked},
		{ID: "b", Platform: "Vrbo", Clicks: 3},
	}

	edited := stored.Clone()
	edited.BookingLinks[0].Clicks = 0
	edited.BookingLinks[0].LastClicked = nil
	edited.BookingLinks = append(edited.BookingLinks[:1], Link{ID: "c", Platform: "Expedia", Clicks: 99})

	edited.CarryCounters(stored)

	assert.Equal(t, int64(7), edited.BookingLinks[0].Clicks)
	assert.Equal(t, clicked, edited.BookingLinks[0].LastClicked)
	assert.Equal(t, int64(0), edited.BookingLinks[1].Clicks, "new links start at zero")
}

func TestCloneDoesNotAlias(t *testing.T) {
	p := NewPlace("owner", "Cafe")
	p.SocialLinks = []Link{{ID: "x", Platform: "Instagram", StartDate: at("2026-01-01T00:00:00Z")}}

	c := p.Clone()
	c.SocialLinks[0].Platform = "Facebook"
	*c.SocialLinks[0].StartDate = time.Time{}
	c.SectionLabels[SectionSocial] = "changed"

	assert.Equal(t, "Instagram", p.SocialLinks[0].Platform)
	assert.False(t, p.SocialLinks[0].StartDate.IsZero())
	assert.Equal(t, "Follow on social media:", p.SectionLabels[SectionSocial])
}

func TestEnsureLinkIDs(t *testing.T) {
	p := NewPlace("owner", "Cafe")
	p.BookingLinks = []Link{{Platform: "Airbnb"}, {ID: "keep", Platform: "Vrbo"}}

	assert.True(t, p.EnsureLinkIDs())
	assert.NotEmpty(t, p.BookingLinks[0].ID)
	assert.Equal(t, "keep", p.BookingLinks[1].ID)
	assert.False(t, p.EnsureLinkIDs())
}

func TestSectionLabel(t *testing.T) {
	p := NewPlace("owner", "Cafe")
	p.SectionLabels = map[SectionKey]string{}

	p.PlaceType = "restaurant"
	assert.Equal(t, "Make a reservation on:", p.SectionLabel(SectionBooking))
	assert.Equal(t, "Social Media", p.SectionLabel(SectionSocial))

	p.PlaceType = "castle"
	assert.Equal(t, "Available on:", p.SectionLabel(SectionBooking))

	p.SectionLabels[SectionSupport] = "Extras"
	assert.Equal(t, "Extras", p.SectionLabel(SectionSupport))
}

func TestContrastTextColor(t *testing.T) {
	tests := map[string]string{
		"#FFFFFF": "#000000",
		"#fff":    "#000000",
		"#3B82F6": "#FFFFFF",
		"#000000": "#FFFFFF",
		"#FBBF24": "#000000",
		"":        "#000000",
		"blue":    "#000000",
	}
	for in, want := range tests {
		assert.Equal(t, want, ContrastTextColor(in), in)
	}
}

func TestCatalogsAreCopies(t *testing.T) {
	themes := Themes()
	require.Len(t, themes, 10)
	themes[0].Name = "mutated"
	assert.Equal(t, "Classic Blue", Themes()[0].Name)

	platforms := Platforms(LinkTypeBooking)
	platforms[0].Name = "mutated"
	assert.Equal(t, "Direct Booking", Platforms(LinkTypeBooking)[0].Name)

	p, ok := FindPlatform(LinkTypeSocial, "instagram")
	require.True(t, ok)
	assert.Contains(t, p.Icon, "instagram")

	_, ok = FindTheme("nope")
	assert.False(t, ok)
}

func TestBuildPublicView(t *testing.T) {
	now := *at("2026-03-10T12:00:00Z")
	p := NewPlace("owner", "Cafe X")
	p.ID = "place-1"
	p.ButtonTextColor = ""
	p.Color = "#FFFFFF"
	p.SectionVisibility[SectionSupport] = false
	p.BookingLinks = []Link{
		{ID: "b1", Platform: "Airbnb", URL: "https://airbnb.com", IsActive: true, ShowIcon: false},
		{ID: "b2", Platform: "Vrbo", URL: "https://vrbo.com", IsActive: false},
	}
	p.SocialLinks = []Link{
		{ID: "s1", Platform: "Instagram", DisplayName: "Follow us", URL: "https://instagram.com/x", IsActive: true, ShowIcon: false},
	}
	p.SupportLinks = []Link{
		{ID: "u1", Platform: "FAQ", URL: "https://x.com/faq", IsActive: true, StartDate: at("2026-04-01T00:00:00Z")},
	}

	view, err := BuildPublicView(p, now)
	require.NoError(t, err)
	require.Len(t, view.Sections, 3)

	booking, support, social := view.Sections[0], view.Sections[1], view.Sections[2]
	assert.Equal(t, SectionBooking, booking.Key)
	assert.True(t, booking.Rendered)
	require.Len(t, booking.Links, 1)
	assert.Equal(t, "Airbnb", booking.Links[0].DisplayName)
	assert.False(t, booking.Links[0].ShowIcon)
	assert.Equal(t, "/p/place-1/go/booking/b1", booking.Links[0].TrackURL)

	assert.Equal(t, SectionSupport, support.Key)
	assert.False(t, support.Rendered)
	assert.False(t, support.ShowLabel)

	assert.Equal(t, SectionSocial, social.Key)
	require.Len(t, social.Links, 1)
	assert.True(t, social.Links[0].ShowIcon)
	assert.Equal(t, "Follow us", social.Links[0].DisplayName)
	assert.True(t, social.ShowLabel)

	assert.Equal(t, "#000000", view.Theme.ButtonTextColor)
}

func TestBuildPublicViewInactivePlace(t *testing.T) {
	p := NewPlace("owner", "Closed")
	p.IsActive = false
	p.BookingLinks = []Link{{ID: "b1", Platform: "Airbnb", URL: "https://airbnb.com", IsActive: true}}

	_, err := BuildPublicView(p, time.Now())
	assert.ErrorIs(t, err, ErrPlaceInactive)
	assert.ErrorIs(t, err, ErrNotFound)
}
