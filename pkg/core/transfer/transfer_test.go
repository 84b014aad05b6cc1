package transfer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/domain"
	"github.com/xuri/excelize/v2"
)

func samplePlace() domain.Place {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	clicked := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	p := domain.NewPlace("owner@example.com", "Cafe X")
	p.ID = "place-1"
	p.Description = "Coffee and rooms"
	p.BookingLinks = []domain.Link{
		{ID: "b1", Platform: "Airbnb", DisplayName: "Stay with us", URL: "https://airbnb.com/rooms/1", IsActive: true, ShowIcon: true, Clicks: 12, LastClicked: &clicked, StartDate: &start},
	}
	p.SocialLinks = []domain.Link{
		{ID: "s1", Platform: "Instagram", URL: "https://instagram.com/cafex", IsActive: false, ShowIcon: true, Clicks: 3},
	}
	p.SupportLinks = []domain.Link{
		{ID: "u1", Platform: `FAQ "quick"`, DisplayName: "FAQ", URL: "https://cafex.example/faq", IsActive: true},
	}
	return p
}

func TestImportJSONDropsInvalidLinks(t *testing.T) {
	im, err := ImportJSON(strings.NewReader(`{"name":"Cafe X","bookingLinks":[{"platform":"Airbnb","url":"not-a-url"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "Cafe X", im.Name)
	assert.Len(t, im.Links.Booking, 0)
}

func TestImportJSONRequiresName(t *testing.T) {
	_, err := ImportJSON(strings.NewReader(`{"description":"no name"}`))
	assert.ErrorIs(t, err, domain.ErrImportNameRequired)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = ImportJSON(strings.NewReader(`{"name":"<b></b>"}`))
	assert.ErrorIs(t, err, domain.ErrImportNameRequired)

	_, err = ImportJSON(strings.NewReader(`{not json`))
	assert.ErrorIs(t, err, domain.ErrImportMalformed)

	_, err = ImportJSON(strings.NewReader(``))
	assert.ErrorIs(t, err, domain.ErrImportMalformed)
}

func TestImportJSONSanitizesAndDefaults(t *testing.T) {
	doc := `{
		"name": "<script>alert(1)</script>Cafe <b>X</b>",
		"bio": "<img src=x onerror=alert(1)>Best beans",
		"locationMapUrl": "javascript:alert(1)",
		"linkStyle": "zigzag",
		"color": "",
		"fontColor": "red",
		"sectionLabels": {"bookingLinks": "<i>Reserve</i>", "bogus": "x"},
		"socialLinks": [
			{"platform": "Instagram", "url": "https://instagram.com/x"},
			{"platform": "", "url": "https://facebook.com/x"},
			{"platform": "X", "url": "https://x.com/cafe", "isActive": false, "showIcon": false, "startDate": "2026-01-01", "endDate": "soon"}
		]
	}`

	im, err := ImportJSON(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, "Cafe X", im.Name)
	assert.NotContains(t, im.Bio, "<")
	assert.Equal(t, "", im.LocationMapURL)
	assert.Equal(t, domain.LinkStyleRounded, im.LinkStyle)
	assert.Equal(t, domain.DefaultColor, im.Color)
	assert.Equal(t, domain.DefaultFontColor, im.FontColor)
	assert.True(t, im.ShowIcons)
	assert.True(t, im.IsActive)
	assert.Equal(t, map[domain.SectionKey]string{domain.SectionBooking: "Reserve"}, im.SectionLabels)

	require.Len(t, im.Links.Social, 2)
	first, second := im.Links.Social[0], im.Links.Social[1]
	assert.Equal(t, "Instagram", first.DisplayName)
	assert.True(t, first.IsActive)
	assert.True(t, first.ShowIcon)
	assert.NotEmpty(t, first.ID)
	assert.False(t, second.IsActive)
	assert.False(t, second.ShowIcon)
	require.NotNil(t, second.StartDate)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *second.StartDate)
	assert.Nil(t, second.EndDate)
	assert.Len(t, im.Warnings, 1)

	encoded := `{"name":"&lt;img src=x onerror=alert(1)&gt;Cafe X","bio":"&lt;b&gt;hi&lt;/b&gt;","description":"&lt;script&gt;alert(1)&lt;/script&gt;Fresh"}`
	im, err = ImportJSON(strings.NewReader(encoded))
	require.NoError(t, err)
	assert.Equal(t, "Cafe X", im.Name)
	assert.Equal(t, "hi", im.Bio)
	assert.Equal(t, "Fresh", im.Description)
}

func TestExportJSONExcludesServerFields(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, samplePlace(), now))

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.Equal(t, "1.0", raw["exportVersion"])
	assert.Equal(t, "2026-03-01T12:00:00Z", raw["exportedAt"])
	for _, key := range []string{"userId", "id", "createdAt", "updatedAt"} {
		assert.NotContains(t, raw, key)
	}
	link := raw["bookingLinks"].([]interface{})[0].(map[string]interface{})
	assert.NotContains(t, link, "clicks")
	assert.NotContains(t, link, "lastClicked")
	assert.NotContains(t, link, "id")
}

func TestJSONRoundTrip(t *testing.T) {
	p := samplePlace()
	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, p, time.Now()))

	im, err := ImportJSON(&buf)
	require.NoError(t, err)

	target := domain.NewPlace("someone-else", "Old")
	target.ID = "place-2"
	out := im.Apply(target)

	assert.Equal(t, "place-2", out.ID)
	assert.Equal(t, "someone-else", out.UserID)
	assert.Equal(t, p.Name, out.Name)
	require.Len(t, out.BookingLinks, 1)
	assert.Equal(t, "Stay with us", out.BookingLinks[0].DisplayName)
	assert.Equal(t, p.BookingLinks[0].StartDate, out.BookingLinks[0].StartDate)
	assert.Equal(t, int64(0), out.BookingLinks[0].Clicks)
	assert.False(t, out.SocialLinks[0].IsActive)
	assert.NotEqual(t, "b1", out.BookingLinks[0].ID)
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, samplePlace()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, `"Link Type","Platform","Display Name","URL","Is Active","Start Date","End Date"`, lines[0])
	assert.Equal(t, `"Booking","Airbnb","Stay with us","https://airbnb.com/rooms/1","Yes","2026-06-01",""`, lines[1])
	assert.Equal(t, `"Social","Instagram","Instagram","https://instagram.com/cafex","No","",""`, lines[2])
	assert.Equal(t, `"Support","FAQ ""quick""","FAQ","https://cafex.example/faq","Yes","",""`, lines[3])
}

func TestCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, samplePlace()))

	set, warnings, err := ImportCSV(&buf)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	require.Len(t, set.Booking, 1)
	require.Len(t, set.Social, 1)
	require.Len(t, set.Support, 1)
	assert.True(t, set.Booking[0].IsActive)
	assert.False(t, set.Social[0].IsActive)
	assert.Equal(t, `FAQ "quick"`, set.Support[0].Platform)
	assert.Equal(t, "https://cdn.worldvectorlogo.com/logos/airbnb.svg", set.Booking[0].Icon)
	require.NotNil(t, set.Booking[0].StartDate)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), *set.Booking[0].StartDate)
}

func TestImportCSVSkipsBadRows(t *testing.T) {
	in := strings.Join([]string{
		`Link Type,Platform,Display Name,URL,Is Active,Start Date,End Date`,
		`Booking,Airbnb,,https://airbnb.com,yes`,
		`Email,Newsletter,,https://news.example,No`,
		`Social,Instagram`,
		`Support,FAQ,,not-a-url,Yes`,
		``,
		`support,Guide,Local tips,https://guide.example,YES,2026-01-01,2026-01-31`,
	}, "\n")

	set, warnings, err := ImportCSV(strings.NewReader(in))
	require.NoError(t, err)

	require.Len(t, set.Booking, 2)
	assert.Equal(t, "Airbnb", set.Booking[0].DisplayName)
	assert.True(t, set.Booking[0].IsActive)
	assert.Equal(t, "Newsletter", set.Booking[1].Platform)
	assert.False(t, set.Booking[1].IsActive)
	require.Len(t, set.Support, 1)
	assert.Equal(t, "Local tips", set.Support[0].DisplayName)
	assert.Empty(t, set.Social)
	assert.Len(t, warnings, 3)
	assert.Equal(t, 3, set.Len())
}

func TestImportCSVNeedsDataRow(t *testing.T) {
	_, _, err := ImportCSV(strings.NewReader("Link Type,Platform,Display Name,URL\n\n"))
	assert.ErrorIs(t, err, domain.ErrImportMalformed)

	_, _, err = ImportCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrImportMalformed)
}

func TestAppendTo(t *testing.T) {
	p := samplePlace()
	set := LinkSet{Social: []domain.Link{{ID: "n1", Platform: "TikTok", URL: "https://tiktok.com/@x"}}}

	out := set.AppendTo(p)
	assert.Len(t, out.SocialLinks, 2)
	assert.Len(t, p.SocialLinks, 1)
	assert.Equal(t, "TikTok", out.SocialLinks[1].Platform)
}

func TestExportXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportXLSX(&buf, samplePlace()))

	xl, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer xl.Close()

	rows, err := xl.GetRows("Links")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Clicks", rows[0][7])
	assert.Equal(t, "Airbnb", rows[1][1])
	assert.Equal(t, "12", rows[1][7])
}

func TestFilename(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	assert.Equal(t, "Cafe-X-export-1700000000000.json", Filename("Cafe X", "export", "json", now))
	assert.Equal(t, "place-links-1700000000000.csv", Filename("  ", "links", "csv", now))
}
