package domain

import (
	"strconv"
	"strings"
)

// PlatformTemplate is a well-known link target offered by the editor.
type PlatformTemplate struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// ThemeSettings are the place fields a theme overwrites.
type ThemeSettings struct {
	Color           string `json:"color"`
	BackgroundColor string `json:"backgroundColor"`
	FontColor       string `json:"fontColor"`
	ButtonTextColor string `json:"buttonTextColor"`
	LinkStyle       string `json:"linkStyle"`
}

type ThemePreview struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

type Theme struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Preview     ThemePreview  `json:"preview"`
	Settings    ThemeSettings `json:"settings"`
}

var platformCatalog = map[LinkType][]PlatformTemplate{
	LinkTypeBooking: {
		{Name: "Direct Booking", Icon: "https://cdn-icons-png.flaticon.com/512/2721/2721985.png"},
		{Name: "Airbnb", Icon: "https://cdn.worldvectorlogo.com/logos/airbnb.svg"},
		{Name: "Booking.com", Icon: "https://cdn.worldvectorlogo.com/logos/bookingcom-1.svg"},
		{Name: "Vrbo", Icon: "https://cdn-icons-png.flaticon.com/512/2942/2942988.png"},
		{Name: "Expedia", Icon: "https://cdn.worldvectorlogo.com/logos/expedia.svg"},
		{Name: "TripAdvisor", Icon: "https://cdn.worldvectorlogo.com/logos/tripadvisor-logo.svg"},
		{Name: "OpenTable", Icon: "https://cdn-icons-png.flaticon.com/512/1998/1998541.png"},
		{Name: "Yelp", Icon: "https://cdn.worldvectorlogo.com/logos/yelp-icon.svg"},
		{Name: "Grubhub", Icon: "https://cdn.worldvectorlogo.com/logos/grubhub-1.svg"},
		{Name: "DoorDash", Icon: "https://cdn.worldvectorlogo.com/logos/doordash-logo.svg"},
		{Name: "UberEats", Icon: "https://cdn.worldvectorlogo.com/logos/uber-eats-1.svg"},
	},
	LinkTypeSocial: {
		{Name: "Instagram", Icon: "https://cdn.worldvectorlogo.com/logos/instagram-2016-5.svg"},
		{Name: "Facebook", Icon: "https://cdn.worldvectorlogo.com/logos/facebook-3-2.svg"},
		{Name: "X", Icon: "https://cdn.worldvectorlogo.com/logos/x-2.svg"},
		{Name: "YouTube", Icon: "https://cdn.worldvectorlogo.com/logos/youtube-6.svg"},
		{Name: "Pinterest", Icon: "https://cdn.worldvectorlogo.com/logos/pinterest-3.svg"},
		{Name: "TikTok", Icon: "https://cdn.worldvectorlogo.com/logos/tiktok-1.svg"},
		{Name: "LinkedIn", Icon: "https://cdn.worldvectorlogo.com/logos/linkedin-icon-2.svg"},
	},
	LinkTypeSupport: {
		{Name: "Travel Agent", Icon: "https://cdn-icons-png.flaticon.com/512/3169/3169832.png"},
		{Name: "Local Guide", Icon: "https://cdn-icons-png.flaticon.com/512/484/484167.png"},
		{Name: "Experiences", Icon: "https://cdn-icons-png.flaticon.com/512/2335/2335330.png"},
		{Name: "Gastronomy Tours", Icon: "https://cdn-icons-png.flaticon.com/512/1077/1077047.png"},
		{Name: "Transportation", Icon: "https://cdn-icons-png.flaticon.com/512/741/741407.png"},
		{Name: "Customer Support", Icon: "https://cdn-icons-png.flaticon.com/512/2706/2706962.png"},
		{Name: "FAQ", Icon: "https://cdn-icons-png.flaticon.com/512/189/189665.png"},
	},
}

var themeCatalog = []Theme{
	theme("classic-blue", "Classic Blue", "Professional and trustworthy", "#3B82F6", "#60A5FA", "#3B82F6", "#FFFFFF", "#000000", LinkStyleRounded),
	theme("elegant-purple", "Elegant Purple", "Luxurious and sophisticated", "#9333EA", "#A855F7", "#9333EA", "#FFFFFF", "#1F2937", LinkStylePill),
	theme("nature-green", "Nature Green", "Fresh and eco-friendly", "#10B981", "#34D399", "#10B981", "#F0FDF4", "#064E3B", LinkStyleRounded),
	theme("sunset-orange", "Sunset Orange", "Warm and inviting", "#F59E0B", "#FBBF24", "#F59E0B", "#FFFBEB", "#78350F", LinkStyleRounded),
	theme("ocean-teal", "Ocean Teal", "Calm and refreshing", "#14B8A6", "#2DD4BF", "#14B8A6", "#F0FDFA", "#134E4A", LinkStylePill),
	theme("rose-pink", "Rose Pink", "Romantic and charming", "#EC4899", "#F472B6", "#EC4899", "#FDF2F8", "#831843", LinkStylePill),
	theme("midnight-dark", "Midnight Dark", "Modern and sleek", "#1F2937", "#374151", "#1F2937", "#F9FAFB", "#111827", LinkStyleSquare),
	theme("ruby-red", "Ruby Red", "Bold and energetic", "#DC2626", "#EF4444", "#DC2626", "#FEF2F2", "#7F1D1D", LinkStyleRounded),
	theme("minimalist", "Minimalist", "Clean and simple", "#000000", "#6B7280", "#000000", "#FFFFFF", "#000000", LinkStyleOutline),
	theme("sky-blue", "Sky Blue", "Light and airy", "#0EA5E9", "#38BDF8", "#0EA5E9", "#F0F9FF", "#0C4A6E", LinkStylePill),
}

// All presets use white button text.
func theme(id, name, desc, primary, secondary, color, bg, font, style string) Theme {
	return Theme{
		ID:          id,
		Name:        name,
		Description: desc,
		Preview:     ThemePreview{Primary: primary, Secondary: secondary},
		Settings: ThemeSettings{
			Color:           color,
			BackgroundColor: bg,
			FontColor:       font,
			ButtonTextColor: "#FFFFFF",
			LinkStyle:       style,
		},
	}
}

// Platforms returns a copy of the platform templates for t.
func Platforms(t LinkType) []PlatformTemplate {
	src := platformCatalog[t]
	out := make([]PlatformTemplate, len(src))
	copy(out, src)
	return out
}

// FindPlatform matches a template by name, ignoring case.
func FindPlatform(t LinkType, name string) (PlatformTemplate, bool) {
	for _, p := range platformCatalog[t] {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, true
		}
	}
	return PlatformTemplate{}, false
}

// Themes returns a copy of the theme presets in catalog order.
func Themes() []Theme {
	out := make([]Theme, len(themeCatalog))
	copy(out, themeCatalog)
	return out
}

func FindTheme(id string) (Theme, bool) {
	for _, t := range themeCatalog {
		if t.ID == id {
			return t, true
		}
	}
	return Theme{}, false
}

// ContrastTextColor picks black or white text for a button of the given
// background color. Anything that is not a hex color gets black.
func ContrastTextColor(hex string) string {
	r, g, b, ok := parseHexColor(hex)
	if !ok {
		return "#000000"
	}
	brightness := (float64(r)*299 + float64(g)*587 + float64(b)*114) / 1000
	if brightness > 180 {
		return "#000000"
	}
	return "#FFFFFF"
}

func parseHexColor(hex string) (r, g, b uint8, ok bool) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}
