package domain

// PlaceInput is the editable part of a place as submitted by the editor.
// Nil link slices and nil flags leave the stored value untouched on update.
type PlaceInput struct {
	Name              string                `json:"name" validate:"required,max=200"`
	Description       string                `json:"description" validate:"max=2000"`
	Bio               string                `json:"bio" validate:"max=2000"`
	Location          string                `json:"location" validate:"max=500"`
	LocationMapURL    string                `json:"locationMapUrl" validate:"omitempty,httpurl"`
	PlaceType         string                `json:"placeType" validate:"max=50"`
	CustomDomain      string                `json:"customDomain" validate:"max=255"`
	IsActive          *bool                 `json:"isActive"`
	Color             string                `json:"color" validate:"omitempty,hexcolor"`
	BackgroundColor   string                `json:"backgroundColor" validate:"omitempty,hexcolor"`
	FontColor         string                `json:"fontColor" validate:"omitempty,hexcolor"`
	ButtonTextColor   string                `json:"buttonTextColor" validate:"omitempty,hexcolor"`
	LinkStyle         string                `json:"linkStyle" validate:"omitempty,oneof=rounded pill square outline"`
	ButtonEffect      string                `json:"buttonEffect" validate:"max=50"`
	BackgroundPattern string                `json:"backgroundPattern" validate:"max=50"`
	ShowIcons         *bool                 `json:"showIcons"`
	BookingLinks      []Link                `json:"bookingLinks"`
	SocialLinks       []Link                `json:"socialLinks"`
	SupportLinks      []Link                `json:"supportLinks"`
	SectionLabels     map[SectionKey]string `json:"sectionLabels"`
	SectionVisibility map[SectionKey]bool   `json:"sectionVisibility"`
}
