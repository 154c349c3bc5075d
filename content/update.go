package content

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrUnknownField    = errors.New("unknown field")
	ErrIndexOutOfRange = errors.New("index out of range")
)

type (
	// Update is a single edit of a generated document.
	// Implemented by TextUpdate, BulletUpdate, CardUpdate and DifferentiatorUpdate.
	Update interface {
		// Path returns the dotted field path the update targets
		Path() string
		apply(d *GeneratedSiteData) error
	}
	// TextUpdate replaces a scalar text or image field
	TextUpdate struct {
		Field TextField
		Value string
	}
	// BulletUpdate replaces one trust bullet
	BulletUpdate struct {
		Index int
		Value string
	}
	// CardUpdate replaces one part of a service card
	CardUpdate struct {
		List  CardList
		Index int
		Part  CardPart
		Value string
	}
	// DifferentiatorUpdate replaces one part of a differentiator
	DifferentiatorUpdate struct {
		Index int
		Part  CardPart
		Value string
	}
)

// TextField scalar field path
type TextField string

const (
	FieldHeroHeadline             TextField = "hero.headline"
	FieldHeroSubheadline          TextField = "hero.subheadline"
	FieldHeroCTAText              TextField = "hero.ctaText"
	FieldHeroImage                TextField = "hero.heroImage"
	FieldTrustHeadline            TextField = "trust.headline"
	FieldTrustParagraph           TextField = "trust.paragraph"
	FieldTrustCTAText             TextField = "trust.ctaText"
	FieldTrustImage               TextField = "trust.image"
	FieldServicesOverviewHeadline TextField = "servicesOverview.headline"
	FieldValueBannerHeadline      TextField = "valueBanner.headline"
	FieldValueBannerSubheadline   TextField = "valueBanner.subheadline"
	FieldValueBannerCTAText       TextField = "valueBanner.ctaText"
	FieldDetailedServicesHeadline TextField = "detailedServices.headline"
	FieldEmergencyHeadline        TextField = "emergency.headline"
	FieldEmergencyParagraph       TextField = "emergency.paragraph"
	FieldEmergencyCTAText         TextField = "emergency.ctaText"
	FieldWhyChooseUsHeadline      TextField = "whyChooseUs.headline"
	FieldWhyChooseUsParagraph     TextField = "whyChooseUs.paragraph"
	FieldWhyChooseUsImage         TextField = "whyChooseUs.image"
	FieldFinalCTAHeadline         TextField = "finalCta.headline"
	FieldFinalCTASubheadline      TextField = "finalCta.subheadline"
	FieldFinalCTACTAText          TextField = "finalCta.ctaText"
	FieldContactPhone             TextField = "contact.phone"
	FieldContactLocation          TextField = "contact.location"
	FieldContactCompanyName       TextField = "contact.companyName"
)

// CardList names the two card sequences
type CardList string

const (
	CardListServicesOverview CardList = "servicesOverview"
	CardListDetailedServices CardList = "detailedServices"
)

// CardPart names a field of a card or differentiator
type CardPart string

const (
	CardPartTitle       CardPart = "title"
	CardPartDescription CardPart = "description"
	CardPartIcon        CardPart = "icon"
)

// ImageFields lists the fields holding image sources
var ImageFields = []TextField{FieldHeroImage, FieldTrustImage, FieldWhyChooseUsImage}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// ParseUpdate maps a dotted field path onto a typed update
func ParseUpdate(path string, value string) (Update, error) {
	parts := strings.Split(path, ".")
	switch {
	case len(parts) == 2:
		field := TextField(path)
		if !field.valid() {
			return nil, unknownField(path)
		}
		return TextUpdate{Field: field, Value: value}, nil
	case len(parts) == 3 && parts[0] == "trust" && parts[1] == "bullets":
		index, err := parseIndex(path, parts[2])
		if err != nil {
			return nil, err
		}
		return BulletUpdate{Index: index, Value: value}, nil
	case len(parts) == 4 && parts[1] == "cards":
		list := CardList(parts[0])
		if list != CardListServicesOverview && list != CardListDetailedServices {
			return nil, unknownField(path)
		}
		index, err := parseIndex(path, parts[2])
		if err != nil {
			return nil, err
		}
		part := CardPart(parts[3])
		if part != CardPartTitle && part != CardPartDescription && part != CardPartIcon {
			return nil, unknownField(path)
		}
		return CardUpdate{List: list, Index: index, Part: part, Value: value}, nil
	case len(parts) == 4 && parts[0] == "whyChooseUs" && parts[1] == "differentiators":
		index, err := parseIndex(path, parts[2])
		if err != nil {
			return nil, err
		}
		part := CardPart(parts[3])
		if part != CardPartTitle && part != CardPartDescription {
			return nil, unknownField(path)
		}
		return DifferentiatorUpdate{Index: index, Part: part, Value: value}, nil
	default:
		return nil, unknownField(path)
	}
}

// Apply returns a copy of doc with the update applied. doc itself is never modified.
func Apply(doc *GeneratedSiteData, u Update) (*GeneratedSiteData, error) {
	if doc == nil {
		return nil, errors.New("nil document")
	}
	next := doc.Clone()
	if err := u.apply(next); err != nil {
		return nil, err
	}
	return next, nil
}

// IsImage reports whether the field holds an image source
func (f TextField) IsImage() bool {
	for _, v := range ImageFields {
		if v == f {
			return true
		}
	}
	return false
}

func (u TextUpdate) Path() string {
	return string(u.Field)
}

func (u BulletUpdate) Path() string {
	return "trust.bullets." + strconv.Itoa(u.Index)
}

func (u CardUpdate) Path() string {
	return string(u.List) + ".cards." + strconv.Itoa(u.Index) + "." + string(u.Part)
}

func (u DifferentiatorUpdate) Path() string {
	return "whyChooseUs.differentiators." + strconv.Itoa(u.Index) + "." + string(u.Part)
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (u TextUpdate) apply(d *GeneratedSiteData) error {
	ptr := d.textField(u.Field)
	if ptr == nil {
		return unknownField(string(u.Field))
	}
	*ptr = u.Value
	return nil
}

func (u BulletUpdate) apply(d *GeneratedSiteData) error {
	if u.Index < 0 || u.Index >= len(d.Trust.Bullets) {
		return outOfRange(u.Path(), len(d.Trust.Bullets))
	}
	d.Trust.Bullets[u.Index] = u.Value
	return nil
}

func (u CardUpdate) apply(d *GeneratedSiteData) error {
	var cards []ServiceCard
	switch u.List {
	case CardListServicesOverview:
		cards = d.ServicesOverview.Cards
	case CardListDetailedServices:
		cards = d.DetailedServices.Cards
	default:
		return unknownField(u.Path())
	}
	if u.Index < 0 || u.Index >= len(cards) {
		return outOfRange(u.Path(), len(cards))
	}
	card := &cards[u.Index]
	switch u.Part {
	case CardPartTitle:
		card.Title = u.Value
	case CardPartDescription:
		card.Description = u.Value
	case CardPartIcon:
		card.Icon = u.Value
	default:
		return unknownField(u.Path())
	}
	return nil
}

func (u DifferentiatorUpdate) apply(d *GeneratedSiteData) error {
	items := d.WhyChooseUs.Differentiators
	if u.Index < 0 || u.Index >= len(items) {
		return outOfRange(u.Path(), len(items))
	}
	switch u.Part {
	case CardPartTitle:
		items[u.Index].Title = u.Value
	case CardPartDescription:
		items[u.Index].Description = u.Value
	default:
		return unknownField(u.Path())
	}
	return nil
}

func (f TextField) valid() bool {
	var d GeneratedSiteData
	return d.textField(f) != nil
}

func (d *GeneratedSiteData) textField(f TextField) *string {
	switch f {
	case FieldHeroHeadline:
		return &d.Hero.Headline
	case FieldHeroSubheadline:
		return &d.Hero.Subheadline
	case FieldHeroCTAText:
		return &d.Hero.CTAText
	case FieldHeroImage:
		return &d.Hero.HeroImage
	case FieldTrustHeadline:
		return &d.Trust.Headline
	case FieldTrustParagraph:
		return &d.Trust.Paragraph
	case FieldTrustCTAText:
		return &d.Trust.CTAText
	case FieldTrustImage:
		return &d.Trust.Image
	case FieldServicesOverviewHeadline:
		return &d.ServicesOverview.Headline
	case FieldValueBannerHeadline:
		return &d.ValueBanner.Headline
	case FieldValueBannerSubheadline:
		return &d.ValueBanner.Subheadline
	case FieldValueBannerCTAText:
		return &d.ValueBanner.CTAText
	case FieldDetailedServicesHeadline:
		return &d.DetailedServices.Headline
	case FieldEmergencyHeadline:
		return &d.Emergency.Headline
	case FieldEmergencyParagraph:
		return &d.Emergency.Paragraph
	case FieldEmergencyCTAText:
		return &d.Emergency.CTAText
	case FieldWhyChooseUsHeadline:
		return &d.WhyChooseUs.Headline
	case FieldWhyChooseUsParagraph:
		return &d.WhyChooseUs.Paragraph
	case FieldWhyChooseUsImage:
		return &d.WhyChooseUs.Image
	case FieldFinalCTAHeadline:
		return &d.FinalCTA.Headline
	case FieldFinalCTASubheadline:
		return &d.FinalCTA.Subheadline
	case FieldFinalCTACTAText:
		return &d.FinalCTA.CTAText
	case FieldContactPhone:
		return &d.Contact.Phone
	case FieldContactLocation:
		return &d.Contact.Location
	case FieldContactCompanyName:
		return &d.Contact.CompanyName
	default:
		return nil
	}
}

func parseIndex(path, v string) (int, error) {
	index, err := strconv.Atoi(v)
	if err != nil {
		return 0, unknownField(path)
	}
	if index < 0 {
		return 0, errors.Wrapf(ErrIndexOutOfRange, "%s", path)
	}
	return index, nil
}

func unknownField(path string) error {
	return errors.Wrapf(ErrUnknownField, "%q", path)
}

func outOfRange(path string, length int) error {
	return errors.Wrapf(ErrIndexOutOfRange, "%s (length %d)", path, length)
}
