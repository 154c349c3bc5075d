package content

import (
	"slices"
)

// FallbackImageURL replaces images that could not be generated or are unsafe to render
const FallbackImageURL = "https://images.unsplash.com/photo-1581094794329-c8112a89af12?auto=format&fit=crop&q=80&w=1200"

type (
	// GeneratedSiteData the generated landing page document
	GeneratedSiteData struct {
		Hero             Hero             `json:"hero"`
		Trust            Trust            `json:"trust"`
		ServicesOverview ServicesOverview `json:"servicesOverview"`
		ValueBanner      Banner           `json:"valueBanner"`
		DetailedServices ServicesOverview `json:"detailedServices"`
		Emergency        Emergency        `json:"emergency"`
		WhyChooseUs      WhyChooseUs      `json:"whyChooseUs"`
		FinalCTA         Banner           `json:"finalCta"`
		Contact          Contact          `json:"contact"`
	}
	Hero struct {
		Headline    string `json:"headline"`
		Subheadline string `json:"subheadline"`
		CTAText     string `json:"ctaText"`
		HeroImage   string `json:"heroImage"`
	}
	Trust struct {
		Headline  string   `json:"headline"`
		Paragraph string   `json:"paragraph"`
		Bullets   []string `json:"bullets"`
		CTAText   string   `json:"ctaText"`
		Image     string   `json:"image"`
	}
	ServicesOverview struct {
		Headline string        `json:"headline"`
		Cards    []ServiceCard `json:"cards"`
	}
	// Banner is shared by the value banner and the final call to action
	Banner struct {
		Headline    string `json:"headline"`
		Subheadline string `json:"subheadline"`
		CTAText     string `json:"ctaText"`
	}
	Emergency struct {
		Headline  string `json:"headline"`
		Paragraph string `json:"paragraph"`
		CTAText   string `json:"ctaText"`
	}
	WhyChooseUs struct {
		Headline        string           `json:"headline"`
		Paragraph       string           `json:"paragraph"`
		Differentiators []Differentiator `json:"differentiators"`
		Image           string           `json:"image"`
	}
	ServiceCard struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		// Icon lucide icon name in dash-case
		Icon string `json:"icon"`
	}
	Differentiator struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	Contact struct {
		Phone       string `json:"phone"`
		Location    string `json:"location"`
		CompanyName string `json:"companyName"`
	}
)

// Clone returns a deep copy
func (d *GeneratedSiteData) Clone() *GeneratedSiteData {
	if d == nil {
		return nil
	}
	c := *d
	c.Trust.Bullets = slices.Clone(d.Trust.Bullets)
	c.ServicesOverview.Cards = slices.Clone(d.ServicesOverview.Cards)
	c.DetailedServices.Cards = slices.Clone(d.DetailedServices.Cards)
	c.WhyChooseUs.Differentiators = slices.Clone(d.WhyChooseUs.Differentiators)
	return &c
}

// CTAs returns the five call to action texts in page order
func (d *GeneratedSiteData) CTAs() []string {
	return []string{
		d.Hero.CTAText,
		d.Trust.CTAText,
		d.ValueBanner.CTAText,
		d.Emergency.CTAText,
		d.FinalCTA.CTAText,
	}
}

func (d *GeneratedSiteData) ctaFields() []*string {
	return []*string{
		&d.Hero.CTAText,
		&d.Trust.CTAText,
		&d.ValueBanner.CTAText,
		&d.Emergency.CTAText,
		&d.FinalCTA.CTAText,
	}
}
