// Package fixtures provides site documents and generator inputs shared by tests and the stub vendor server.
package fixtures

import (
	"github.com/foomo/sitegen/content"
)

const (
	Phone   = "5125550100"
	SiteID  = "6f1c2a52-7d0e-4d2b-9a57-0d9d3b0e8a11"
	SiteID2 = "0b7e3c1d-2f4a-4c9e-8b6d-5a1f2e3d4c5b"
)

func Inputs() content.GeneratorInputs {
	return content.GeneratorInputs{
		Industry:    "Plumbing",
		CompanyName: "Acme Plumbing",
		Location:    "Austin",
		Phone:       Phone,
		BrandColor:  "#0ea5e9",
		Services:    "Leak repair, drain cleaning",
	}
}

// SiteData returns a complete document in which every CTA carries Phone and the copy holds no digits
func SiteData() *content.GeneratedSiteData {
	cards := func(titles ...string) []content.ServiceCard {
		ret := make([]content.ServiceCard, 0, len(titles))
		for _, title := range titles {
			ret = append(ret, content.ServiceCard{Title: title, Description: title + " done right.", Icon: "wrench"})
		}
		return ret
	}
	return &content.GeneratedSiteData{
		Hero: content.Hero{
			Headline:    "Professional Plumbing in Austin",
			Subheadline: "Acme Plumbing provides reliable plumbing for homes and businesses.",
			CTAText:     "Get an Estimate — Call " + Phone,
			HeroImage:   "https://example.com/hero.jpg",
		},
		Trust: content.Trust{
			Headline:  "Trusted Plumbing Experts Serving Austin",
			Paragraph: "We help property owners with every job.",
			Bullets:   []string{"Professional-grade equipment", "Responsive scheduling", "Transparent communication", "Clean work areas"},
			CTAText:   "Call Us — " + Phone,
			Image:     "https://example.com/trust.jpg",
		},
		ServicesOverview: content.ServicesOverview{
			Headline: "Our Core Services",
			Cards:    cards("Leak Repair", "Drain Cleaning", "Water Heaters", "Repiping"),
		},
		ValueBanner: content.Banner{
			Headline:    "Safe, Reliable Plumbing for Your Property",
			Subheadline: "Designed to keep water flowing.",
			CTAText:     "Request Service — " + Phone,
		},
		DetailedServices: content.ServicesOverview{
			Headline: "What We Offer",
			Cards:    cards("Fixture Installs", "Sewer Lines", "Gas Lines", "Inspections", "Remodels", "Maintenance"),
		},
		Emergency: content.Emergency{
			Headline:  "Have a Burst Pipe? We're Just a Call Away.",
			Paragraph: "Throughout Austin we respond quickly.",
			CTAText:   "Call Now — " + Phone,
		},
		WhyChooseUs: content.WhyChooseUs{
			Headline:  "Why Austin Chooses Acme Plumbing",
			Paragraph: "Quality first, every visit.",
			Differentiators: []content.Differentiator{
				{Title: "Local & Reliable", Description: "We live here."},
				{Title: "Dedicated Team", Description: "We care about the details."},
				{Title: "Honest Pricing", Description: "Clear quotes before we start."},
			},
			Image: "https://example.com/why.jpg",
		},
		FinalCTA: content.Banner{
			Headline:    "Complete Plumbing Solutions",
			Subheadline: "Serving all of Austin.",
			CTAText:     "Contact Us — " + Phone,
		},
		Contact: content.Contact{
			Phone:       Phone,
			Location:    "Austin",
			CompanyName: "Acme Plumbing",
		},
	}
}

// Site returns a draft instance holding SiteData
func Site() *content.SiteInstance {
	inputs := Inputs()
	return &content.SiteInstance{
		ID:               SiteID,
		Data:             SiteData(),
		LastSaved:        1767225600000,
		FormInputs:       &inputs,
		DeploymentStatus: content.DeploymentStatusDraft,
	}
}
