package content

func newTestSite() *GeneratedSiteData {
	return &GeneratedSiteData{
		Hero: Hero{
			Headline:    "Professional Plumbing in Austin",
			Subheadline: "Acme Plumbing provides reliable plumbing.",
			CTAText:     "Get an Estimate — Call 5125550100",
			HeroImage:   "https://example.com/hero.jpg",
		},
		Trust: Trust{
			Headline:  "Trusted Plumbing Experts Serving Austin",
			Paragraph: "We help with every job.",
			Bullets:   []string{"Professional-grade equipment", "Responsive scheduling", "Transparent communication", "Clean work areas"},
			CTAText:   "Call Us — 5125550100",
			Image:     "https://example.com/trust.jpg",
		},
		ServicesOverview: ServicesOverview{
			Headline: "Our Core Services",
			Cards: []ServiceCard{
				{Title: "Leak Repair", Description: "We fix leaks.", Icon: "droplets"},
				{Title: "Drain Cleaning", Description: "We clear drains.", Icon: "wrench"},
				{Title: "Water Heaters", Description: "We service heaters.", Icon: "flame"},
				{Title: "Repiping", Description: "We replace pipes.", Icon: "settings"},
			},
		},
		ValueBanner: Banner{
			Headline:    "Safe, Reliable Plumbing for Your Property",
			Subheadline: "Designed to keep water flowing.",
			CTAText:     "Request Service — 5125550100",
		},
		DetailedServices: ServicesOverview{
			Headline: "What We Offer",
			Cards: []ServiceCard{
				{Title: "A", Description: "a", Icon: "wrench"},
				{Title: "B", Description: "b", Icon: "wrench"},
				{Title: "C", Description: "c", Icon: "wrench"},
				{Title: "D", Description: "d", Icon: "wrench"},
				{Title: "E", Description: "e", Icon: "wrench"},
				{Title: "F", Description: "f", Icon: "wrench"},
			},
		},
		Emergency: Emergency{
			Headline:  "Have a Burst Pipe? We're Just a Call Away.",
			Paragraph: "Throughout Austin we respond quickly.",
			CTAText:   "Call Now — 5125550100",
		},
		WhyChooseUs: WhyChooseUs{
			Headline:  "Why Austin Chooses Acme Plumbing",
			Paragraph: "Quality first.",
			Differentiators: []Differentiator{
				{Title: "Local & Reliable", Description: "We live here."},
				{Title: "Dedicated Team", Description: "We care."},
				{Title: "Honest Pricing", Description: "Clear quotes."},
			},
			Image: "https://example.com/why.jpg",
		},
		FinalCTA: Banner{
			Headline:    "Complete Plumbing Solutions",
			Subheadline: "Serving all of Austin.",
			CTAText:     "Contact Us — 5125550100",
		},
		Contact: Contact{
			Phone:       "5125550100",
			Location:    "Austin",
			CompanyName: "Acme Plumbing",
		},
	}
}
