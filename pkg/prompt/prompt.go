package prompt

import (
	"strings"

	"github.com/foomo/sitegen/content"
)

// Slot identifies one of the generated images
type Slot string

const (
	SlotHero        Slot = "hero"
	SlotTrust       Slot = "trust"
	SlotWhyChooseUs Slot = "whyChooseUs"
)

// Slots in page order
var Slots = []Slot{SlotHero, SlotTrust, SlotWhyChooseUs}

// StatusMessages progress messages shown while a site is generated
var StatusMessages = []string{
	"Setting up your website structure...",
	"Creating your homepage layout...",
	"Adding your services and content...",
	"Optimizing layout for mobile and desktop...",
	"Applying your business details...",
	"Finalizing design and sections...",
	"Your site is almost ready...",
}

// Build returns the text generation prompt with every placeholder substituted
func Build(inputs content.GeneratorInputs) string {
	return strings.NewReplacer(
		"{industry}", inputs.Industry,
		"{companyName}", inputs.CompanyName,
		"{location}", inputs.Location,
		"{phone}", inputs.Phone,
		"{services}", inputs.Services,
		"{tagline}", inputs.Tagline,
		"{yearsInBusiness}", inputs.YearsInBusiness,
	).Replace(template)
}

// Image returns the photographic prompt for the given slot
func Image(slot Slot, inputs content.GeneratorInputs) string {
	switch slot {
	case SlotHero:
		return "Wide establishing shot of a professional " + inputs.Industry + " team working at a residential job site in " + inputs.Location + ". Professional uniforms, cinematic lighting, 8k resolution. No text, no logos."
	case SlotTrust:
		return "Action shot of a " + inputs.Industry + " team actively working on a project. Shows professionalism and teamwork, tools visible, natural lighting, high quality. No text, no logos."
	case SlotWhyChooseUs:
		return "Professional portrait of a " + inputs.Industry + " team posing with their equipment and service vehicle. Confident, approachable, well-lit, high quality. No text, no logos."
	default:
		return ""
	}
}
