package content

import (
	"sort"
	"strings"
)

// Compliance rules
const (
	RuleCTAPhone = "cta_phone"
	RuleDigits   = "digits"
)

// Violation a generated field breaking a copy rule
type Violation struct {
	Rule  string `json:"rule"`
	Field string `json:"field"`
}

// EnsureCTAPhone appends the phone number to every call to action that does not already
// contain it and returns the number of fixed CTAs.
func EnsureCTAPhone(d *GeneratedSiteData, phone string) int {
	if phone == "" {
		return 0
	}
	var fixed int
	for _, cta := range d.ctaFields() {
		if strings.Contains(*cta, phone) {
			continue
		}
		if strings.TrimSpace(*cta) == "" {
			*cta = "Call " + phone
		} else {
			*cta = strings.TrimSpace(*cta) + " — Call " + phone
		}
		fixed++
	}
	return fixed
}

// CheckCompliance reports CTAs missing the phone number and digits in copy
// outside the CTAs and the contact block. A supplied years in business value
// is only allowed in the trust headline.
func CheckCompliance(d *GeneratedSiteData, inputs GeneratorInputs) []Violation {
	var ret []Violation
	ctas := map[TextField]string{
		FieldHeroCTAText:        d.Hero.CTAText,
		FieldTrustCTAText:       d.Trust.CTAText,
		FieldValueBannerCTAText: d.ValueBanner.CTAText,
		FieldEmergencyCTAText:   d.Emergency.CTAText,
		FieldFinalCTACTAText:    d.FinalCTA.CTAText,
	}
	for _, field := range []TextField{FieldHeroCTAText, FieldTrustCTAText, FieldValueBannerCTAText, FieldEmergencyCTAText, FieldFinalCTACTAText} {
		if inputs.Phone != "" && !strings.Contains(ctas[field], inputs.Phone) {
			ret = append(ret, Violation{Rule: RuleCTAPhone, Field: string(field)})
		}
	}
	for path, text := range d.copyFields() {
		if inputs.YearsInBusiness != "" && path == string(FieldTrustHeadline) {
			text = strings.ReplaceAll(text, inputs.YearsInBusiness, "")
		}
		if inputs.Phone != "" {
			text = strings.ReplaceAll(text, inputs.Phone, "")
		}
		if strings.ContainsAny(text, "0123456789") {
			ret = append(ret, Violation{Rule: RuleDigits, Field: path})
		}
	}
	sort.Slice(ret, func(i, j int) bool {
		if ret[i].Rule != ret[j].Rule {
			return ret[i].Rule < ret[j].Rule
		}
		return ret[i].Field < ret[j].Field
	})
	return ret
}

// copyFields returns all marketing copy keyed by field path
func (d *GeneratedSiteData) copyFields() map[string]string {
	ret := map[string]string{}
	for _, f := range []TextField{
		FieldHeroHeadline, FieldHeroSubheadline,
		FieldTrustHeadline, FieldTrustParagraph,
		FieldServicesOverviewHeadline,
		FieldValueBannerHeadline, FieldValueBannerSubheadline,
		FieldDetailedServicesHeadline,
		FieldEmergencyHeadline, FieldEmergencyParagraph,
		FieldWhyChooseUsHeadline, FieldWhyChooseUsParagraph,
		FieldFinalCTAHeadline, FieldFinalCTASubheadline,
	} {
		ret[string(f)] = *d.textField(f)
	}
	for i, v := range d.Trust.Bullets {
		ret[BulletUpdate{Index: i}.Path()] = v
	}
	for _, list := range []CardList{CardListServicesOverview, CardListDetailedServices} {
		cards := d.ServicesOverview.Cards
		if list == CardListDetailedServices {
			cards = d.DetailedServices.Cards
		}
		for i, c := range cards {
			ret[CardUpdate{List: list, Index: i, Part: CardPartTitle}.Path()] = c.Title
			ret[CardUpdate{List: list, Index: i, Part: CardPartDescription}.Path()] = c.Description
		}
	}
	for i, v := range d.WhyChooseUs.Differentiators {
		ret[DifferentiatorUpdate{Index: i, Part: CardPartTitle}.Path()] = v.Title
		ret[DifferentiatorUpdate{Index: i, Part: CardPartDescription}.Path()] = v.Description
	}
	return ret
}
