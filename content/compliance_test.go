package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCTAPhone(t *testing.T) {
	doc := newTestSite()
	doc.Hero.CTAText = "Get an Estimate"
	doc.Emergency.CTAText = ""

	fixed := EnsureCTAPhone(doc, "5125550100")
	assert.Equal(t, 2, fixed)
	assert.Equal(t, "Get an Estimate — Call 5125550100", doc.Hero.CTAText)
	assert.Equal(t, "Call 5125550100", doc.Emergency.CTAText)
	for _, cta := range doc.CTAs() {
		assert.True(t, strings.Contains(cta, "5125550100"), cta)
	}
	assert.Equal(t, 0, EnsureCTAPhone(doc, "5125550100"))
}

func TestCheckCompliance_Clean(t *testing.T) {
	doc := newTestSite()
	inputs := GeneratorInputs{Phone: "5125550100"}
	assert.Empty(t, CheckCompliance(doc, inputs))
}

func TestCheckCompliance_Digits(t *testing.T) {
	doc := newTestSite()
	doc.Trust.Headline = "Over 15 Years of Trusted Plumbing in Austin"
	doc.ServicesOverview.Cards[0].Description = "Fixed in 24 hours."

	violations := CheckCompliance(doc, GeneratorInputs{Phone: "5125550100"})
	require.Len(t, violations, 2)
	assert.Equal(t, Violation{Rule: RuleDigits, Field: "servicesOverview.cards.0.description"}, violations[0])
	assert.Equal(t, Violation{Rule: RuleDigits, Field: "trust.headline"}, violations[1])

	violations = CheckCompliance(doc, GeneratorInputs{Phone: "5125550100", YearsInBusiness: "15"})
	require.Len(t, violations, 1)
	assert.Equal(t, "servicesOverview.cards.0.description", violations[0].Field)

	doc.Hero.Headline = "15 Years Serving Austin"
	violations = CheckCompliance(doc, GeneratorInputs{Phone: "5125550100", YearsInBusiness: "15"})
	require.Len(t, violations, 2)
	assert.Equal(t, "hero.headline", violations[0].Field)
}

func TestCheckCompliance_CTAPhone(t *testing.T) {
	doc := newTestSite()
	doc.FinalCTA.CTAText = "Contact Us Today"

	violations := CheckCompliance(doc, GeneratorInputs{Phone: "5125550100"})
	require.Len(t, violations, 1)
	assert.Equal(t, Violation{Rule: RuleCTAPhone, Field: string(FieldFinalCTACTAText)}, violations[0])
}
