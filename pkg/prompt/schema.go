package prompt

import (
	"google.golang.org/genai"
)

// Schema structured output schema of the generative language api
type Schema = genai.Schema

// Sections required in a generated document
var Sections = []string{
	"hero", "trust", "servicesOverview", "valueBanner",
	"detailedServices", "emergency", "whyChooseUs", "finalCta", "contact",
}

// ResponseSchema returns the schema the generated document must conform to
func ResponseSchema() *Schema {
	return object(map[string]*Schema{
		"hero":             stringObject("headline", "subheadline", "ctaText"),
		"trust":            trust(),
		"servicesOverview": cardSection(4, 6),
		"valueBanner":      stringObject("headline", "subheadline", "ctaText"),
		"detailedServices": cardSection(6, 6),
		"emergency":        stringObject("headline", "paragraph", "ctaText"),
		"whyChooseUs":      whyChooseUs(),
		"finalCta":         stringObject("headline", "subheadline", "ctaText"),
		"contact":          stringObject("phone", "location", "companyName"),
	}, Sections...)
}

func trust() *Schema {
	s := stringObject("headline", "paragraph", "ctaText")
	s.Properties["bullets"] = array(str(), 4, 5)
	s.Required = []string{"headline", "paragraph", "bullets", "ctaText"}
	s.PropertyOrdering = s.Required
	return s
}

func cardSection(minItems, maxItems int64) *Schema {
	return object(map[string]*Schema{
		"headline": str(),
		"cards":    array(stringObject("title", "description", "icon"), minItems, maxItems),
	}, "headline", "cards")
}

func whyChooseUs() *Schema {
	return object(map[string]*Schema{
		"headline":        str(),
		"paragraph":       str(),
		"differentiators": array(stringObject("title", "description"), 3, 4),
	}, "headline", "paragraph", "differentiators")
}

func object(properties map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: genai.TypeObject, Properties: properties, Required: required, PropertyOrdering: required}
}

// stringObject returns an object whose named properties are all required strings
func stringObject(names ...string) *Schema {
	properties := make(map[string]*Schema, len(names))
	for _, name := range names {
		properties[name] = str()
	}
	return object(properties, names...)
}

func array(items *Schema, minItems, maxItems int64) *Schema {
	return &Schema{Type: genai.TypeArray, Items: items, MinItems: genai.Ptr(minItems), MaxItems: genai.Ptr(maxItems)}
}

func str() *Schema {
	return &Schema{Type: genai.TypeString}
}
