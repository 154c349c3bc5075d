package content

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidInput caller supplied incomplete or malformed data
var ErrInvalidInput = errors.New("invalid input")

// DefaultBrandColor used when no valid brand color was supplied
const DefaultBrandColor = "#2563eb"

// GeneratorInputs business details submitted by the generator form
type GeneratorInputs struct {
	Industry        string `json:"industry"`
	CompanyName     string `json:"companyName"`
	Location        string `json:"location"`
	Phone           string `json:"phone"`
	BrandColor      string `json:"brandColor"`
	Services        string `json:"services,omitempty"`
	Tagline         string `json:"tagline,omitempty"`
	YearsInBusiness string `json:"yearsInBusiness,omitempty"`
}

// Validate checks that all required fields are present
func (i GeneratorInputs) Validate() error {
	var missing []string
	for name, value := range map[string]string{
		"industry":    i.Industry,
		"companyName": i.CompanyName,
		"location":    i.Location,
		"phone":       i.Phone,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return errors.Wrap(ErrInvalidInput, "missing required fields: "+strings.Join(missing, ", "))
}

// Normalize trims whitespace and applies defaults
func (i GeneratorInputs) Normalize() GeneratorInputs {
	i.Industry = strings.TrimSpace(i.Industry)
	i.CompanyName = strings.TrimSpace(i.CompanyName)
	i.Location = strings.TrimSpace(i.Location)
	i.Phone = strings.TrimSpace(i.Phone)
	i.Services = strings.TrimSpace(i.Services)
	i.Tagline = strings.TrimSpace(i.Tagline)
	i.YearsInBusiness = strings.TrimSpace(i.YearsInBusiness)
	if !IsHexColor(i.BrandColor) {
		i.BrandColor = DefaultBrandColor
	}
	return i
}

// IsHexColor reports whether v is a #rgb or #rrggbb color
func IsHexColor(v string) bool {
	if len(v) != 4 && len(v) != 7 {
		return false
	}
	if v[0] != '#' {
		return false
	}
	for _, c := range v[1:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
