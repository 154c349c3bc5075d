package content

import (
	"time"
)

// Lead a captured generator submission
type Lead struct {
	ID          string          `json:"id"`
	CompanyName string          `json:"companyName"`
	Phone       string          `json:"phone"`
	Industry    string          `json:"industry"`
	Location    string          `json:"location"`
	RawData     GeneratorInputs `json:"rawData"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// NewLead maps generator inputs onto a lead record
func NewLead(id string, inputs GeneratorInputs, createdAt time.Time) *Lead {
	return &Lead{
		ID:          id,
		CompanyName: inputs.CompanyName,
		Phone:       inputs.Phone,
		Industry:    inputs.Industry,
		Location:    inputs.Location,
		RawData:     inputs,
		CreatedAt:   createdAt,
	}
}
