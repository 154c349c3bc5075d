package content

// DeploymentStatus of a site instance
type DeploymentStatus string

const (
	DeploymentStatusDraft    DeploymentStatus = "draft"
	DeploymentStatusDeployed DeploymentStatus = "deployed"
)

// SiteInstance a persisted generated site
type SiteInstance struct {
	ID   string             `json:"id"`
	Data *GeneratedSiteData `json:"data"`
	// LastSaved unix milliseconds
	LastSaved        int64            `json:"lastSaved"`
	UserID           string           `json:"userId,omitempty"`
	FormInputs       *GeneratorInputs `json:"formInputs,omitempty"`
	DeployedURL      string           `json:"deployedUrl,omitempty"`
	DeploymentStatus DeploymentStatus `json:"deploymentStatus,omitempty"`
	CustomDomain     string           `json:"customDomain,omitempty"`
	DomainOrderID    string           `json:"domainOrderId,omitempty"`
}

// Clone returns a deep copy
func (s *SiteInstance) Clone() *SiteInstance {
	if s == nil {
		return nil
	}
	c := *s
	c.Data = s.Data.Clone()
	if s.FormInputs != nil {
		inputs := *s.FormInputs
		c.FormInputs = &inputs
	}
	return &c
}

// BrandColor returns the validated brand color of the instance
func (s *SiteInstance) BrandColor() string {
	if s.FormInputs != nil && IsHexColor(s.FormInputs.BrandColor) {
		return s.FormInputs.BrandColor
	}
	return DefaultBrandColor
}
