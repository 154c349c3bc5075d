package requests

import (
	"github.com/foomo/sitegen/content"
)

// Generate starts a site generation
type Generate = content.GeneratorInputs

// UpdateField edits a single field of a site
type UpdateField struct {
	// dotted field path, e.g. "trust.bullets.2"
	Path  string `json:"path"`
	Value string `json:"value"`
}

// CheckDomain looks up a fully qualified domain or a name plus one of the supported tlds
type CheckDomain struct {
	Domain string `json:"domain,omitempty"`
	Name   string `json:"name,omitempty"`
	TLD    string `json:"tld,omitempty"`
}

// DomainCheckout starts the payment for a domain
type DomainCheckout struct {
	Domain string `json:"domain"`
	// registrar price in USD
	Price *float64 `json:"price,omitempty"`
	// VercelPrice legacy name of Price
	VercelPrice *float64 `json:"vercelPrice,omitempty"`
	SiteID      string   `json:"siteId"`
	ProjectName string   `json:"projectName"`
}

// PurchaseDomain finalizes a paid checkout session
type PurchaseDomain struct {
	SessionID string `json:"sessionId"`
}

// PortalSession opens the billing portal for a customer
type PortalSession struct {
	CustomerID string `json:"customerId"`
}

// USDPrice returns Price or VercelPrice, 0 if none was sent
func (r DomainCheckout) USDPrice() float64 {
	switch {
	case r.Price != nil:
		return *r.Price
	case r.VercelPrice != nil:
		return *r.VercelPrice
	default:
		return 0
	}
}
