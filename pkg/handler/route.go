package handler

// Route names a handler in logs and metrics
type Route string

const (
	// RouteGenerate generate and store a new site
	RouteGenerate Route = "generate"
	// RouteGenerateStream generate a site while streaming progress over a websocket
	RouteGenerateStream Route = "generateStream"
	// RouteListSites list all sites
	RouteListSites Route = "listSites"
	// RouteGetSite get a single site
	RouteGetSite Route = "getSite"
	// RouteUpdateField edit a single text field
	RouteUpdateField Route = "updateField"
	// RouteUploadImage replace an image field with an uploaded file
	RouteUploadImage Route = "uploadImage"
	// RouteDeploy publish a site to the hosting provider
	RouteDeploy Route = "deploy"
	// RouteRevisions list stored revisions of a site
	RouteRevisions Route = "revisions"
	// RouteSitePage render a site as html
	RouteSitePage Route = "sitePage"
	// RouteCheckDomain check availability and price of a domain
	RouteCheckDomain Route = "checkDomain"
	// RouteDomainCheckout create a payment session for a domain
	RouteDomainCheckout Route = "createDomainCheckout"
	// RoutePurchaseDomain buy a paid domain
	RoutePurchaseDomain Route = "purchaseDomain"
	// RoutePortalSession open the billing portal
	RoutePortalSession Route = "createPortalSession"
	// RouteListLeads list captured leads
	RouteListLeads Route = "listLeads"
)
