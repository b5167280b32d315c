package entitlements

// Entitlement is a server-side billing entitlement record.
type Entitlement struct {
	ID                  string `json:"id"`
	FixedCharge         int    `json:"fixed_charge"`
	PriceName           string `json:"price_name"`
	UnitAmount          int    `json:"unit_amount"`
	FeatureKey          string `json:"feature_key"`
	FeatureName         string `json:"feature_name"`
	EntitlementLimitMax int    `json:"entitlement_limit_max"`
	EntitlementLimitMin int    `json:"entitlement_limit_min"`
}

// Plan is a subscription plan the organization is on.
type Plan struct {
	Key          string `json:"key"`
	Subscribed   bool   `json:"subscribed"`
	SubscribedOn string `json:"subscribed_on,omitempty"`
}

// Page is one page of the entitlements listing.
type Page struct {
	// OrgCode is the organization the entitlements belong to.
	OrgCode string

	// Plans are the organization's subscription plans.
	Plans []Plan

	// Entitlements are the records on this page.
	Entitlements []Entitlement

	// HasMore reports whether another page follows.
	HasMore bool

	// NextPageStartingAfter is the cursor for the next page, empty when
	// HasMore is false.
	NextPageStartingAfter string
}

// listResponse is the wire shape of the entitlements listing endpoint.
type listResponse struct {
	Data struct {
		OrgCode      string        `json:"org_code"`
		Plans        []Plan        `json:"plans"`
		Entitlements []Entitlement `json:"entitlements"`
	} `json:"data"`
	Metadata struct {
		HasMore               bool   `json:"has_more"`
		NextPageStartingAfter string `json:"next_page_starting_after"`
	} `json:"metadata"`
}

// getResponse is the wire shape of the single-entitlement endpoint.
type getResponse struct {
	Data struct {
		Entitlement Entitlement `json:"entitlement"`
	} `json:"data"`
}
