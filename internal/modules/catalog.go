// Package modules holds the static feature module catalog. The set of
// valid keys is fixed at build time; entitlement rows referencing other
// keys are rejected at the store boundary.
package modules

// Module describes one feature area a workspace may unlock.
type Module struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Group       string `json:"group"`
	Description string `json:"description"`
}

// Catalog lists every known module, in display order.
var Catalog = []Module{
	{Key: "ads", Name: "Ads Automation", Group: "Acquisition", Description: "Rules, pacing, fatigue, guardrails."},
	{Key: "crm", Name: "CRM & Leads", Group: "Acquisition", Description: "Lead inbox, pipeline, assignments, follow-ups."},
	{Key: "whatsapp", Name: "WhatsApp", Group: "Retention", Description: "Inbox, flows, templates, COD confirmation."},
	{Key: "retention", Name: "Retention", Group: "Retention", Description: "Email/SMS/WA lifecycle flows + segments."},
	{Key: "profit", Name: "Profit & Attribution", Group: "Analytics", Description: "Profit ROAS, cohorts, CAC payback, RTO."},
	{Key: "ugc", Name: "UGC / Creatives", Group: "Acquisition", Description: "Creators, briefs, assets, approvals."},
	{Key: "affiliate", Name: "Influencer/Affiliate", Group: "Acquisition", Description: "Tracking links, commissions, payouts."},
	{Key: "seo", Name: "SEO Content", Group: "Retention", Description: "Plans, clusters, audits, refresh alerts."},
	{Key: "reputation", Name: "Reputation", Group: "Analytics", Description: "Reviews, requests, multi-location."},
	{Key: "connectors", Name: "Connectors", Group: "Analytics", Description: "Sync, webhooks, logs, data routing."},
}

var byKey = func() map[string]Module {
	m := make(map[string]Module, len(Catalog))
	for _, mod := range Catalog {
		m[mod.Key] = mod
	}
	return m
}()

// Lookup returns the catalog entry for a key.
func Lookup(key string) (Module, bool) {
	m, ok := byKey[key]
	return m, ok
}

// ValidKey reports whether the key belongs to the catalog.
func ValidKey(key string) bool {
	_, ok := byKey[key]
	return ok
}
