package config

import (
	"strings"

	"gestiogastos/internal/model"

	"github.com/shopspring/decimal"
)

// SiteConfig is the admin-editable key/value configuration served by the
// remote API (GET /config). Values are strings on the wire; the typed
// accessors fall back to the defaults on missing or malformed entries.
type SiteConfig map[string]string

// DefaultSiteConfig mirrors the server-side defaults.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		"site_name":             "GestióGastos",
		"company_name":          "Grup Lomi",
		"currency":              "EUR",
		"default_km_price":      "0.57",
		"auto_validate_under":   "50",
		"require_photo_for":     "Dieta,Parking",
		"supported_languages":   "es,ca,en,fr,de",
		"default_language":      "es",
		"default_theme":         "light",
		"admin_email":           "admin@gruplomi.com",
		"notifications_enabled": "true",
	}
}

// Merge overlays remote values on top of the defaults.
func (c SiteConfig) Merge(remote map[string]string) SiteConfig {
	out := make(SiteConfig, len(c)+len(remote))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range remote {
		out[k] = v
	}
	return out
}

func (c SiteConfig) get(key string) string {
	if v, ok := c[key]; ok && v != "" {
		return v
	}
	return DefaultSiteConfig()[key]
}

// Currency returns the display currency code.
func (c SiteConfig) Currency() string {
	return c.get("currency")
}

// DefaultKmPrice returns the price-per-km pre-filled on fuel tickets.
func (c SiteConfig) DefaultKmPrice() decimal.Decimal {
	price, err := decimal.NewFromString(c.get("default_km_price"))
	if err != nil {
		return decimal.RequireFromString(DefaultSiteConfig()["default_km_price"])
	}
	return price
}

// RequirePhotoFor returns the ticket types that must carry an attached
// photo before submission.
func (c SiteConfig) RequirePhotoFor() []model.TicketType {
	var types []model.TicketType
	for _, raw := range strings.Split(c.get("require_photo_for"), ",") {
		t := model.TicketType(strings.TrimSpace(raw))
		if t.Valid() {
			types = append(types, t)
		}
	}
	return types
}

// PhotoRequired reports whether the given ticket type needs a photo.
func (c SiteConfig) PhotoRequired(t model.TicketType) bool {
	for _, required := range c.RequirePhotoFor() {
		if required == t {
			return true
		}
	}
	return false
}

// SupportedLanguages returns the language codes the UI may offer.
func (c SiteConfig) SupportedLanguages() []string {
	var langs []string
	for _, raw := range strings.Split(c.get("supported_languages"), ",") {
		if lang := strings.TrimSpace(raw); lang != "" {
			langs = append(langs, lang)
		}
	}
	return langs
}

// DefaultLanguage returns the language used before the user picks one.
func (c SiteConfig) DefaultLanguage() string {
	return c.get("default_language")
}

// DefaultTheme returns the theme used before the user picks one.
func (c SiteConfig) DefaultTheme() string {
	return c.get("default_theme")
}
