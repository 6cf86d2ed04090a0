package models

// StylePreferencesIn is the typed form of the profile/preference payload that
// flows into stylist prompts. Validated once at the controller boundary so
// downstream code never sees untyped blobs.
type StylePreferencesIn struct {
	BodyType       *string  `json:"body_type" validate:"omitempty,max=50"`
	PreferredFit   *string  `json:"preferred_fit" validate:"omitempty,oneof=slim regular relaxed oversized"`
	FavoriteColors []string `json:"favorite_colors" validate:"omitempty,max=10,dive,max=30"`
	AvoidColors    []string `json:"avoid_colors" validate:"omitempty,max=10,dive,max=30"`
	Notes          *string  `json:"notes" validate:"omitempty,max=500"`
}

// WithDefaults fills the optional fields so prompt building can rely on them.
func (p *StylePreferencesIn) WithDefaults() StylePreferencesIn {
	out := StylePreferencesIn{}
	if p != nil {
		out = *p
	}
	if out.PreferredFit == nil {
		fit := "regular"
		out.PreferredFit = &fit
	}
	if out.FavoriteColors == nil {
		out.FavoriteColors = []string{}
	}
	if out.AvoidColors == nil {
		out.AvoidColors = []string{}
	}
	return out
}
