package fixtures

import "maps"

// Optimize lists the sections of a part left out of a response.
type Optimize struct {
	HideDatasheets         bool
	HideDescriptions       bool
	HideImages             bool
	HideOffers             bool
	HideUnauthorizedOffers bool
	HideSpecs              bool
}

// Apply returns a copy of part without the hidden sections. The catalog
// record is left untouched.
func (o Optimize) Apply(part Object) Object {
	out := maps.Clone(part)
	if o.HideDatasheets {
		delete(out, "datasheets")
	}
	if o.HideDescriptions {
		delete(out, "descriptions")
	}
	if o.HideImages {
		delete(out, "images")
	}
	if o.HideSpecs {
		delete(out, "specs")
	}
	switch {
	case o.HideOffers:
		delete(out, "offers")
	case o.HideUnauthorizedOffers:
		offers, _ := part["offers"].([]any)
		kept := make([]any, 0, len(offers))
		for _, of := range offers {
			m, _ := of.(map[string]any)
			if auth, _ := m["is_authorized"].(bool); auth {
				kept = append(kept, of)
			}
		}
		out["offers"] = kept
	}
	return out
}
