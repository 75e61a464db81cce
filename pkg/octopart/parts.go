package octopart

import (
	"context"
	"fmt"

	domain "github.com/donaldgifford/partsearch/pkg/types"
)

// GetPart fetches one part by uid. args may carry optimize.hide_* flags. It
// returns nil when the part does not exist.
func (c *Client) GetPart(ctx context.Context, uid int64, args Args) (*Response[domain.Part], error) {
	raw, err := c.call(ctx, partsGet, []Arg{{Key: "uid", Value: uid}}, args)
	if err != nil {
		return nil, err
	}
	return mapObject(pathPartsGet, raw, PartFromJSON)
}

// GetParts fetches up to 100 parts by uid.
func (c *Client) GetParts(ctx context.Context, uids []int64, args Args) (*Response[[]domain.Part], error) {
	raw, err := c.call(ctx, partsGetMulti, []Arg{{Key: "uids", Value: uids}}, args)
	if err != nil {
		return nil, err
	}
	return mapArray(pathPartsGetMulti, raw, "", PartFromJSON)
}

// SearchParts runs a part search. Drilldown results are mapped only when
// drilldown.include is set.
func (c *Client) SearchParts(ctx context.Context, args Args) (*Response[domain.PartSearchResult], error) {
	raw, err := c.call(ctx, partsSearch, nil, args)
	if err != nil {
		return nil, err
	}

	result := domain.PartSearchResult{Hits: []domain.PartHit{}}
	if raw == nil {
		return &Response[domain.PartSearchResult]{Value: result, Raw: raw}, nil
	}

	hits, err := mapArray(pathPartsSearch, raw, "results", partHitFromJSON)
	if err != nil {
		return nil, err
	}
	result.Hits = hits.Value

	m, _ := mapValue(raw)
	r := newRecord(pathPartsSearch, m)
	result.HitCount = r.int("hits")
	if r.err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", pathPartsSearch, r.err)
	}

	if include, _ := boolValue(collectedArgs(args)["drilldown.include"]); include {
		drill, err := mapArray(pathPartsSearch, raw, "drilldown", DrilldownFromJSON)
		if err != nil {
			return nil, err
		}
		result.Drilldown = drill.Value
	}
	return &Response[domain.PartSearchResult]{Value: result, Raw: raw}, nil
}

// SuggestParts returns query completions for q, which must be at least two
// characters long. limit may be at most 10.
func (c *Client) SuggestParts(ctx context.Context, q string, args Args) (*Response[[]string], error) {
	raw, err := c.call(ctx, partsSuggest, []Arg{{Key: "q", Value: q}}, args)
	if err != nil {
		return nil, err
	}
	items, err := listOf(pathPartsSuggest, raw, "results")
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		s, ok := stringValue(it)
		if !ok {
			return nil, fmt.Errorf("parsing %s response: %w: results[%d] is %T, not a string",
				pathPartsSuggest, ErrMalformedResource, i, it)
		}
		out = append(out, s)
	}
	return &Response[[]string]{Value: out, Raw: raw}, nil
}

// MatchParts looks up the parts made by manufacturer under mpn.
func (c *Client) MatchParts(ctx context.Context, manufacturer, mpn string) (*Response[[]domain.PartMatch], error) {
	raw, err := c.call(ctx, partsMatch, []Arg{
		{Key: "manufacturer_name", Value: manufacturer},
		{Key: "mpn", Value: mpn},
	}, nil)
	if err != nil {
		return nil, err
	}
	items, err := listOf(pathPartsMatch, raw, "")
	if err != nil {
		return nil, err
	}
	out := make([]domain.PartMatch, 0, len(items))
	for i, it := range items {
		pm, err := partMatchFromJSON(it)
		if err != nil {
			return nil, fmt.Errorf("parsing %s response: %w: [%d] %v", pathPartsMatch, ErrMalformedResource, i, err)
		}
		out = append(out, pm)
	}
	return &Response[[]domain.PartMatch]{Value: out, Raw: raw}, nil
}

// partMatchFromJSON reads a [uid, manufacturer, mpn] triple or the
// equivalent object.
func partMatchFromJSON(v any) (domain.PartMatch, error) {
	if m, ok := mapValue(v); ok {
		r := newRecord("match", m)
		pm := domain.PartMatch{
			UID:          r.requireInt("uid"),
			Manufacturer: r.string("manufacturer"),
			MPN:          r.string("mpn"),
		}
		return pm, r.err
	}
	l, ok := listValue(v)
	if !ok || len(l) != 3 {
		return domain.PartMatch{}, fmt.Errorf("got %v, not a [uid, manufacturer, mpn] triple", v)
	}
	uid, ok := jsonInt(l[0])
	if !ok {
		return domain.PartMatch{}, fmt.Errorf("uid %v is not an integer", l[0])
	}
	return domain.PartMatch{UID: uid, Manufacturer: textOf(l[1]), MPN: textOf(l[2])}, nil
}

// collectedArgs returns the caller's options with API spellings.
func collectedArgs(opts Args) Args {
	return argsOf(collect(nil, opts))
}
