package octopart

import (
	"context"

	domain "github.com/donaldgifford/partsearch/pkg/types"
)

// GetPartAttribute fetches one attribute by field name. It returns nil when
// the attribute does not exist.
func (c *Client) GetPartAttribute(ctx context.Context, fieldname string) (*Response[domain.PartAttribute], error) {
	raw, err := c.call(ctx, partAttributesGet, []Arg{{Key: "fieldname", Value: fieldname}}, nil)
	if err != nil {
		return nil, err
	}
	return mapObject(pathPartAttributesGet, raw, PartAttributeFromJSON)
}

// GetPartAttributes fetches several attributes by field name.
func (c *Client) GetPartAttributes(ctx context.Context, fieldnames []string) (*Response[[]domain.PartAttribute], error) {
	raw, err := c.call(ctx, partAttributesGetMulti, []Arg{{Key: "fieldnames", Value: fieldnames}}, nil)
	if err != nil {
		return nil, err
	}
	return mapArray(pathPartAttributesGetMulti, raw, "", PartAttributeFromJSON)
}
