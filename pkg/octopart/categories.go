package octopart

import (
	"context"

	domain "github.com/donaldgifford/partsearch/pkg/types"
)

// GetCategory fetches one category by id. It returns nil when the category
// does not exist.
func (c *Client) GetCategory(ctx context.Context, id int64) (*Response[domain.Category], error) {
	raw, err := c.call(ctx, categoriesGet, []Arg{{Key: "id", Value: id}}, nil)
	if err != nil {
		return nil, err
	}
	return mapObject(pathCategoriesGet, raw, CategoryFromJSON)
}

// GetCategories fetches up to 100 categories by id.
func (c *Client) GetCategories(ctx context.Context, ids []int64) (*Response[[]domain.Category], error) {
	raw, err := c.call(ctx, categoriesGetMulti, []Arg{{Key: "ids", Value: ids}}, nil)
	if err != nil {
		return nil, err
	}
	return mapArray(pathCategoriesGetMulti, raw, "", CategoryFromJSON)
}

// SearchCategories runs a category search. Accepted arguments are q, start,
// limit and ancestor_id.
func (c *Client) SearchCategories(ctx context.Context, args Args) (*Response[[]domain.CategoryHit], error) {
	raw, err := c.call(ctx, categoriesSearch, nil, args)
	if err != nil {
		return nil, err
	}
	return mapArray(pathCategoriesSearch, raw, "results", categoryHitFromJSON)
}
