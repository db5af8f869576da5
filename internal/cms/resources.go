package cms

import (
	"context"

	"github.com/solvefurniture/storefront/internal/content"
)

// Resource paths under /api/.
const (
	ResourceHome       = "home"
	ResourceProducts   = "products"
	ResourceRooms      = "rooms"
	ResourceStores     = "stores"
	ResourceCategories = "categories"
)

// collectionPageSize is large enough to hold every record of the catalogue in
// one page.
const collectionPageSize = 100

var populated = Query{Populate: true, PageSize: collectionPageSize}

// Home fetches the home page single type with its media expanded.
func (c *Client) Home(ctx context.Context) (content.HomeRecord, error) {
	var env content.Envelope[content.HomeRecord]
	if err := c.Get(ctx, ResourceHome, Query{Populate: true}, &env); err != nil {
		return content.HomeRecord{}, err
	}
	return env.Data, nil
}

// Products fetches every product with relations expanded.
func (c *Client) Products(ctx context.Context) ([]content.ProductRecord, error) {
	return getList[content.Product](ctx, c, ResourceProducts, populated)
}

// Rooms fetches every room with relations expanded.
func (c *Client) Rooms(ctx context.Context) ([]content.RoomRecord, error) {
	return getList[content.Room](ctx, c, ResourceRooms, populated)
}

// Stores fetches every store with relations expanded.
func (c *Client) Stores(ctx context.Context) ([]content.StoreRecord, error) {
	return getList[content.Store](ctx, c, ResourceStores, populated)
}

// Categories fetches every product category.
func (c *Client) Categories(ctx context.Context) ([]content.CategoryRecord, error) {
	return getList[content.Category](ctx, c, ResourceCategories, Query{PageSize: collectionPageSize})
}

func getList[A any](ctx context.Context, c *Client, resource string, q Query) ([]content.Record[A], error) {
	var env content.Envelope[[]content.Record[A]]
	if err := c.Get(ctx, resource, q, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return []content.Record[A]{}, nil
	}
	return env.Data, nil
}
