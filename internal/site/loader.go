package site

import (
	"context"
	"fmt"

	"github.com/solvefurniture/storefront/internal/content"
	"golang.org/x/sync/errgroup"
)

// Source supplies the content resources of one build.
type Source interface {
	Home(ctx context.Context) (content.HomeRecord, error)
	Products(ctx context.Context) ([]content.ProductRecord, error)
	Rooms(ctx context.Context) ([]content.RoomRecord, error)
	Stores(ctx context.Context) ([]content.StoreRecord, error)
	Categories(ctx context.Context) ([]content.CategoryRecord, error)
}

// Snapshot is the content of one build, fetched once.
type Snapshot struct {
	Home       content.HomeRecord
	Products   []content.ProductRecord
	Rooms      []content.RoomRecord
	Stores     []content.StoreRecord
	Categories []content.CategoryRecord
}

// Load fetches every resource concurrently. The first failure cancels the
// remaining fetches and is returned.
func Load(ctx context.Context, src Source) (Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		home, err := src.Home(ctx)
		if err != nil {
			return fmt.Errorf("load home: %w", err)
		}
		snap.Home = home
		return nil
	})
	g.Go(func() error {
		products, err := src.Products(ctx)
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}
		snap.Products = products
		return nil
	})
	g.Go(func() error {
		rooms, err := src.Rooms(ctx)
		if err != nil {
			return fmt.Errorf("load rooms: %w", err)
		}
		snap.Rooms = rooms
		return nil
	})
	g.Go(func() error {
		stores, err := src.Stores(ctx)
		if err != nil {
			return fmt.Errorf("load stores: %w", err)
		}
		snap.Stores = stores
		return nil
	})
	g.Go(func() error {
		categories, err := src.Categories(ctx)
		if err != nil {
			return fmt.Errorf("load categories: %w", err)
		}
		snap.Categories = categories
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
