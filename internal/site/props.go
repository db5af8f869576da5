package site

import "github.com/solvefurniture/storefront/internal/content"

// HomeRoomLimit is how many rooms the home page previews.
const HomeRoomLimit = 3

// HomeProps is the content the home page shows.
type HomeProps struct {
	Content  content.HomeContent
	Featured []content.ProductRecord
	Rooms    []content.RoomRecord
	Stores   []content.StoreRecord
}

// NewHomeProps keeps the featured products and the first HomeRoomLimit rooms.
func NewHomeProps(snap Snapshot) HomeProps {
	return HomeProps{
		Content:  snap.Home.Attributes,
		Featured: content.Featured(snap.Products),
		Rooms:    content.Take(snap.Rooms, HomeRoomLimit),
		Stores:   snap.Stores,
	}
}

// ShopProps is the content of one shop page.
type ShopProps struct {
	Categories []content.CategoryRecord
	Products   []content.ProductRecord
	// Category is the selected slug; empty means every product.
	Category string
}

// NewShopProps lists every product, or only those in category when set.
func NewShopProps(snap Snapshot, category string) ShopProps {
	products := snap.Products
	if category != "" {
		products = content.InCategory(snap.Products, category)
	}
	return ShopProps{
		Categories: snap.Categories,
		Products:   products,
		Category:   category,
	}
}

// RoomsProps is the content of the rooms page.
type RoomsProps struct {
	Rooms []content.RoomRecord
}

// NewRoomsProps lists every room.
func NewRoomsProps(snap Snapshot) RoomsProps {
	return RoomsProps{Rooms: snap.Rooms}
}
