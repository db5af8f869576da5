// Package content defines the read-only records served by the content API
// and the small list helpers the pages apply to them.
//
// Records are fetched once per build and passed down unchanged; nothing in
// this package mutates its inputs.
package content

import "github.com/shopspring/decimal"

// Envelope is the top-level shape of every content API response.
type Envelope[T any] struct {
	Data T `json:"data"`
}

// Record is one content entry: an identifier plus its attributes.
type Record[A any] struct {
	ID         int `json:"id"`
	Attributes A   `json:"attributes"`
}

// Relation wraps an expanded related record or record list.
type Relation[T any] struct {
	Data T `json:"data"`
}

// Media is an uploaded asset.
type Media struct {
	Name            string `json:"name"`
	URL             string `json:"url"`
	AlternativeText string `json:"alternativeText"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	MIME            string `json:"mime"`
}

// MediaRef is a single expanded media relation. Data is nil when the relation
// is empty.
type MediaRef = Relation[*Record[Media]]

// MediaList is an expanded multi-media relation.
type MediaList = Relation[[]Record[Media]]

// MediaURL returns the media URL, or "" when the relation is empty.
func MediaURL(ref MediaRef) string {
	if ref.Data == nil {
		return ""
	}
	return ref.Data.Attributes.URL
}

// MediaAlt returns the alternative text, falling back to the media name.
func MediaAlt(ref MediaRef) string {
	if ref.Data == nil {
		return ""
	}
	if alt := ref.Data.Attributes.AlternativeText; alt != "" {
		return alt
	}
	return ref.Data.Attributes.Name
}

// Category groups products in the shop.
type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CategoryRecord is a fetched category.
type CategoryRecord = Record[Category]

// Product is a catalogue item.
type Product struct {
	Name        string                    `json:"name"`
	Slug        string                    `json:"slug"`
	Description string                    `json:"description"`
	Price       decimal.Decimal           `json:"price"`
	Featured    bool                      `json:"featured"`
	Image       MediaRef                  `json:"image"`
	Category    Relation[*CategoryRecord] `json:"category"`
}

// ProductRecord is a fetched product.
type ProductRecord = Record[Product]

// Room is a furnished room showcase.
type Room struct {
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Image       MediaRef `json:"image"`
}

// RoomRecord is a fetched room.
type RoomRecord = Record[Room]

// Store is a physical shop location.
type Store struct {
	Name    string   `json:"name"`
	Address string   `json:"address"`
	City    string   `json:"city"`
	Phone   string   `json:"phone"`
	Hours   string   `json:"hours"`
	Image   MediaRef `json:"image"`
}

// StoreRecord is a fetched store.
type StoreRecord = Record[Store]

// Highlight is the home page editorial block. Text separates paragraphs with
// underscores.
type Highlight struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// HomeContent holds the single-type home page attributes.
type HomeContent struct {
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Background        MediaRef  `json:"background"`
	Highlight         Highlight `json:"highlight"`
	BubblesTitle      string    `json:"bubblesTitle"`
	BubblesBackground MediaRef  `json:"bubblesBackground"`
	Bubble            MediaList `json:"bubble"`
}

// HomeRecord is the fetched home page single type.
type HomeRecord = Record[HomeContent]
