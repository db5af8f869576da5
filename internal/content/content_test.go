package content

import (
	"encoding/json"
	"testing"
)

func TestDecodeHomeEnvelope(t *testing.T) {
	t.Parallel()

	payload := `{"data":{"id":1,"attributes":{
		"title":"Quiet style for loud lives",
		"background":{"data":{"id":3,"attributes":{"name":"hero.webp","url":"/uploads/hero.webp"}}},
		"highlight":{"title":"Lorem ipsum","text":"One_Two"},
		"bubblesTitle":"Made to be lived in",
		"bubblesBackground":{"data":null},
		"bubble":{"data":[
			{"id":7,"attributes":{"url":"/uploads/b1.webp","alternativeText":"Lamp"}},
			{"id":8,"attributes":{"url":"/uploads/b2.webp"}}
		]}
	}}}`

	var env Envelope[HomeRecord]
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	home := env.Data.Attributes
	if home.Title != "Quiet style for loud lives" {
		t.Fatalf("Title = %q", home.Title)
	}
	if got := MediaURL(home.Background); got != "/uploads/hero.webp" {
		t.Fatalf("MediaURL(Background) = %q", got)
	}
	if got := MediaAlt(home.Background); got != "hero.webp" {
		t.Fatalf("MediaAlt(Background) = %q, want name fallback", got)
	}
	if got := MediaURL(home.BubblesBackground); got != "" {
		t.Fatalf("MediaURL(empty relation) = %q, want empty", got)
	}
	if len(home.Bubble.Data) != 2 || home.Bubble.Data[0].Attributes.AlternativeText != "Lamp" {
		t.Fatalf("Bubble = %+v", home.Bubble.Data)
	}
}

func TestDecodeProductPrice(t *testing.T) {
	t.Parallel()

	payload := `{"data":[
		{"id":1,"attributes":{"name":"Fjord sofa","price":1299.9,"featured":true,
			"category":{"data":{"id":2,"attributes":{"name":"Seating","slug":"seating"}}}}},
		{"id":2,"attributes":{"name":"Birch lamp","price":"89.50"}}
	]}`

	var env Envelope[[]ProductRecord]
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := env.Data[0].Attributes.Price.String(); got != "1299.9" {
		t.Fatalf("Price = %s, want 1299.9", got)
	}
	if got := env.Data[1].Attributes.Price.StringFixed(2); got != "89.50" {
		t.Fatalf("Price = %s, want 89.50", got)
	}
	if env.Data[1].Attributes.Category.Data != nil {
		t.Fatalf("Category = %+v, want empty relation", env.Data[1].Attributes.Category)
	}
}
