package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func catalogFixture() []Product {
	return []Product{
		{ProductID: 1, Name: "Pâtes complètes", Category: "grocery", Price: 45},
		{ProductID: 2, Name: "Basmati Rice", Category: "grocery", Price: 320},
		{ProductID: 3, Name: "Cotton T-Shirt", Category: "clothing", Price: 250},
	}
}

func TestSearchFoldsCaseAndDiacritics(t *testing.T) {
	products := catalogFixture()

	if got := Search(products, "PATES", ""); len(got) != 1 || got[0].ProductID != 1 {
		t.Errorf("Search(PATES) = %v, want the accented product", got)
	}
	if got := Search(products, "rice", ""); len(got) != 1 || got[0].ProductID != 2 {
		t.Errorf("Search(rice) = %v, want product 2", got)
	}
	if got := Search(products, "", "clothing"); len(got) != 1 || got[0].ProductID != 3 {
		t.Errorf("category filter = %v, want product 3", got)
	}
	if got := Search(products, "", ""); len(got) != 3 {
		t.Errorf("no filters = %d products, want all 3", len(got))
	}
	if got := Search(products, "rice", "clothing"); len(got) != 0 {
		t.Errorf("conflicting filters = %v, want none", got)
	}
}

func TestResolveCartPlaceholders(t *testing.T) {
	items := []CartItem{
		{ProductID: 2, Quantity: 1},
		{ProductID: 99, Quantity: 4}, // delisted
	}

	lines := ResolveCart(items, catalogFixture())
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if lines[0].Placeholder || lines[0].Product == nil || lines[0].Product.ProductID != 2 {
		t.Errorf("line 0 = %+v, want resolved product 2", lines[0])
	}
	if !lines[1].Placeholder || lines[1].Product != nil {
		t.Errorf("line 1 = %+v, want a placeholder", lines[1])
	}
	if lines[1].Item.Quantity != 4 {
		t.Error("placeholder lost the cart quantity")
	}
}

func TestCatalogProductsFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/products/with-images" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"products": catalogFixture(), "count": 3,
		})
	}))
	defer srv.Close()

	cat := NewCatalog(NewAPI(srv.URL, NewSessionStore()))
	products, err := cat.Products(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 3 {
		t.Fatalf("products = %d, want 3", len(products))
	}
}
