package client

import (
	"testing"
)

func TestCartAddMerges(t *testing.T) {
	cart := NewCart(NewSessionStore())

	cart.Add(1, 2)
	cart.Add(2, 1)
	cart.Add(1, 3)

	items := cart.Items()
	if len(items) != 2 {
		t.Fatalf("lines = %d, want 2", len(items))
	}
	if items[0].ProductID != 1 || items[0].Quantity != 5 {
		t.Errorf("line 0 = %+v, want product 1 x5", items[0])
	}
	if items[1].ProductID != 2 || items[1].Quantity != 1 {
		t.Errorf("line 1 = %+v, want product 2 x1", items[1])
	}
}

func TestCartSetQuantityRemovesAtZero(t *testing.T) {
	cart := NewCart(NewSessionStore())
	cart.Add(1, 2)
	cart.Add(2, 1)

	cart.SetQuantity(1, 0)
	if cart.Len() != 1 {
		t.Fatalf("lines = %d, want 1 after zeroing", cart.Len())
	}

	cart.SetQuantity(2, -3)
	if cart.Len() != 0 {
		t.Fatalf("lines = %d, want 0 after negative set", cart.Len())
	}
}

func TestCartPersistsEveryMutation(t *testing.T) {
	store := NewSessionStore()
	cart := NewCart(store)

	cart.Add(1, 2)
	cart.Add(2, 4)
	cart.SetQuantity(1, 7)
	cart.Remove(2)

	reloaded := NewCart(store)
	items := reloaded.Items()
	if len(items) != 1 || items[0].ProductID != 1 || items[0].Quantity != 7 {
		t.Fatalf("reloaded = %+v, want product 1 x7", items)
	}
}

func TestCartCorruptDataLoadsEmpty(t *testing.T) {
	store := NewSessionStore()
	store.Set(KeyCart, "{this is not json")

	cart := NewCart(store)
	if cart.Len() != 0 {
		t.Fatalf("lines = %d, want empty cart from corrupt data", cart.Len())
	}

	// The cart stays usable and overwrites the junk.
	cart.Add(5, 1)
	if NewCart(store).Len() != 1 {
		t.Fatal("cart did not recover from corrupt data")
	}
}

func TestCartDurableStoreRoundTrip(t *testing.T) {
	store, err := OpenDurableStore(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	cart := NewCart(store)
	cart.Add(3, 2)

	if NewCart(store).Len() != 1 {
		t.Fatal("cart not visible through the durable store")
	}
}

func TestCartFingerprint(t *testing.T) {
	a := NewCart(NewSessionStore())
	a.Add(1, 2)
	a.Add(2, 3)

	b := NewCart(NewSessionStore())
	b.Add(2, 3)
	b.Add(1, 2)

	if a.Fingerprint() != b.Fingerprint() {
		t.Error("fingerprint depends on insertion order")
	}

	before := a.Fingerprint()
	a.SetQuantity(1, 3)
	if a.Fingerprint() == before {
		t.Error("fingerprint unchanged after a mutation")
	}

	empty := NewCart(NewSessionStore())
	if empty.Fingerprint() == a.Fingerprint() {
		t.Error("empty cart shares a fingerprint with a full one")
	}
}

func TestCartClear(t *testing.T) {
	store := NewSessionStore()
	cart := NewCart(store)
	cart.Add(1, 1)
	cart.Clear()

	if cart.Len() != 0 {
		t.Fatal("cart not empty after Clear")
	}
	if NewCart(store).Len() != 0 {
		t.Fatal("Clear not persisted")
	}
}
