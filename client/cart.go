package client

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// CartItem is one cart line. Product ids are unique within a cart.
type CartItem struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// Cart holds the shopper's selection in insertion order and writes through
// to the durable store on every mutation, so a restart resumes where the
// shopper left off.
type Cart struct {
	mu    sync.Mutex
	items []CartItem
	store Store
}

// NewCart loads the persisted cart from the store. Corrupt or missing data
// yields an empty cart, never an error.
func NewCart(store Store) *Cart {
	c := &Cart{store: store}
	if raw, ok := store.Get(KeyCart); ok {
		var items []CartItem
		if err := json.Unmarshal([]byte(raw), &items); err == nil {
			for _, it := range items {
				if it.ProductID > 0 && it.Quantity > 0 {
					c.items = append(c.items, it)
				}
			}
		}
	}
	return c
}

// Add merges qty into an existing line or appends a new one.
func (c *Cart) Add(productID, qty int) {
	if productID <= 0 || qty <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity += qty
			c.persist()
			return
		}
	}
	c.items = append(c.items, CartItem{ProductID: productID, Quantity: qty})
	c.persist()
}

// SetQuantity replaces a line's quantity. Zero or negative removes the
// line.
func (c *Cart) SetQuantity(productID, qty int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if qty <= 0 {
		c.removeLocked(productID)
		c.persist()
		return
	}
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity = qty
			c.persist()
			return
		}
	}
	c.items = append(c.items, CartItem{ProductID: productID, Quantity: qty})
	c.persist()
}

// Remove drops a line.
func (c *Cart) Remove(productID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(productID)
	c.persist()
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.persist()
}

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Fingerprint hashes the normalized cart contents. Two carts with the same
// lines in any insertion order produce the same fingerprint, which is what
// ties an optimization plan to the cart it was computed from.
func (c *Cart) Fingerprint() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	sorted := make([]CartItem, len(c.items))
	copy(sorted, c.items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	var b strings.Builder
	for _, it := range sorted {
		fmt.Fprintf(&b, "%d:%d;", it.ProductID, it.Quantity)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func (c *Cart) removeLocked(productID int) {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// persist writes the cart through to the durable store. Callers hold the
// lock, so writes land in mutation order.
func (c *Cart) persist() {
	raw, err := json.Marshal(c.items)
	if err != nil {
		return
	}
	c.store.Set(KeyCart, string(raw))
}
