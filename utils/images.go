package utils

import (
	"fmt"
	"net/url"
)

// PlaceholderImage returns a deterministic placeholder for products without
// a stored image.
func PlaceholderImage(name string) string {
	return fmt.Sprintf("https://via.placeholder.com/150?text=%s", url.QueryEscape(name))
}
