package cart

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Item is one purchasable line in the cart. Name, UnitPrice and ImageRef are
// captured when the item is added and never refreshed from the catalog.
type Item struct {
	ID        string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	ImageRef  string
}

// LineTotal is UnitPrice * Quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Image returns the item's image reference, or the placeholder for size when
// the item has none.
func (i Item) Image(size PlaceholderSize) string {
	if ref := strings.TrimSpace(i.ImageRef); ref != "" {
		return ref
	}
	return PlaceholderImage(size)
}

// PlaceholderSize selects one of the bundled placeholder assets.
type PlaceholderSize string

const (
	PlaceholderThumbnail PlaceholderSize = "thumbnail"
	PlaceholderSmall     PlaceholderSize = "small"
	PlaceholderMedium    PlaceholderSize = "medium"
	PlaceholderLarge     PlaceholderSize = "large"
	PlaceholderCover     PlaceholderSize = "cover"
)

// PlaceholderImage returns the local placeholder asset path for size.
// Unknown sizes fall back to medium.
func PlaceholderImage(size PlaceholderSize) string {
	switch size {
	case PlaceholderThumbnail, PlaceholderSmall, PlaceholderMedium, PlaceholderLarge, PlaceholderCover:
	default:
		size = PlaceholderMedium
	}
	return "/images/placeholders/" + string(size) + ".jpg"
}

// MaxQuantity caps the quantity of a single line.
const MaxQuantity = 9999

func clampQuantity(q int) int {
	switch {
	case q < 1:
		return 1
	case q > MaxQuantity:
		return MaxQuantity
	}
	return q
}
