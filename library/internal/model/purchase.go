package model

type PurchaseType string

const (
	PurchaseRent PurchaseType = "rent"
	PurchaseBuy  PurchaseType = "buy"
)

func ParsePurchaseType(s string) (PurchaseType, bool) {
	switch t := PurchaseType(s); t {
	case PurchaseRent, PurchaseBuy:
		return t, true
	}
	return "", false
}

// ChangesInventory reports whether the purchase takes a copy off the shelf.
func (t PurchaseType) ChangesInventory() bool {
	return t == PurchaseRent
}

// PurchaseOption is what a member is about to buy or rent.
type PurchaseOption struct {
	Book   Book
	Member Member
	Type   PurchaseType
}
