package domain

import (
	"errors"
	"time"
)

var (
	ErrItemNotFound    = errors.New("item not found in cart")
	ErrInvalidQuantity = errors.New("quantity must not be negative")
)

type Cart struct {
	ID        string     `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    int64      `bson:"user_id" json:"user_id"`
	Items     []CartItem `bson:"items" json:"items"`
	Version   int64      `bson:"version" json:"-"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

type CartItem struct {
	ProductID int64     `bson:"product_id" json:"product_id"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	AddedAt   time.Time `bson:"added_at" json:"added_at"`
}

// UpdateQuantity sets the quantity of an existing line. Quantity zero
// removes the line; the item set behaves as if a zero-quantity line
// never existed. Item order is preserved across updates.
func (c *Cart) UpdateQuantity(productID int64, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			if quantity == 0 {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
			} else {
				c.Items[i].Quantity = quantity
			}
			return nil
		}
	}
	return ErrItemNotFound
}

// RemoveItem deletes the line for productID. Removing an absent item is
// a no-op, not an error.
func (c *Cart) RemoveItem(productID int64) {
	for i, item := range c.Items {
		if item.ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// AddItem appends a new line, or bumps the quantity of an existing line
// in place so the item keeps its position.
func (c *Cart) AddItem(item CartItem) {
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
