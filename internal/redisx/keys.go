package redisx

import "time"

const (
	// Cart per session: legato-cart:{session} -> JSON array of CartEntry
	KeyCart = "legato-cart:%s"

	// Wishlist per session: legato-wishlist:{session} -> JSON array of WishlistEntry
	KeyWishlist = "legato-wishlist:%s"
)

var (
	TTLCart     = 30 * 24 * time.Hour
	TTLWishlist = 90 * 24 * time.Hour
)
