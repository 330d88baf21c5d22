package checkout

import (
	"fmt"
	"math/rand"
	"time"
)

const orderIDPrefix = "LEG"

// NewOrderID builds "LEG" + unix millis + two random digits. Uniqueness is
// probabilistic; the orders primary key rejects a collision.
func NewOrderID(now time.Time, rng *rand.Rand) string {
	var suffix int
	if rng != nil {
		suffix = rng.Intn(100)
	} else {
		suffix = rand.Intn(100)
	}
	return fmt.Sprintf("%s%d%02d", orderIDPrefix, now.UnixMilli(), suffix)
}
