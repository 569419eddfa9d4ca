package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

var orderNumberSuffixMax = big.NewInt(1_000_000)

// GenerateOrderNumber returns a human-readable order number "yyyyMMdd-NNNNNN": the
// placement date followed by six random digits. It is for people, not an identity:
// two orders may share a number, the order id is what identifies an order.
func GenerateOrderNumber(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, orderNumberSuffixMax)
	if err != nil {
		return "", fmt.Errorf("failed to generate order number: %w", err)
	}
	return fmt.Sprintf("%s-%06d", now.Format("20060102"), n.Int64()), nil
}
