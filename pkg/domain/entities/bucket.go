package entities

import (
	"fmt"
	"time"
)

// bucketLayout is the canonical calendar-month key format. Lexicographic
// order on this format is also chronological order.
const bucketLayout = "2006-01"

// Bucket is a calendar-month grouping key in canonical yyyy-MM form
type Bucket string

// BucketOf returns the bucket containing the given instant
func BucketOf(t time.Time) Bucket {
	return Bucket(t.Format(bucketLayout))
}

// ParseBucket validates a canonical yyyy-MM key
func ParseBucket(s string) (Bucket, error) {
	if _, err := time.Parse(bucketLayout, s); err != nil {
		return "", fmt.Errorf("invalid bucket %q (expected yyyy-MM): %w", s, err)
	}
	return Bucket(s), nil
}

// Next returns the bucket for the following calendar month
func (b Bucket) Next() Bucket {
	t, err := time.Parse(bucketLayout, string(b))
	if err != nil {
		return b
	}
	return Bucket(t.AddDate(0, 1, 0).Format(bucketLayout))
}

// Add returns the bucket n calendar months after b
func (b Bucket) Add(n int) Bucket {
	t, err := time.Parse(bucketLayout, string(b))
	if err != nil {
		return b
	}
	return Bucket(t.AddDate(0, n, 0).Format(bucketLayout))
}

// After reports whether b is a later month than other
func (b Bucket) After(other Bucket) bool {
	return string(b) > string(other)
}
