package entities

import (
	"sort"
	"testing"
	"time"
)

func TestBucketOf(t *testing.T) {
	b := BucketOf(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC))
	if b != "2024-01" {
		t.Errorf("expected bucket 2024-01, got %s", b)
	}
}

func TestBucket_Next_CrossesYearBoundary(t *testing.T) {
	b := Bucket("2024-12")
	if b.Next() != "2025-01" {
		t.Errorf("expected 2025-01, got %s", b.Next())
	}
}

func TestBucket_Add(t *testing.T) {
	b := Bucket("2024-10")
	if got := b.Add(4); got != "2025-02" {
		t.Errorf("expected 2025-02, got %s", got)
	}
}

func TestBucket_LexicographicOrderIsChronological(t *testing.T) {
	buckets := []string{"2025-01", "2024-02", "2024-12", "2024-01"}
	sort.Strings(buckets)

	want := []string{"2024-01", "2024-02", "2024-12", "2025-01"}
	for i, b := range want {
		if buckets[i] != b {
			t.Fatalf("expected %v, got %v", want, buckets)
		}
	}
}

func TestParseBucket(t *testing.T) {
	if _, err := ParseBucket("2024-01"); err != nil {
		t.Errorf("unexpected error for valid bucket: %v", err)
	}
	if _, err := ParseBucket("2024-13"); err == nil {
		t.Error("expected error for month 13")
	}
	if _, err := ParseBucket("jan-2024"); err == nil {
		t.Error("expected error for non-canonical format")
	}
}
