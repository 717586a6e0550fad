package slices

import "github.com/zeebo/errs"

// Split deals the elements of v round-robin into at most n buckets. Bucket i
// holds v[i], v[i+n], v[i+2n]... so the order inside a bucket is kept.
func Split[T any](n int, v []T) ([][]T, error) {
	if len(v) == 0 {
		return [][]T{}, nil
	}

	if n <= 0 {
		return nil, errs.New("n:%d must be greater than zero", n)
	}

	n = min(n, len(v))

	buckets := make([][]T, n)
	for i, val := range v {
		idx := i % n
		buckets[idx] = append(buckets[idx], val)
	}

	return buckets, nil
}
