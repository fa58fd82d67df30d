package network

import "github.com/verte-zerg/agenet/internal/model"

const (
	minAge = 18
	maxAge = 70
)

// Buckets lists the age ranges in canonical order.
var Buckets = []model.AgeBucket{
	{Label: "18-24", Min: 18, Max: 25},
	{Label: "25-34", Min: 25, Max: 35},
	{Label: "35-44", Min: 35, Max: 45},
	{Label: "45-54", Min: 45, Max: 55},
	{Label: "55-64", Min: 55, Max: 65},
	{Label: "65-70", Min: 65, Max: 70},
}

// BucketFor returns the bucket containing age. Ages outside [18,70]
// are unbucketed.
func BucketFor(age int) (model.AgeBucket, bool) {
	idx, ok := bucketIndex(age)
	if !ok {
		return model.AgeBucket{}, false
	}
	return Buckets[idx], true
}

func bucketIndex(age int) (int, bool) {
	if age < minAge || age > maxAge {
		return 0, false
	}
	last := len(Buckets) - 1
	for i, b := range Buckets {
		if age >= b.Min && age < b.Max {
			return i, true
		}
	}
	// Upper bound of the final bucket is closed.
	return last, true
}
