package coverage

// bucketLabels is the canonical freshness histogram order. Every produced
// group carries exactly these labels so charts and tests can compare
// positionally.
var bucketLabels = []string{"<=24h", "24-48h", ">48h", "none"}

var bucketTitles = map[string]string{
	"daily": "Daily bars",
	"m5":    "5m bars",
}

// BuildBucketGroup turns a raw freshness frequency map into the fixed-order
// histogram for one interval. A nil map is valid and yields an all-zero group.
func BuildBucketGroup(interval string, freshness map[string]Number) BucketGroup {
	title, ok := bucketTitles[interval]
	if !ok {
		title = interval
	}

	buckets := make([]Bucket, 0, len(bucketLabels))
	for _, label := range bucketLabels {
		count := int(freshness[label])
		buckets = append(buckets, Bucket{Label: label, Count: count})
	}

	return BucketGroup{Interval: interval, Title: title, Buckets: buckets}
}
