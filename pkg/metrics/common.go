package metrics

const initFlushTimeBucket = 1

func getFlushTimeBucket() []float64 {
	var buckets []float64
	for i := initFlushTimeBucket; i <= 20; i++ {
		buckets = append(buckets, float64(i))
	}
	for i := 25; i <= 500; i += 25 {
		buckets = append(buckets, float64(i))
	}
	for i := 600; i <= 5000; i += 200 {
		buckets = append(buckets, float64(i))
	}
	return buckets
}
