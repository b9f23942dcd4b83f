package schedule

// Bucket agrupa dosis por momento del día para la vista de lista.
type Bucket string

const (
	BucketMorning   Bucket = "Morning"
	BucketAfternoon Bucket = "Afternoon"
	BucketEvening   Bucket = "Evening"
	BucketNight     Bucket = "Night"
)

// Orden de presentación.
var Buckets = []Bucket{BucketMorning, BucketAfternoon, BucketEvening, BucketNight}

const (
	morningStart   = 5 * 60
	afternoonStart = 12 * 60
	eveningStart   = 17 * 60
	nightStart     = 21 * 60
)

// BucketOf clasifica un minuto del día (intervalos semiabiertos).
// Night envuelve la medianoche: [21:00, 24:00) ∪ [00:00, 05:00).
func BucketOf(minutes int) (Bucket, error) {
	if minutes < 0 || minutes >= MinutesPerDay {
		return "", &RangeError{Minutes: minutes}
	}

	switch {
	case minutes >= morningStart && minutes < afternoonStart:
		return BucketMorning, nil
	case minutes >= afternoonStart && minutes < eveningStart:
		return BucketAfternoon, nil
	case minutes >= eveningStart && minutes < nightStart:
		return BucketEvening, nil
	default:
		return BucketNight, nil
	}
}

type Section[T any] struct {
	Bucket Bucket
	Items  []T
}

// GroupByBucket arma las secciones en orden Morning..Night conservando el orden de entrada.
// Las secciones vacías se omiten.
func GroupByBucket[T any](items []T, minutesOf func(T) int) ([]Section[T], error) {
	byBucket := make(map[Bucket][]T, len(Buckets))
	for _, it := range items {
		b, err := BucketOf(minutesOf(it))
		if err != nil {
			return nil, err
		}
		byBucket[b] = append(byBucket[b], it)
	}

	out := make([]Section[T], 0, len(Buckets))
	for _, b := range Buckets {
		if len(byBucket[b]) == 0 {
			continue
		}
		out = append(out, Section[T]{Bucket: b, Items: byBucket[b]})
	}
	return out, nil
}
