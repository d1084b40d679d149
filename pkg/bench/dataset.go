package bench

import (
	"fmt"
	"math/rand"

	"blockindex/pkg/common"
)

var majors = []string{
	"Biology", "Chemistry", "Computer Science", "Economics",
	"History", "Mathematics", "Philosophy", "Physics",
}

// Synthetic returns n records with unique ids 1..n in shuffled order and a
// skewed major distribution, the same every time for a given seed.
func Synthetic(n int, seed int64) []common.Record {
	rng := rand.New(rand.NewSource(seed))
	records := make([]common.Record, n)
	for i, p := range rng.Perm(n) {
		// squaring skews towards the first majors
		f := rng.Float64()
		records[i] = common.Record{
			ID:    int64(p + 1),
			Name:  fmt.Sprintf("student-%06d", p+1),
			Major: majors[int(f*f*float64(len(majors)))],
		}
	}
	return records
}
