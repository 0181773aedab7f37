package fleet

import (
	"sort"

	"github.com/preston-bernstein/nhl-notifier/internal/config"
)

// Index maps team ids to their recipients. Built once and read-only afterwards.
type Index struct {
	numbers map[int][]string
}

// NewIndex builds the subscription index from configured subscriptions.
func NewIndex(subs []config.Subscription) Index {
	idx := Index{numbers: make(map[int][]string, len(subs))}
	for _, sub := range subs {
		idx.numbers[sub.Team] = union(idx.numbers[sub.Team], sub.Numbers)
	}
	return idx
}

// Teams returns the subscribed team ids in ascending order.
func (i Index) Teams() []int {
	ids := make([]int, 0, len(i.numbers))
	for id, numbers := range i.numbers {
		if len(numbers) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// Subscribed reports whether anyone follows the team.
func (i Index) Subscribed(teamID int) bool {
	return len(i.numbers[teamID]) > 0
}

// Recipients returns home subscribers followed by away subscribers, without duplicates.
func (i Index) Recipients(homeID, awayID int) []string {
	return union(union(nil, i.numbers[homeID]), i.numbers[awayID])
}

func union(dst, src []string) []string {
	seen := make(map[string]struct{}, len(dst)+len(src))
	for _, n := range dst {
		seen[n] = struct{}{}
	}
	for _, n := range src {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		dst = append(dst, n)
	}
	return dst
}
