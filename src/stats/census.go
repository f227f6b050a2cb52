package stats

import (
	"sort"

	"evolife/src/world"
)

//ProgramCount is the number of live entities running one program.
type ProgramCount struct {
	Program string
	Count   int
}

//Census counts the entities of s per distinct program, most common first.
func Census(s world.Snapshot) []ProgramCount {
	counts := make(map[string]int)
	for _, e := range s.Entities {
		counts[e.Program]++
	}
	table := make([]ProgramCount, 0, len(counts))
	for p, n := range counts {
		table = append(table, ProgramCount{Program: p, Count: n})
	}
	sort.Slice(table, func(i, j int) bool {
		if table[i].Count != table[j].Count {
			return table[i].Count > table[j].Count
		}
		return table[i].Program < table[j].Program
	})
	return table
}
