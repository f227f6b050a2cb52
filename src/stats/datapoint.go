//Package stats samples aggregate counts of a running field and writes them
//to files in a user supplied line format.
package stats

import "evolife/src/world"

//DataPoint is one sample of the field.
type DataPoint struct {
	Step       int
	Population int
	//PopulationDelta is the change since the previous sample, the first sample reports its population.
	PopulationDelta int
	Food            int
}

//NewDataPoint samples s; prev is the previous sample or nil.
func NewDataPoint(prev *DataPoint, s world.Snapshot) DataPoint {
	dp := DataPoint{
		Step:       s.Step,
		Population: s.Population(),
		Food:       len(s.Food),
	}
	dp.PopulationDelta = dp.Population
	if prev != nil {
		dp.PopulationDelta = dp.Population - prev.Population
	}
	return dp
}
