package stats

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"evolife/src/universe"
	"evolife/src/world"
)

//Recorder samples the universe once per completed tick and writes the
//sample to every registered file. It is a universe.Viewer.
type Recorder struct {
	mu      sync.Mutex
	u       universe.Universe
	files   []*File
	last    *DataPoint
	version uint64
	sampled bool
}

//NewRecorder creates a recorder without destinations.
func NewRecorder() *Recorder {
	return &Recorder{}
}

//AddFile creates path and formats samples for it with pattern.
func (r *Recorder) AddFile(path string, pattern string) error {
	f, err := Create(path, pattern)
	if err != nil {
		return err
	}
	r.Add(f)
	return nil
}

//Add registers an already opened destination.
func (r *Recorder) Add(f *File) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, f)
}

//Len returns the number of destinations.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.files)
}

func (r *Recorder) Register(u universe.Universe) {
	r.u = u
}

func (r *Recorder) Start() {}

//Refresh samples the universe unless the field did not change since the last sample.
func (r *Recorder) Refresh() {
	if r.u == nil {
		return
	}
	r.Sample(r.u.Snapshot())
}

//Sample writes one data point for s. Nothing is collected without destinations.
//Write errors are logged, a broken destination does not stop the simulation.
func (r *Recorder) Sample(s world.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.files) == 0 {
		return
	}
	if r.sampled && s.Version == r.version {
		return
	}
	r.sampled = true
	r.version = s.Version

	dp := NewDataPoint(r.last, s)
	r.last = &dp
	for _, f := range r.files {
		if err := f.Write(dp); err != nil {
			logrus.Warnf("statistics: %v", err)
		}
	}
}

//Last returns the latest sample.
func (r *Recorder) Last() (DataPoint, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return DataPoint{}, false
	}
	return *r.last, true
}

//Flush flushes every destination.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for _, f := range r.files {
		if err := f.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

//Close flushes and closes every destination.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for _, f := range r.files {
		if err := f.Close(); err != nil {
			logrus.Warnf("statistics: closing %s: %v", f.Name(), err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
