package stats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"
)

//File is one statistics destination with its line format.
type File struct {
	mu       sync.Mutex
	name     string
	out      *bufio.Writer
	closer   io.Closer
	elements []Element
	closed   bool
}

//NewWriter writes samples formatted by pattern to w.
func NewWriter(name string, w io.Writer, pattern string) (*File, error) {
	elements, err := ParsePattern(pattern)
	if err != nil {
		return nil, err
	}
	f := &File{name: name, out: bufio.NewWriter(w), elements: elements}
	if c, ok := w.(io.Closer); ok {
		f.closer = c
	}
	return f, nil
}

//Create truncates or creates path; the pattern is checked before the file is touched.
func Create(path string, pattern string) (*File, error) {
	if _, err := ParsePattern(pattern); err != nil {
		return nil, err
	}
	fd, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating statistics file: %w", err)
	}
	return NewWriter(path, fd, pattern)
}

//Name returns the destination name.
func (f *File) Name() string {
	return f.name
}

//Write formats one sample.
func (f *File) Write(dp DataPoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return fmt.Errorf("statistics file %s is closed", f.name)
	}
	for _, e := range f.elements {
		if err := e.Emit(dp, f.out); err != nil {
			return fmt.Errorf("writing step %d to %s: %w", dp.Step, f.name, err)
		}
	}
	return nil
}

//Flush pushes buffered samples to the destination.
func (f *File) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	return f.out.Flush()
}

//Close flushes and closes the destination, calling it again does nothing.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	err := f.out.Flush()
	if f.closer != nil {
		if cerr := f.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
