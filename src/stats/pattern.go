package stats

import (
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
)

//Element writes one part of a statistics line.
type Element interface {
	Emit(dp DataPoint, w io.Writer) error
}

type literal []byte

func (l literal) Emit(_ DataPoint, w io.Writer) error {
	_, err := w.Write(l)
	return err
}

type textValue func(dp DataPoint) int

func (v textValue) Emit(dp DataPoint, w io.Writer) error {
	_, err := io.WriteString(w, strconv.Itoa(v(dp)))
	return err
}

//binaryValue writes a big-endian 32 bit integer.
type binaryValue func(dp DataPoint) int

func (v binaryValue) Emit(dp DataPoint, w io.Writer) error {
	return binary.Write(w, binary.BigEndian, int32(v(dp)))
}

func population(dp DataPoint) int { return dp.Population }
func delta(dp DataPoint) int      { return dp.PopulationDelta }
func step(dp DataPoint) int       { return dp.Step }
func food(dp DataPoint) int       { return dp.Food }

//escapes maps the character following '%' to its element.
var escapes = map[byte]Element{
	'P': textValue(population),
	'p': binaryValue(population),
	'D': textValue(delta),
	'd': binaryValue(delta),
	'G': textValue(step),
	'g': binaryValue(step),
	'F': textValue(food),
	'f': binaryValue(food),
	'%': literal("%"),
	'n': literal("\n"),
	'r': literal("\r"),
}

//EscapeHelp lists the supported escape codes.
const EscapeHelp = `%P, %p  population (text, binary int32)
%D, %d  population change since the previous sample
%G, %g  step
%F, %f  food cells
%%      percent sign
%n, %r  line feed, carriage return`

//ParsePattern splits pattern into literals and escapes.
func ParsePattern(pattern string) ([]Element, error) {
	var elements []Element
	start := 0
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '%' {
			continue
		}
		if start < i {
			elements = append(elements, literal(pattern[start:i]))
		}
		if i+1 >= len(pattern) {
			return nil, fmt.Errorf("pattern %q must not end with the escape character %%, use %%%% for a percent sign", pattern)
		}
		e, ok := escapes[pattern[i+1]]
		if !ok {
			return nil, fmt.Errorf("unknown escape code %q in pattern %q", pattern[i:i+2], pattern)
		}
		elements = append(elements, e)
		i++
		start = i + 1
	}
	if start < len(pattern) {
		elements = append(elements, literal(pattern[start:]))
	}
	return elements, nil
}
