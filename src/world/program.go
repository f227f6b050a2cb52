package world

import (
	"strings"
)

//mutation edit kinds
const (
	editDelete = iota
	editInsert
	editReplace
	editKinds
)

//Percent is the range of the mutation roll
const Percent = 100

//Program is a circular, never empty sequence of commands with an instruction pointer.
//The sequence is immutable; only the pointer moves. Two programs are equal when
//their sequences are equal, the pointer is runtime state and not part of the identity.
type Program struct {
	commands []Command
	pc       int
}

//NewProgram creates a program from a copy of commands.
//An empty sequence becomes a single Sleep.
func NewProgram(commands ...Command) *Program {
	if len(commands) == 0 {
		return &Program{commands: []Command{Sleep}}
	}
	cmds := make([]Command, len(commands))
	copy(cmds, commands)
	return &Program{commands: cmds}
}

//ParseProgram parses a whitespace separated list of command names, e.g. "LEFT MOVE MOVE"
func ParseProgram(text string) (*Program, error) {
	fields := strings.Fields(text)
	cmds := make([]Command, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCommand(f)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, c)
	}
	return NewProgram(cmds...), nil
}

func randomProgram(src *Source, length int, extended bool) *Program {
	cmds := make([]Command, length)
	for i := range cmds {
		cmds[i] = randomCommand(src, extended)
	}
	return NewProgram(cmds...)
}

//Len returns the number of commands
func (p *Program) Len() int {
	return len(p.commands)
}

//PC returns the index of the next command to execute
func (p *Program) PC() int {
	return p.pc
}

//Current returns the next command to execute
func (p *Program) Current() Command {
	return p.commands[p.pc]
}

//Commands returns a copy of the command sequence
func (p *Program) Commands() []Command {
	cmds := make([]Command, len(p.commands))
	copy(cmds, p.commands)
	return cmds
}

//Equal compares the command sequences of both programs
func (p *Program) Equal(o *Program) bool {
	if o == nil || len(p.commands) != len(o.commands) {
		return false
	}
	for i, c := range p.commands {
		if o.commands[i] != c {
			return false
		}
	}
	return true
}

func (p *Program) String() string {
	names := make([]string, len(p.commands))
	for i, c := range p.commands {
		names[i] = c.String()
	}
	return strings.Join(names, " ")
}

//execute runs the current command and advances the pointer past any skipped ones
func (p *Program) execute(f *Field, e *Entity) {
	skip := p.commands[p.pc].apply(f, e)
	p.advance(1 + skip)
}

func (p *Program) advance(n int) {
	p.pc = (p.pc + n) % len(p.commands)
}

//Mutate returns the program of an offspring.
//With probability rate percent exactly one edit is applied to a copy:
//a command is deleted, inserted or replaced, each kind equally likely.
//Otherwise the copy is structurally equal to p. The receiver is never modified.
//
//Draw order: roll, command, edit kind, index.
func (p *Program) Mutate(src *Source, rate int, extended bool) *Program {
	if src.Intn(Percent) >= rate {
		return NewProgram(p.commands...)
	}

	c := randomCommand(src, extended)
	switch src.Intn(editKinds) {
	case editDelete:
		return p.deleteAt(src.Intn(len(p.commands)))
	case editInsert:
		return p.insertAt(src.Intn(len(p.commands)+1), c)
	default:
		return p.replaceAt(src.Intn(len(p.commands)), c)
	}
}

//deleteAt removes the command at i; deleting the last command leaves a Sleep
func (p *Program) deleteAt(i int) *Program {
	cmds := make([]Command, 0, len(p.commands)-1)
	cmds = append(cmds, p.commands[:i]...)
	cmds = append(cmds, p.commands[i+1:]...)
	return NewProgram(cmds...)
}

//insertAt inserts c before index i, i == Len() appends
func (p *Program) insertAt(i int, c Command) *Program {
	cmds := make([]Command, 0, len(p.commands)+1)
	cmds = append(cmds, p.commands[:i]...)
	cmds = append(cmds, c)
	cmds = append(cmds, p.commands[i:]...)
	return NewProgram(cmds...)
}

func (p *Program) replaceAt(i int, c Command) *Program {
	cmds := p.Commands()
	cmds[i] = c
	return NewProgram(cmds...)
}
