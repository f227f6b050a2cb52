package world

import (
	"fmt"
	"strings"
)

//Command is a single opcode of an entity program
type Command uint8

//the basic instruction set comes first, random draws of the restricted
//variant only pick from [DoubleMove, Sleep]
const (
	DoubleMove Command = iota
	Move
	TurnLeft
	TurnRight
	Sleep
	IfEntity
	IfFood
	IfWall
	Skip
	Skip2
)

const (
	//BasicCommands is the size of the restricted instruction set
	BasicCommands = int(Sleep) + 1
	//AllCommands is the size of the extended instruction set
	AllCommands = int(Skip2) + 1
)

var commandNames = [AllCommands]string{
	"DOUBLEMOVE", "MOVE", "LEFT", "RIGHT", "SLEEP",
	"IFENTITY", "IFFOOD", "IFWALL", "SKIP", "SKIP2",
}

var commandDescr = [AllCommands]string{
	"Move two steps forward",
	"Move one step forward",
	"Turn left",
	"Turn right",
	"Do nothing",
	"Skip the next command if facing another entity",
	"Skip the next command if facing food",
	"Skip the next command if facing a wall",
	"Skip one command",
	"Skip two commands",
}

func (c Command) String() string {
	if int(c) >= AllCommands {
		return fmt.Sprintf("Command(%d)", uint8(c))
	}
	return commandNames[c]
}

//Describe returns a one line help text for the command
func (c Command) Describe() string {
	if int(c) >= AllCommands {
		return ""
	}
	return commandDescr[c]
}

//ParseCommand resolves a command by its case-insensitive name
func ParseCommand(name string) (Command, error) {
	for i, n := range commandNames {
		if strings.EqualFold(n, name) {
			return Command(i), nil
		}
	}
	return Sleep, fmt.Errorf("unknown command %q", name)
}

//randomCommand draws a uniform command from the basic or the extended set
func randomCommand(src *Source, extended bool) Command {
	if extended {
		return Command(src.Intn(AllCommands))
	}
	return Command(src.Intn(BasicCommands))
}

//apply runs the opcode for e on f and returns how many following
//instructions have to be skipped on top of the normal advance
func (c Command) apply(f *Field, e *Entity) (skip int) {
	switch c {
	case DoubleMove:
		e.move(f)
		e.move(f)
	case Move:
		e.move(f)
	case TurnLeft:
		e.turnLeft()
	case TurnRight:
		e.turnRight()
	case IfEntity:
		if ahead, ok := f.grid.Normalize(e.ahead()); ok && f.hasOtherEntity(ahead, e) {
			return 1
		}
	case IfFood:
		if ahead, ok := f.grid.Normalize(e.ahead()); ok && f.isFood(ahead) {
			return 1
		}
	case IfWall:
		if !f.isWalkable(e.ahead()) {
			return 1
		}
	case Skip:
		return 1
	case Skip2:
		return 2
	case Sleep:
	}
	return 0
}
