package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDone   Type = "done"
	TypeUndone Type = "undone"
	TypeNote   Type = "note"
	TypeRemind Type = "remind"
	TypeDays   Type = "days"
	TypeDelete Type = "delete"
	TypeShow   Type = "show"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Name        string
	Description string
}

type DoneArgs struct {
	Target string
	Note   string
}

type UndoneArgs struct {
	Target string
}

type NoteArgs struct {
	Target string
	Text   string
}

// RemindArgs switches a task's reminder. Mode is "on", "off" or "at"; with
// "at", Hour and Minute carry the parsed time of day.
type RemindArgs struct {
	Target string
	Mode   string
	Hour   int
	Minute int
}

// DaysArgs replaces a task's reminder weekdays. Days holds Monday=0..Sunday=6
// indices in the order given, without duplicates.
type DaysArgs struct {
	Target string
	Days   []int
}

type DeleteArgs struct {
	Target string
}

type ShowArgs struct {
	Subject string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Done   *DoneArgs
	Undone *UndoneArgs
	Note   *NoteArgs
	Remind *RemindArgs
	Days   *DaysArgs
	Delete *DeleteArgs
	Show   *ShowArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone:
		return parseDone(input, args)
	case TypeUndone:
		return parseUndone(input, args)
	case TypeNote:
		return parseNote(input, args)
	case TypeRemind:
		return parseRemind(input, args)
	case TypeDays:
		return parseDays(input, args)
	case TypeDelete:
		return parseDelete(input, args)
	case TypeShow:
		return parseShow(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a name"}
	}
	// Everything after "--" is the description.
	name := args
	description := ""
	for i, arg := range args {
		if arg == "--" {
			name = args[:i]
			description = strings.Join(args[i+1:], " ")
			break
		}
	}
	joined := strings.TrimSpace(strings.Join(name, " "))
	if joined == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a name"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Name: joined, Description: description}}, nil
}

func parseDone(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "done requires a target"}
	}
	return Command{Type: TypeDone, Raw: raw, Done: &DoneArgs{
		Target: args[0],
		Note:   strings.Join(args[1:], " "),
	}}, nil
}

func parseUndone(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "undone requires a target"}
	}
	return Command{Type: TypeUndone, Raw: raw, Undone: &UndoneArgs{Target: args[0]}}, nil
}

func parseNote(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "note requires target and text"}
	}
	return Command{Type: TypeNote, Raw: raw, Note: &NoteArgs{
		Target: args[0],
		Text:   strings.Join(args[1:], " "),
	}}, nil
}

func parseRemind(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "remind requires target and on|off|HH:MM"}
	}
	// Targets keep their case: task ids embed the task name verbatim.
	target := args[0]
	mode := strings.ToLower(args[1])
	switch mode {
	case "on", "off":
		return Command{Type: TypeRemind, Raw: raw, Remind: &RemindArgs{Target: target, Mode: mode}}, nil
	}
	hour, minute, err := parseClock(mode)
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("remind time %q: expected on, off or HH:MM", mode)}
	}
	return Command{Type: TypeRemind, Raw: raw, Remind: &RemindArgs{Target: target, Mode: "at", Hour: hour, Minute: minute}}, nil
}

var weekdayIndex = map[string]int{
	"mon": 0, "tue": 1, "wed": 2, "thu": 3, "fri": 4, "sat": 5, "sun": 6,
}

func parseDays(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "days requires target and a day list, e.g. days 1 mon,wed,fri"}
	}
	target := args[0]
	seen := make(map[int]bool, 7)
	days := make([]int, 0, 7)
	for _, token := range strings.Split(strings.Join(args[1:], ","), ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			continue
		}
		d, ok := weekdayIndex[token]
		if !ok {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown day %q: expected mon..sun", token)}
		}
		if seen[d] {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("day %q listed twice", token)}
		}
		seen[d] = true
		days = append(days, d)
	}
	if len(days) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "days requires at least one day"}
	}
	return Command{Type: TypeDays, Raw: raw, Days: &DaysArgs{Target: target, Days: days}}, nil
}

func parseDelete(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "delete requires a target"}
	}
	return Command{Type: TypeDelete, Raw: raw, Delete: &DeleteArgs{Target: args[0]}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires a subject"}
	}
	return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Subject: strings.ToLower(args[0])}}, nil
}

func parseClock(raw string) (int, int, error) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("commands: malformed clock %q", raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("commands: bad hour %q", parts[0])
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("commands: bad minute %q", parts[1])
	}
	return hour, minute, nil
}
