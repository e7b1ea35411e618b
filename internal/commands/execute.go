package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Done   func(DoneArgs) (Result, error)
	Undone func(UndoneArgs) (Result, error)
	Note   func(NoteArgs) (Result, error)
	Remind func(RemindArgs) (Result, error)
	Days   func(DaysArgs) (Result, error)
	Delete func(DeleteArgs) (Result, error)
	Show   func(ShowArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missingHandler("add")
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, missingHandler("done")
		}
		return handlers.Done(*cmd.Done)
	case TypeUndone:
		if handlers.Undone == nil {
			return Result{}, missingHandler("undone")
		}
		return handlers.Undone(*cmd.Undone)
	case TypeNote:
		if handlers.Note == nil {
			return Result{}, missingHandler("note")
		}
		return handlers.Note(*cmd.Note)
	case TypeRemind:
		if handlers.Remind == nil {
			return Result{}, missingHandler("remind")
		}
		return handlers.Remind(*cmd.Remind)
	case TypeDays:
		if handlers.Days == nil {
			return Result{}, missingHandler("days")
		}
		return handlers.Days(*cmd.Days)
	case TypeDelete:
		if handlers.Delete == nil {
			return Result{}, missingHandler("delete")
		}
		return handlers.Delete(*cmd.Delete)
	case TypeShow:
		if handlers.Show == nil {
			return Result{}, missingHandler("show")
		}
		return handlers.Show(*cmd.Show)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missingHandler(name string) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: name + " handler not configured"}
}
