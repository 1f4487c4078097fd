package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Mask13/IS601-Midterm/internal/engine"
	"github.com/Mask13/IS601-Midterm/internal/operations"
	"github.com/Mask13/IS601-Midterm/internal/validator"
)

// repl is the read-eval-print loop over one calculator engine.
type repl struct {
	calc     *engine.Calculator
	registry *operations.Registry
	in       io.Reader
	out      io.Writer
}

func (r *repl) run() error {
	scanner := bufio.NewScanner(r.in)

	fmt.Fprintln(r.out, "Calculator started. Type 'help' for commands.")

	for {
		fmt.Fprint(r.out, "\nEnter command: ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out, "\nInput terminated. Exiting...")
			return scanner.Err()
		}
		command := strings.ToLower(strings.TrimSpace(scanner.Text()))

		switch command {
		case "":
			continue

		case "help":
			r.printHelp()

		case "exit":
			if err := r.calc.SaveHistory(); err != nil {
				fmt.Fprintf(r.out, "Warning: Could not save history: %v\n", err)
			} else {
				fmt.Fprintln(r.out, "History saved successfully.")
			}
			fmt.Fprintln(r.out, "Goodbye!")
			return nil

		case "history":
			hist := r.calc.History()
			if len(hist) == 0 {
				fmt.Fprintln(r.out, "No calculations in history")
				continue
			}
			fmt.Fprintln(r.out, "\nCalculation History:")
			for i, rec := range hist {
				fmt.Fprintf(r.out, "%d. %s\n", i+1, rec)
			}

		case "clear":
			if err := r.calc.ClearHistory(); err != nil {
				fmt.Fprintf(r.out, "Error clearing history: %v\n", err)
				continue
			}
			fmt.Fprintln(r.out, "History cleared")

		case "undo":
			if r.calc.Undo() {
				fmt.Fprintln(r.out, "Last operation undone.")
			} else {
				fmt.Fprintln(r.out, "Nothing to undo.")
			}

		case "redo":
			if r.calc.Redo() {
				fmt.Fprintln(r.out, "Last undone operation redone.")
			} else {
				fmt.Fprintln(r.out, "Nothing to redo.")
			}

		case "save":
			if err := r.calc.SaveHistory(); err != nil {
				fmt.Fprintf(r.out, "Error saving history: %v\n", err)
				continue
			}
			fmt.Fprintln(r.out, "History saved successfully")

		case "load":
			if err := r.calc.LoadHistory(); err != nil {
				fmt.Fprintf(r.out, "Error loading history: %v\n", err)
				continue
			}
			fmt.Fprintln(r.out, "History loaded successfully")

		default:
			op, err := r.registry.Get(command)
			if err != nil {
				fmt.Fprintf(r.out, "Unknown command: %q. Type 'help' for available commands.\n", command)
				continue
			}
			r.performOperation(scanner, op)
		}
	}
}

func (r *repl) printHelp() {
	fmt.Fprintln(r.out, "\nAvailable commands:")
	fmt.Fprintf(r.out, "  %s - Perform calculations\n", strings.Join(r.registry.Names(), ", "))
	fmt.Fprintln(r.out, "  history - Show calculation history")
	fmt.Fprintln(r.out, "  clear - Clear calculation history")
	fmt.Fprintln(r.out, "  undo - Undo the last calculation")
	fmt.Fprintln(r.out, "  redo - Redo the last undone calculation")
	fmt.Fprintln(r.out, "  save - Save calculation history to file")
	fmt.Fprintln(r.out, "  load - Load calculation history from file")
	fmt.Fprintln(r.out, "  exit - Exit the calculator")
}

// performOperation prompts for two operands (either can be cancelled) and
// runs the selected strategy through the engine.
func (r *repl) performOperation(scanner *bufio.Scanner, op operations.Operation) {
	fmt.Fprintln(r.out, "\nEnter numbers (or 'cancel' to abort):")

	a, ok := r.readOperand(scanner, "First number: ")
	if !ok {
		fmt.Fprintln(r.out, "Operation cancelled")
		return
	}
	b, ok := r.readOperand(scanner, "Second number: ")
	if !ok {
		fmt.Fprintln(r.out, "Operation cancelled")
		return
	}

	r.calc.SetOperation(op)
	result, err := r.calc.PerformOperation(a, b)
	if err != nil {
		var vErr *validator.ValidationError
		var opErr *engine.OperationError
		if errors.As(err, &vErr) || errors.As(err, &opErr) {
			fmt.Fprintf(r.out, "Error: %v\n", err)
		} else {
			fmt.Fprintf(r.out, "Unexpected error: %v\n", err)
		}
		return
	}

	fmt.Fprintf(r.out, "\nResult: %s\n", result)
}

func (r *repl) readOperand(scanner *bufio.Scanner, prompt string) (string, bool) {
	fmt.Fprint(r.out, prompt)
	if !scanner.Scan() {
		return "", false
	}
	raw := scanner.Text()
	if strings.EqualFold(strings.TrimSpace(raw), "cancel") {
		return "", false
	}
	return raw, true
}
