// Package menu implements the interactive text interface.
//
// This file collects and parses user input. Domain operations receive
// already-parsed values; malformed input is reported here and never
// reaches them.
package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

// errInputClosed ends the loop when standard input is exhausted.
var errInputClosed = errors.New("input closed")

// errInvalidInput marks a value the user typed that could not be parsed.
// The message is shown to the user as is.
type errInvalidInput struct {
	msg string
}

func (e errInvalidInput) Error() string {
	return e.msg
}

type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

func (p *prompter) println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

func (p *prompter) printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

// ask writes label and returns the next line without its line ending.
func (p *prompter) ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", errInputClosed
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *prompter) askID(label string) (int64, error) {
	s, err := p.ask(label)
	if err != nil {
		return 0, err
	}
	return parseID(s)
}

func (p *prompter) askAmount(label string) (decimal.Decimal, error) {
	s, err := p.ask(label)
	if err != nil {
		return decimal.Zero, err
	}
	return parseAmount(s)
}

func (p *prompter) askDate(label string) (time.Time, error) {
	s, err := p.ask(label)
	if err != nil {
		return time.Time{}, err
	}
	return parseDate(s)
}

func (p *prompter) askCategoryType(label string) (core.CategoryType, error) {
	s, err := p.ask(label)
	if err != nil {
		return "", err
	}
	return parseCategoryType(s)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, errInvalidInput{msg: "Invalid ID. Please enter a number."}
	}
	return id, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := core.ParseAmount(s)
	if err != nil {
		return decimal.Zero, errInvalidInput{msg: "Invalid amount. Please enter a number such as 12.50."}
	}
	return d, nil
}

func parseDate(s string) (time.Time, error) {
	d, err := core.ParseDate(s)
	if err != nil {
		return time.Time{}, errInvalidInput{msg: "Invalid date. Please use YYYY-MM-DD."}
	}
	return d, nil
}

func parseCategoryType(s string) (core.CategoryType, error) {
	t, err := core.ParseCategoryType(s)
	if err != nil {
		return "", errInvalidInput{msg: "Invalid category type. Please enter 'income' or 'expense'."}
	}
	return t, nil
}
