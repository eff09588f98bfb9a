package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/facturas/internal/invoice"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

func stdinIsTerminal() bool {
	return isTerminal(int(os.Stdin.Fd()))
}

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetDefaultText is GetSimpleText that keeps current when the answer is empty.
func GetDefaultText(reader *bufio.Reader, prompt, current string, w io.Writer) (string, error) {
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, current)
	}
	s, err := GetSimpleText(reader, prompt, w)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return current, nil
		}
		return "", err
	}
	if s == "" {
		return current, nil
	}
	return s, nil
}

// GetItems reads line items as code;description;quantity;price, one per
// line, until an empty line or EOF.
func GetItems(reader *bufio.Reader, w io.Writer) ([]invoice.LineItem, error) {
	if _, err := fmt.Fprint(w, "Enter items as code;description;quantity;price (empty line to finish)\n"); err != nil {
		return nil, err
	}

	var items []invoice.LineItem
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		it, perr := ParseItem(line)
		if perr != nil {
			fmt.Fprintf(w, "%v, try again\n", perr)
		} else {
			items = append(items, it)
		}
		if err != nil {
			break
		}
	}
	return items, nil
}

// ParseItem reads "code;description;quantity;price". Quantity is a
// non-negative integer and price a non-negative decimal with '.'.
func ParseItem(s string) (invoice.LineItem, error) {
	parts := strings.Split(s, ";")
	if len(parts) != 4 {
		return invoice.LineItem{}, fmt.Errorf("item %q: want code;description;quantity;price", s)
	}

	qty, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil || qty < 0 {
		return invoice.LineItem{}, fmt.Errorf("item %q: bad quantity %q", s, parts[2])
	}

	price, err := decimal.NewFromString(strings.TrimSpace(parts[3]))
	if err != nil || price.IsNegative() {
		return invoice.LineItem{}, fmt.Errorf("item %q: bad price %q", s, parts[3])
	}

	return invoice.LineItem{
		Code:        strings.TrimSpace(parts[0]),
		Description: strings.TrimSpace(parts[1]),
		Quantity:    qty,
		UnitPrice:   price.Round(2),
	}, nil
}
