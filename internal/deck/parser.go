// Package deck parses YDK deck-list files into main/extra/side partitions.
package deck

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tcgtools/drawcalc/internal/cards"
)

// MaxFileSize caps deck-list input at 100 KiB.
const MaxFileSize = 100 * 1024

// Extension is the expected deck-list file extension.
const Extension = ".ydk"

// Parse failures. UnmatchedIDs on a List is a warning, not an error.
var (
	ErrFileTooLarge         = errors.New("deck list exceeds 100 KiB")
	ErrUnsupportedExtension = errors.New("unsupported deck list extension")
	ErrMalformed            = errors.New("malformed deck list")
)

// section names inside a YDK file.
const (
	sectionMain  = "main"
	sectionExtra = "extra"
	sectionSide  = "side"
)

// List is a parsed deck list. Card names repeat with their multiplicity;
// Counts aggregates multiplicities by name across all three partitions.
// UnmatchedIDs holds every ID (with repeats) missing from the metadata store.
type List struct {
	Main         []string
	Extra        []string
	Side         []string
	UnmatchedIDs []int
	Counts       map[string]int
}

// MainSize returns the number of cards in the main deck.
func (l *List) MainSize() int {
	return len(l.Main)
}

// ParseFile reads and parses a .ydk file. The extension check applies only
// here; Parse accepts any in-memory buffer.
func ParseFile(path string, store *cards.Store) (*List, error) {
	if filepath.Ext(path) != Extension {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExtension, filepath.Ext(path))
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat deck list: %w", err)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck list: %w", err)
	}
	return Parse(data, store)
}

// Parse parses YDK content. Lines are trimmed; "#main" and "#extra" switch
// sections, "!side" opens the side section, any other "#" line is a comment,
// and every remaining non-blank line must be a positive integer card ID.
// Cards whose metadata declares them extra-deck are routed to the extra
// partition no matter which section header they appear under.
func Parse(data []byte, store *cards.Store) (*List, error) {
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, len(data))
	}

	list := &List{Counts: make(map[string]int)}
	section := sectionMain

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "#main":
			section = sectionMain
			continue
		case line == "#extra":
			section = sectionExtra
			continue
		case line == "!side":
			section = sectionSide
			continue
		case strings.HasPrefix(line, "#"):
			continue
		}

		id, err := strconv.Atoi(line)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: line %d: %q is not a card id", ErrMalformed, lineNo, line)
		}

		meta := store.LookupByID(id)
		if meta == nil {
			list.UnmatchedIDs = append(list.UnmatchedIDs, id)
			continue
		}

		target := section
		if meta.ExtraDeck {
			target = sectionExtra
		}
		switch target {
		case sectionMain:
			list.Main = append(list.Main, meta.Name)
		case sectionExtra:
			list.Extra = append(list.Extra, meta.Name)
		case sectionSide:
			list.Side = append(list.Side, meta.Name)
		}
		list.Counts[meta.Name]++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return list, nil
}
