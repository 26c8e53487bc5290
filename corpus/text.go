package corpus

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/revelaction/interlin/igt"
)

// ReadText reads plain interlinear text: blocks of a language, a gloss and a
// translation line separated by blank lines. Lines starting with "#" are
// skipped.
func ReadText(r io.Reader) ([]Record, error) {
	var (
		records []Record
		block   []string
		start   int
	)

	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		if len(block) != 3 {
			return fmt.Errorf("line %d: %w: block has %d lines, want 3", start, igt.ErrMissingLine, len(block))
		}
		records = append(records, Record{Lang: block[0], Gloss: block[1], Trans: block[2]})
		block = nil
		return nil
	}

	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		if line == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		if len(block) == 0 {
			start = n
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return records, nil
}

// WriteText writes records in the format read by ReadText.
func WriteText(w io.Writer, records []Record) error {
	for i, rec := range records {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "# %s\n%s\n%s\n%s\n", rec.ID, rec.Lang, rec.Gloss, rec.Trans); err != nil {
			return err
		}
	}
	return nil
}
