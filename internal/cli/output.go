package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	formatText = "text"
	formatJSON = "json"
)

type textPrinter interface {
	printText(w io.Writer)
}

// output - prints results as indented JSON or as human readable text.
type output struct {
	w      io.Writer
	format string
}

func (that *output) print(data any) error {
	if that.format == formatJSON {
		enc := json.NewEncoder(that.w)
		enc.SetIndent("", "  ")

		return enc.Encode(data)
	}

	if p, ok := data.(textPrinter); ok {
		p.printText(that.w)
		return nil
	}

	_, err := fmt.Fprintf(that.w, "%+v\n", data)

	return err
}

func renderBoard(w io.Writer, board [][]string) {
	for i, row := range board {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = cell
			if cell == "" {
				cells[j] = "."
			}
		}

		fmt.Fprintf(w, " %s\n", strings.Join(cells, " | "))
		if i < len(board)-1 {
			fmt.Fprintln(w, "---+---+---")
		}
	}
}
