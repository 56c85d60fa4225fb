package report

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

var (
	errorStyle   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	warnStyle    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack, pterm.Bold)
	noteStyle    = pterm.NewStyle(pterm.FgCyan, pterm.Bold)
	successStyle = pterm.NewStyle(pterm.BgGreen, pterm.FgBlack, pterm.Bold)
	caretColor   = pterm.FgRed
	gutterColor  = pterm.FgGray
)

func bannerStyle(k Kind) *pterm.Style {
	switch k {
	case Warning:
		return warnStyle
	default:
		return errorStyle
	}
}

// displayDiagnostic renders a single diagnostic (and its attached notes) to
// the terminal: a colorized banner naming the diagnostic kind and file,
// followed by the message and, when a position is known, a source snippet
// with caret underlining.
func displayDiagnostic(reprPath string, d *Diagnostic) {
	bannerStyle(d.Kind).Print(" " + d.Kind.label() + " ")
	if reprPath != "" && d.Position != nil {
		fmt.Printf(" %s:%d:%d\n", reprPath, d.Position.StartLn+1, d.Position.StartCol+1)
	} else if reprPath != "" {
		fmt.Printf(" %s\n", reprPath)
	} else {
		fmt.Println()
	}

	fmt.Println(d.Message)

	if d.Position != nil {
		displaySourceText(d.Position)
	}

	for _, n := range d.Notes {
		noteStyle.Print(" note ")
		fmt.Println(" " + n.Message)
	}

	fmt.Println()
}

func displayFinished(outputPath string) {
	successStyle.Print(" done ")
	fmt.Printf(" wrote %s\n", outputPath)
}

func displayFailed(errorCount int) {
	errorStyle.Print(" failed ")
	fmt.Printf(" %d error(s)\n", errorCount)
}

// -----------------------------------------------------------------------------

// displaySourceText prints the source lines covered by pos, trims common
// leading whitespace, and underlines the offending range with carets in the
// error color (spec §7: "a caret-underlined range in the error color").
func displaySourceText(pos *TextPosition) {
	file, err := os.Open(pos.FilePath)
	if err != nil {
		return
	}
	defer file.Close()

	var lines []string
	sc := bufio.NewScanner(file)
	for ln := 0; sc.Scan(); ln++ {
		if pos.StartLn <= ln && ln <= pos.EndLn {
			lines = append(lines, strings.ReplaceAll(sc.Text(), "\t", "    "))
		}
	}

	if len(lines) == 0 {
		return
	}

	minIndent := math.MaxInt
	for _, line := range lines {
		indent := 0
		for _, c := range line {
			if c == ' ' {
				indent++
			} else {
				break
			}
		}
		if indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent == math.MaxInt {
		minIndent = 0
	}

	maxLineNumLen := len(strconv.Itoa(pos.EndLn + 1))
	lineNumFmt := "%-" + strconv.Itoa(maxLineNumLen) + "v | "

	for i, line := range lines {
		trimmed := line
		if minIndent <= len(line) {
			trimmed = line[minIndent:]
		}

		gutterColor.Printf(lineNumFmt, i+pos.StartLn+1)
		fmt.Println(trimmed)

		gutterColor.Print(strings.Repeat(" ", maxLineNumLen), " | ")

		var prefix int
		if i == 0 {
			prefix = pos.StartCol - minIndent
		}
		var suffix int
		if i == len(lines)-1 {
			suffix = len(line) - pos.EndCol
		}

		carets := len(line) - suffix - prefix - minIndent
		if carets < 1 {
			carets = 1
		}

		fmt.Print(strings.Repeat(" ", max(prefix, 0)))
		caretColor.Println(strings.Repeat("^", carets))
	}

	fmt.Println()
}
