// Package logx carries the scheduler's diagnostic output: tagged,
// colored status lines and a live beam-search progress bar, in the
// style of the host toolchain's own console output.
package logx

import "github.com/pterm/pterm"

var (
	errorStyleBG = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	warnStyleBG  = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	infoStyleBG  = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)

	errorColorFG = pterm.FgRed
	warnColorFG  = pterm.FgYellow
	infoColorFG  = pterm.FgLightGreen
	debugColorFG = pterm.FgGray
)

// Error prints a tagged error message.
func Error(tag, msg string) {
	errorStyleBG.Print(tag)
	errorColorFG.Println(" " + msg)
}

// Warn prints a tagged warning message.
func Warn(tag, msg string) {
	warnStyleBG.Print(tag)
	warnColorFG.Println(" " + msg)
}

// Info prints a tagged informational message.
func Info(tag, msg string) {
	infoStyleBG.Print(tag)
	infoColorFG.Println(" " + msg)
}

// Debug prints a dim, untagged diagnostic line. Verbose output (the
// per-func cost breakdown, tree dumps) goes through this so it's easy
// to filter or silence.
func Debug(msg string) {
	debugColorFG.Println(msg)
}

// Progress is a live beam-search progress bar, updated once per
// expansion batch rather than per expansion to keep the terminal from
// thrashing.
type Progress struct {
	bar *pterm.ProgressbarPrinter
}

// NewProgress starts a progress bar titled for the given number of
// functions the search must place.
func NewProgress(total int, title string) *Progress {
	bar, _ := pterm.DefaultProgressbar.WithTotal(total).WithTitle(title).Start()
	return &Progress{bar: bar}
}

// SetCurrent moves the bar to an absolute function-placed count.
func (p *Progress) SetCurrent(n int) {
	if p == nil || p.bar == nil {
		return
	}
	p.bar.Current = n
}

// Stop finishes the bar, leaving its final state on screen.
func (p *Progress) Stop() {
	if p == nil || p.bar == nil {
		return
	}
	p.bar.Stop()
}
