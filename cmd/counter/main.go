// Command counter is the smallest interactive example: one signal, one
// derived label, two buttons.
package main

import (
	"fmt"
	"os"
	"strconv"

	"letui"
)

func main() {
	rt := letui.NewRuntime()

	count := letui.NewSignal(rt, 0)
	label := letui.Derive(rt, func() string {
		return "count: " + strconv.Itoa(count.Get())
	})

	screen, err := letui.NewScreen(nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app := letui.NewApp(rt, screen, func() *letui.Node {
		btn := letui.Props{
			Border:  letui.Border{Style: letui.BorderRounded},
			Padding: letui.Padding{X: 1},
		}
		return letui.Column(
			letui.Props{Padding: letui.Pad(1), Gap: 1},
			letui.Text(letui.Props{FG: letui.RGB(120, 220, 120)}, label),
			letui.Row(letui.Props{Gap: 2},
				letui.Button(btn, letui.Static("-"), func() {
					count.Update(func(v int) int { return v - 1 })
				}),
				letui.Button(btn, letui.Static("+"), func() {
					count.Update(func(v int) int { return v + 1 })
				}),
			),
			letui.Label(letui.Props{FG: letui.RGB(120, 120, 120)}, "click or press enter on a focused button, ctrl-c to quit"),
		)
	})

	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
