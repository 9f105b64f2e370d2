// Command login shows focus handling: two inputs, enter to submit, click
// anywhere else to blur.
package main

import (
	"fmt"
	"os"

	"letui"
)

func main() {
	rt := letui.NewRuntime()

	user := letui.NewSignal(rt, "")
	pass := letui.NewSignal(rt, "")
	status := letui.NewSignal(rt, "fill in both fields")

	submit := func() {
		if user.Peek() == "" || pass.Peek() == "" {
			status.Set("fill in both fields")
			return
		}
		status.Set("welcome, " + user.Peek())
	}

	screen, err := letui.NewScreen(nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	field := letui.Props{
		Border:  letui.Border{Style: letui.BorderSquare, Color: letui.RGB(90, 90, 90)},
		Padding: letui.Padding{X: 1},
	}

	app := letui.NewApp(rt, screen, func() *letui.Node {
		return letui.Column(
			letui.Props{Padding: letui.Pad(2), Gap: 1},
			letui.Label(letui.Props{FG: letui.RGB(200, 200, 255)}, "sign in"),
			letui.Row(letui.Props{Gap: 1},
				letui.Label(letui.Props{}, "user:"),
				letui.Input(field, user, letui.InputOptions{}),
			),
			letui.Row(letui.Props{Gap: 1},
				letui.Label(letui.Props{}, "pass:"),
				letui.Input(field, pass, letui.InputOptions{
					OnBlur: submit,
				}),
			),
			letui.Button(letui.Props{
				Border:  letui.Border{Style: letui.BorderRounded},
				Padding: letui.Padding{X: 1},
			}, letui.Static("log in"), submit),
			letui.Text(letui.Props{FG: letui.RGB(120, 220, 120)}, status),
		)
	})

	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
