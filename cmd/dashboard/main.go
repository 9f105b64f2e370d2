// Command dashboard demonstrates async resources: a query input drives a
// simulated fetch, with stale responses discarded when the query changes
// mid-flight.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"letui"
)

// fakeLookup simulates a slow backend call.
func fakeLookup(ctx context.Context, query string) (string, error) {
	delay := time.Duration(200+rand.Intn(800)) * time.Millisecond
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if query == "" {
		return "type a query above", nil
	}
	return fmt.Sprintf("%d results for %q (%.0fms)", len(query)*7, query, delay.Seconds()*1000), nil
}

func main() {
	rt := letui.NewRuntime()

	query := letui.NewSignal(rt, "")
	results := letui.NewResource(rt, query, fakeLookup)

	display := letui.Derive(rt, func() string {
		if results.Loading.Get() {
			return "loading..."
		}
		if d := results.Data.Get(); d != nil {
			return *d
		}
		return ""
	})

	screen, err := letui.NewScreen(nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app := letui.NewApp(rt, screen, func() *letui.Node {
		return letui.Column(
			letui.Props{Padding: letui.Pad(1), Gap: 1},
			letui.Label(letui.Props{FG: letui.RGB(200, 200, 255)}, "search"),
			letui.Input(letui.Props{
				Border:  letui.Border{Style: letui.BorderSquare, Color: letui.RGB(90, 90, 90)},
				Padding: letui.Padding{X: 1},
			}, query, letui.InputOptions{}),
			letui.Column(letui.Props{
				Border:  letui.Border{Style: letui.BorderRounded},
				Padding: letui.Pad(1),
			},
				letui.Text(letui.Props{}, display),
			),
		)
	})

	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
