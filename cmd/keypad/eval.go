package main

import (
	"context"
	"fmt"
	"strings"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/keypad"
	"go-chi-calculator/internal/remote"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var evalCmd = &cobra.Command{
	Use:   "eval KEY...",
	Short: "Press a key sequence against the calculator API and print the display",
	Long: `Runs one keypad session over the given keys and prints the final
display. Keys are digits and ".", the operators + - * /, "=" and "C".
Adjacent digits may be grouped: "eval 12.5 + 3 =" prints 15.5.`,
	Example: `  keypad eval 5 + 3 '*' 2 =
  keypad eval --remote-url http://calc:8080 5 / 0 =`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		keys, err := splitKeys(args)
		if err != nil {
			return err
		}

		machine := keypad.New(
			remote.NewClient(cfg.RemoteURL),
			keypad.WithRequestTimeout(cfg.RequestTimeout),
			keypad.WithLogger(zap.NewNop()),
		)
		defer machine.Close()

		snap, err := pressKeys(cmd.Context(), machine, keys)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), snap.Display)
		return nil
	},
}

// splitKeys expands grouped digits ("12.5") into single keys.
func splitKeys(args []string) ([]string, error) {
	var keys []string
	for _, arg := range args {
		switch arg {
		case "=", "C", "c":
			keys = append(keys, strings.ToUpper(arg))
			continue
		}
		if op, err := calculator.ParseOperator(arg); err == nil {
			keys = append(keys, op.String())
			continue
		}
		for _, r := range arg {
			d := string(r)
			if !keypad.ValidDigit(d) {
				return nil, fmt.Errorf("unknown key %q in %q", d, arg)
			}
			keys = append(keys, d)
		}
	}
	return keys, nil
}

// pressKeys feeds keys one by one, waiting for each calculation to resolve
// before the next key the way a person watching the display would.
func pressKeys(ctx context.Context, machine *keypad.Machine, keys []string) (keypad.Snapshot, error) {
	updates, unsubscribe := machine.Subscribe(16)
	defer unsubscribe()

	for _, key := range keys {
		var err error
		switch key {
		case "=":
			_, err = machine.Equals()
		case "C":
			_, err = machine.Clear()
		case "+", "-", "*", "/":
			_, err = machine.Operator(calculator.Operator(key))
		default:
			_, err = machine.Digit(key)
		}
		if err != nil {
			return machine.Snapshot(), err
		}

		// Older snapshots may still be buffered; only the machine's current
		// state decides whether to keep waiting.
		for machine.Snapshot().InFlight {
			select {
			case <-ctx.Done():
				return machine.Snapshot(), ctx.Err()
			case _, ok := <-updates:
				if !ok {
					return machine.Snapshot(), keypad.ErrClosed
				}
			}
		}
	}
	return machine.Snapshot(), nil
}
