package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"ticklob/internal/book"
	"ticklob/internal/engine"
	"ticklob/internal/metrics"
)

func newRunCommand(configPath *string, verbose *bool) *cobra.Command {
	var scriptPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay ADD/CANCEL/MODIFY/SNAPSHOT commands from a script (or stdin) against one engine.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			collector := metrics.New(prometheus.NewRegistry())
			eng := engine.New(cfg, engine.WithLogger(newLogger(*verbose)), engine.WithMetrics(collector))
			eng.Start()
			defer eng.Shutdown()

			var in io.Reader = os.Stdin
			if scriptPath != "" {
				f, err := os.Open(scriptPath)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			return runScript(eng, in, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&scriptPath, "script", "", "path to a command script (defaults to stdin)")
	return cmd
}

// runScript executes one command per non-empty, non-comment line of r,
// writing results to w. Recognized commands:
//
//	ADD <GTC|DAY|FAK|FOK|MKT> <id> <BUY|SELL> <price> <qty>
//	CANCEL <id>
//	MODIFY <id> <BUY|SELL> <price> <qty>
//	SNAPSHOT
func runScript(eng *engine.Engine, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := execLine(eng, line, w); err != nil {
			fmt.Fprintf(w, "error: %v: %q\n", err, line)
		}
	}
	return scanner.Err()
}

func execLine(eng *engine.Engine, line string, w io.Writer) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch strings.ToUpper(fields[0]) {
	case "ADD":
		if len(fields) != 6 {
			return fmt.Errorf("ADD wants 5 arguments, got %d", len(fields)-1)
		}
		typ, err := parseOrderType(fields[1])
		if err != nil {
			return err
		}
		id, err := parseOrderID(fields[2])
		if err != nil {
			return err
		}
		side, err := parseSide(fields[3])
		if err != nil {
			return err
		}
		price, err := parsePrice(fields[4])
		if err != nil {
			return err
		}
		qty, err := parseQuantity(fields[5])
		if err != nil {
			return err
		}
		trades := eng.Add(engine.AddRequest{Type: typ, ID: id, Side: side, Price: price, Quantity: qty})
		printTrades(w, trades)

	case "CANCEL":
		if len(fields) != 2 {
			return fmt.Errorf("CANCEL wants 1 argument, got %d", len(fields)-1)
		}
		id, err := parseOrderID(fields[1])
		if err != nil {
			return err
		}
		eng.Cancel(id)

	case "MODIFY":
		if len(fields) != 5 {
			return fmt.Errorf("MODIFY wants 4 arguments, got %d", len(fields)-1)
		}
		id, err := parseOrderID(fields[1])
		if err != nil {
			return err
		}
		side, err := parseSide(fields[2])
		if err != nil {
			return err
		}
		price, err := parsePrice(fields[3])
		if err != nil {
			return err
		}
		qty, err := parseQuantity(fields[4])
		if err != nil {
			return err
		}
		trades := eng.Modify(engine.ModifyRequest{ID: id, Side: side, Price: price, Quantity: qty})
		printTrades(w, trades)

	case "SNAPSHOT":
		printSnapshot(w, eng.Snapshot())

	default:
		return fmt.Errorf("unrecognized command %q", fields[0])
	}
	return nil
}

func printTrades(w io.Writer, trades []engine.Trade) {
	for _, t := range trades {
		fmt.Fprintf(w, "TRADE bid=%d ask=%d price=%d qty=%d\n", t.Bid.OrderID, t.Ask.OrderID, t.Bid.Price, t.Bid.Quantity)
	}
}

func printSnapshot(w io.Writer, snap engine.Snapshot) {
	fmt.Fprintln(w, "BIDS:")
	for _, lvl := range snap.Bids {
		fmt.Fprintf(w, "  %d x %d\n", lvl.Price, lvl.Quantity)
	}
	fmt.Fprintln(w, "ASKS:")
	for _, lvl := range snap.Asks {
		fmt.Fprintf(w, "  %d x %d\n", lvl.Price, lvl.Quantity)
	}
}

func parseOrderType(s string) (book.OrderType, error) {
	switch strings.ToUpper(s) {
	case "GTC":
		return book.GoodTillCancel, nil
	case "DAY":
		return book.GoodForDay, nil
	case "FAK":
		return book.FillAndKill, nil
	case "FOK":
		return book.FillOrKill, nil
	case "MKT":
		return book.Market, nil
	default:
		return 0, fmt.Errorf("unknown order type %q", s)
	}
}

func parseSide(s string) (book.Side, error) {
	switch strings.ToUpper(s) {
	case "BUY":
		return book.Buy, nil
	case "SELL":
		return book.Sell, nil
	default:
		return 0, fmt.Errorf("unknown side %q", s)
	}
}

func parseOrderID(s string) (book.OrderID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid order id %q: %w", s, err)
	}
	return book.OrderID(v), nil
}

func parsePrice(s string) (book.Price, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return book.Price(v), nil
}

func parseQuantity(s string) (book.Quantity, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q: %w", s, err)
	}
	return book.Quantity(v), nil
}
