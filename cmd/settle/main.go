// Command settle prints the payments that settle a file of debts.
//
//	settle [-json] [-v] debts.yaml
//
// Reads stdin when the file is "-".
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mmynk/settlewise/internal/calculator"
	"github.com/mmynk/settlewise/internal/debtfile"
	"github.com/mmynk/settlewise/internal/money"
	"github.com/mmynk/settlewise/pkg/api"
	"github.com/mmynk/settlewise/pkg/logging"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("settle", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "print the payments as JSON")
	verbose := fs.Bool("v", false, "log debug output to stderr")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: settle [-json] [-v] <debts.yaml|->")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(logging.New(stderr, level, true))

	file, err := readFile(fs.Arg(0), stdin)
	if err != nil {
		slog.Error("Failed to read debts", "error", err)
		return 1
	}

	edges, err := file.NamedEdges()
	if err != nil {
		slog.Error("Invalid debt", "error", err)
		return 1
	}

	names := file.Participants()
	debts, err := calculator.Plan(names, edges)
	if err != nil {
		slog.Error("Failed to settle debts", "error", err)
		return 1
	}
	slog.Debug("Settled debts", "participants", len(names), "edges", len(edges), "payments", len(debts))

	if *asJSON {
		return writeJSON(stdout, debts)
	}
	if len(debts) == 0 {
		fmt.Fprintln(stdout, "Everyone is settled up.")
		return 0
	}
	for _, d := range debts {
		fmt.Fprintf(stdout, "%s owes %s: %s\n", d.From, d.To, money.Format(d.Amount))
	}
	return 0
}

func readFile(path string, stdin io.Reader) (*debtfile.File, error) {
	if path == "-" {
		return debtfile.Read(stdin)
	}
	return debtfile.Load(path)
}

func writeJSON(w io.Writer, debts []calculator.DebtEdge) int {
	payments := make([]api.Payment, len(debts))
	for i, d := range debts {
		payments[i] = api.Payment{From: d.From, To: d.To, Amount: money.Format(d.Amount)}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(api.PlanResponse{Transactions: payments}); err != nil {
		slog.Error("Failed to write JSON", "error", err)
		return 1
	}
	return 0
}
