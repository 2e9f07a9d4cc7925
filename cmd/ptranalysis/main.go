// Command ptranalysis runs Andersen- or Steensgaard-style pointer analysis
// over a textual IR file and prints (or CSV-dumps) the resulting points-to
// relation.
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/irssa/ptranalysis/andersen"
	"github.com/irssa/ptranalysis/ir"
	"github.com/irssa/ptranalysis/ir/parse"
	"github.com/irssa/ptranalysis/steensgaard"
)

func main() {
	app := cli.NewApp()
	app.Name = "ptranalysis"
	app.Usage = "Andersen- and Steensgaard-style pointer analysis over a textual IR module"
	app.ArgsUsage = "<ir-file>"

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "mode",
			Value: "intra",
			Usage: "analysis mode: intra, inter, parallel, steensgaard",
		},
		cli.StringFlag{
			Name:  "entry",
			Value: "main",
			Usage: "entry function for inter mode",
		},
		cli.BoolFlag{
			Name:  "print-results",
			Usage: "print the points-to set of every touched value",
		},
		cli.BoolFlag{
			Name:  "print-stats",
			Usage: "print per-worker timing statistics (parallel mode only)",
		},
		cli.BoolFlag{
			Name:  "csv",
			Usage: "write <ir-file>.csv with a row per analyzed function (intra mode only)",
		},
		cli.IntFlag{
			Name:  "nthreads",
			Value: runtime.NumCPU(),
			Usage: "worker count (parallel mode only)",
		},
		cli.IntFlag{
			Name:  "run-count",
			Value: 1,
			Usage: "times to re-run each function's analysis when timing for CSV output",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug-level logging",
		},
	}

	app.Action = run

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Error("ptranalysis failed")
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Bool("debug") {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if c.NArg() < 1 {
		return cli.NewExitError("expected exactly one IR file argument", 2)
	}
	path := c.Args().Get(0)

	f, err := os.Open(path)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("cannot open IR file: %v", err), 1)
	}
	defer f.Close()

	mod, err := parse.Parse(f)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("cannot parse IR file: %v", err), 1)
	}

	fnCount := 0
	for _, fn := range mod.Functions {
		if !fn.IsDeclaration() {
			fnCount++
		}
	}

	switch mode := c.String("mode"); mode {
	case "intra":
		fmt.Printf("Intra-Procedural Analysis\n%d function(s)\n", fnCount)
		results := andersen.Intra(mod)
		if c.Bool("csv") {
			if err := writeCSV(path, mod, c.Int("run-count")); err != nil {
				return cli.NewExitError(err.Error(), 1)
			}
		}
		if c.Bool("print-results") {
			for fn, r := range results {
				fmt.Printf("\nFunction: %s\n%s******************************** %s\n", fn.Name(), r.String(), fn.Name())
			}
		}

	case "inter":
		fmt.Printf("Inter-Function Analysis\n%d function(s)\n", fnCount)
		entry := c.String("entry")
		res, err := andersen.Inter(mod, entry)
		if err != nil {
			if _, ok := err.(*andersen.ErrNoEntryPoint); ok {
				fmt.Printf("Cannot find entry function %q.\n", entry)
				return nil
			}
			return cli.NewExitError(err.Error(), 1)
		}
		if c.Bool("print-results") {
			fmt.Println(res.String())
			fmt.Printf("\nCall graph:\n%s\n", res.CallGraphString())
		}

	case "parallel":
		fmt.Printf("Parallel Intra-Procedural Analysis\n%d function(s)\n", fnCount)
		res := andersen.Parallel(mod, c.Int("nthreads"))
		if c.Bool("print-results") {
			for fn, r := range res.PerFunction {
				fmt.Printf("\nFunction: %s\n%s******************************** %s\n", fn.Name(), r.String(), fn.Name())
			}
		}
		if c.Bool("print-stats") {
			printStats(res.Stats)
		}

	case "steensgaard":
		fmt.Printf("Steensgaard's analysis\n%d function(s)\n", fnCount)
		res := steensgaard.Analyze(mod)
		if c.Bool("print-results") {
			fmt.Println(res.String())
		}

	default:
		return cli.NewExitError(fmt.Sprintf("unknown mode %q", mode), 2)
	}

	return nil
}

func printStats(stats []andersen.ParallelStats) {
	for _, s := range stats {
		fmt.Printf("\nThread %d\ttime:\t%s\n", s.ThreadID, s.TotalTime)
		fmt.Printf("Max task time:\t%s with\t%d BBs\n", s.MaxTime, s.MaxTimeSize)
		fmt.Printf("Tasks processed:\t%d\n", s.TaskCount)
		fmt.Printf("Task size mean:\t%.2f, var:\t%.2f, std dev:\t%.2f\n", s.MeanSize, s.VarSize, s.StdDevSize())
		fmt.Printf("Task time mean(us):\t%.2f, var:\t%.2f, std dev:\t%.2f\n", s.MeanTimeUs, s.VarTimeUs, s.StdDevTimeUs())
	}
}

// writeCSV re-times every function's intra-procedural analysis runCount
// times and writes one row per function to <path>.csv, matching the
// name,size,inum,time(us) header of the original CSV mode.
func writeCSV(path string, mod *ir.Module, runCount int) error {
	if runCount < 1 {
		runCount = 1
	}

	out, err := os.Create(path + ".csv")
	if err != nil {
		return err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write([]string{"name", "size", "inum", "time(us)"}); err != nil {
		return err
	}

	for _, fn := range mod.Functions {
		if fn.IsDeclaration() {
			continue
		}
		instNum := 0
		for _, bb := range fn.Blocks {
			instNum += len(bb.Instrs)
		}

		total := andersen.TimeFunction(mod, fn, runCount)
		row := []string{
			fn.Name(),
			fmt.Sprint(len(fn.Blocks)),
			fmt.Sprint(instNum),
			fmt.Sprint(total.Microseconds() / int64(runCount)),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
