package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/plan-systems/klog"

	"github.com/qudit-systems/gozx/gozx"
	"github.com/qudit-systems/gozx/libzx/catalog"
	"github.com/qudit-systems/gozx/libzx/circuit"
	"github.com/qudit-systems/gozx/libzx/clifford"
	"github.com/qudit-systems/gozx/libzx/graph"
	"github.com/qudit-systems/gozx/libzx/simplify"
)

var (
	dim     = flag.Int("dim", 3, "qudit dimension (prime)")
	dbPath  = flag.String("db", "", "catalog db path; empty for no persistence")
	steps   = flag.Bool("steps", false, "print every rewrite step")
	verify  = flag.Bool("verify", true, "check the symplectic action after every step")
	diagram = flag.Bool("diagram", false, "also lower the circuit to a ZX diagram and simplify it")
)

func main() {
	flag.Set("logtostderr", "true")

	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	flag.Parse()

	expr := flag.Arg(0)
	if expr == "" {
		fmt.Fprintln(os.Stderr, `usage: gozx [flags] "S(1); CX(0,1)^2; HAD(0)"`)
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(expr); err != nil {
		klog.Errorf("%v", err)
		klog.Flush()
		os.Exit(1)
	}
	klog.Flush()
}

func run(expr string) error {
	c, err := circuit.ParseCircuit(*dim, expr)
	if err != nil {
		return err
	}
	fmt.Println("in: ", c)

	s := clifford.NewSimplifier(c)
	s.CheckSemantics = *verify
	if _, err := s.Optimize(); err != nil {
		return err
	}
	if *steps {
		for i, step := range s.StepsDone {
			fmt.Printf("%3d %-28s %s\n", i+1, step, s.CircuitList[i+1])
		}
	}
	out := s.Circuit()
	fmt.Println("out:", out)

	if *diagram {
		g, err := c.ToGraph()
		if err != nil {
			return err
		}
		if err := simplify.CliffordSimp(g); err != nil {
			return err
		}
		fmt.Printf("diagram: %d spiders, %d edges, scalar %s\n",
			g.NumVertices()-boundaryCount(g), g.NumEdges(), g.Scalar())
	}

	if *dbPath != "" {
		cat, err := catalog.Open(catalog.Opts{DbPathName: *dbPath})
		if err != nil {
			return err
		}
		defer cat.Close()
		improved, err := cat.TryImprove(out)
		if err != nil {
			return err
		}
		if improved {
			klog.Infof("catalog: new best for this action (%d gates)", out.GateCount())
		} else if best, found, err := cat.Lookup(out); err != nil {
			return err
		} else if found {
			fmt.Println("best:", best)
		}
	}
	return nil
}

func boundaryCount(g *graph.Graph) int {
	n := 0
	for _, v := range g.Vertices() {
		if g.Type(v) == gozx.Boundary {
			n++
		}
	}
	return n
}
