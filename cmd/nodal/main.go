package main

import (
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/ohmlab/nodal/pkg/component"
	"github.com/ohmlab/nodal/pkg/export"
	"github.com/ohmlab/nodal/pkg/laplace"
	"github.com/ohmlab/nodal/pkg/netlist"
	"github.com/ohmlab/nodal/pkg/transient"
	"github.com/ohmlab/nodal/pkg/util"
)

var (
	netFile   string
	dt        float64
	duration  float64
	plotNode  string
	csvPath   string
	plotPath  string
	useSparse bool
	asLatex   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nodal",
		Short: "lumped-circuit transient and Laplace-domain analysis",
	}
	rootCmd.PersistentFlags().StringVar(&netFile, "file", "", "netlist file (yaml)")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a transient simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTransient,
	}
	runCmd.Flags().Float64Var(&dt, "dt", 10e-6, "timestep in seconds")
	runCmd.Flags().Float64Var(&duration, "time", 10e-3, "duration in seconds")
	runCmd.Flags().StringVar(&plotNode, "node", "", "node to plot (default: first)")
	runCmd.Flags().StringVar(&csvPath, "csv", "", "write node voltages as CSV")
	runCmd.Flags().StringVar(&plotPath, "plot", "", "write a waveform image (png/svg/pdf)")
	runCmd.Flags().BoolVar(&useSparse, "sparse", false, "use the sparse LU backend")

	laplaceCmd := &cobra.Command{
		Use:   "laplace [preset]",
		Short: "solve the network symbolically in the Laplace domain",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLaplace,
	}
	laplaceCmd.Flags().BoolVar(&asLatex, "latex", false, "print LaTeX instead of plain expressions")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in networks",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range netlist.Presets() {
				deck, _ := netlist.Preset(name)
				fmt.Printf("%-12s %s\n", name, deck.Name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, laplaceCmd, presetsCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func loadComponents(args []string) ([]component.Component, string, error) {
	var deck *netlist.Netlist
	var err error
	switch {
	case netFile != "":
		deck, err = netlist.Load(netFile)
		if err != nil {
			return nil, "", err
		}
	case len(args) == 1:
		var ok bool
		deck, ok = netlist.Preset(args[0])
		if !ok {
			return nil, "", fmt.Errorf("unknown preset %q (see `nodal presets`)", args[0])
		}
	default:
		return nil, "", fmt.Errorf("need a preset name or --file")
	}

	comps, err := deck.Components()
	if err != nil {
		return nil, "", err
	}
	return comps, deck.Name, nil
}

func runTransient(cmd *cobra.Command, args []string) error {
	comps, name, err := loadComponents(args)
	if err != nil {
		return err
	}

	var opts []transient.Option
	if useSparse {
		opts = append(opts, transient.WithSparseSolver())
	}
	res, err := transient.Simulate(comps, transient.Config{Dt: dt, Duration: duration}, opts...)
	if err != nil {
		return err
	}

	node := plotNode
	if node == "" && len(res.Nodes) > 0 {
		node = res.Nodes[0]
	}
	if series, ok := res.NodeVoltages[node]; ok {
		graph := asciigraph.Plot(series,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s: V(%s)", name, node)),
		)
		fmt.Println(graph)
	}

	fmt.Printf("\n%d steps of %s, matrix %dx%d, %d components\n",
		res.Stats.Steps, util.FormatValueFactor(dt, "s"),
		res.Stats.MatrixSize, res.Stats.MatrixSize, res.Stats.ComponentCount)
	fmt.Printf("assembly %v, solve %v\n", res.Stats.AssemblyTime, res.Stats.SolveTime)

	if csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.WriteCSV(f, res); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", csvPath)
	}
	if plotPath != "" {
		if err := export.SavePlot(plotPath, name, res, nil); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", plotPath)
	}
	return nil
}

func runLaplace(cmd *cobra.Command, args []string) error {
	comps, name, err := loadComponents(args)
	if err != nil {
		return err
	}

	res, err := laplace.Solve(comps)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n\n", name)
	for _, node := range res.Nodes {
		expr := res.NodeVoltages[node]
		if asLatex {
			fmt.Printf("V_{%s}(s) = %s\n", node, expr.LaTeX())
		} else {
			fmt.Printf("V(%s) = %s\n", node, expr)
		}
	}

	ids := make([]string, 0, len(res.BranchCurrents))
	for id := range res.BranchCurrents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		expr := res.BranchCurrents[id]
		if asLatex {
			fmt.Printf("I_{%s}(s) = %s\n", id, expr.LaTeX())
		} else {
			fmt.Printf("I(%s) = %s\n", id, expr)
		}
	}
	return nil
}
