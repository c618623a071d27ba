package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/PolyhedraZK/ApproxSwitchCompiler/checker"
	"github.com/PolyhedraZK/ApproxSwitchCompiler/component"
	"github.com/PolyhedraZK/ApproxSwitchCompiler/expr"
	"github.com/PolyhedraZK/ApproxSwitchCompiler/ir"
	"github.com/PolyhedraZK/ApproxSwitchCompiler/proof"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type primitiveArgs struct {
	drops       []string
	approximate bool
}

func (a *primitiveArgs) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&a.drops, "drop", nil, "output tags to drop, in order")
	cmd.Flags().BoolVar(&a.approximate, "approximate", false, "use the approximate script")
}

func (a *primitiveArgs) instance(name string) (*component.Instance, error) {
	p, ok := component.ByName(name)
	if !ok {
		return nil, errors.Errorf("unknown primitive %q, want one of and, ha, fa, ca", name)
	}
	in, err := component.New(expr.NewEngine(), p.Kind.String(), p)
	if err != nil {
		return nil, err
	}
	if a.approximate {
		if err := in.ConvertMode(); err != nil {
			return nil, err
		}
	}
	for _, tag := range a.drops {
		if err := in.DropOutput(tag); err != nil {
			return nil, err
		}
	}
	return in, nil
}

func newTruthCmd() *cobra.Command {
	var a primitiveArgs
	cmd := &cobra.Command{
		Use:   "truth <primitive>",
		Short: "Print the script, cost, output functions and truth table of a primitive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.instance(args[0])
			if err != nil {
				return err
			}
			return printTruth(cmd.OutOrStdout(), in)
		},
	}
	a.register(cmd)
	return cmd
}

func printTruth(w io.Writer, in *component.Instance) error {
	s := in.Summary()
	fmt.Fprintf(w, "%s (%s) operation_step=%d\n", s.Kind, s.Mode, s.OperationStep)
	fmt.Fprintln(w, ir.Join(in.Operations()))

	tags := in.OutputTags()
	for _, tag := range tags {
		x, _ := in.Output(tag)
		if in.IsDropped(tag) {
			fmt.Fprintf(w, "%s = %s (placeholder)\n", tag, x)
			continue
		}
		fmt.Fprintf(w, "%s = %s\n", tag, x)
	}
	if refs, err := checker.Reference(in.Engine(), in.Kind(), in.Mode()); err == nil {
		if err := checker.Equivalent(in, checker.Live(in, refs)); err != nil {
			fmt.Fprintf(w, "reference: %v\n", err)
		} else {
			fmt.Fprintln(w, "reference: equivalent")
		}
	}

	rows, err := checker.TruthTable(in)
	if err != nil {
		return err
	}
	ports := in.Primitive().Inputs
	heads := make([]string, len(tags))
	for i, tag := range tags {
		heads[i] = tag
		if in.IsDropped(tag) {
			heads[i] = "~" + tag
		}
	}
	fmt.Fprintf(w, "%s | %s\n", strings.Join(ports, " "), strings.Join(heads, " "))
	for _, r := range rows {
		cells := make([]string, 0, len(ports)+len(tags))
		for _, p := range ports {
			cells = append(cells, bit(r.Inputs[p], len(p)))
		}
		cells = append(cells, "|")
		for i, tag := range tags {
			cells = append(cells, bit(r.Outputs[tag], len(heads[i])))
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, " ")); err != nil {
			return err
		}
	}
	return nil
}

func bit(v bool, width int) string {
	s := "0"
	if v {
		s = "1"
	}
	return fmt.Sprintf("%-*s", width, s)
}

func newProveCmd() *cobra.Command {
	var a primitiveArgs
	cmd := &cobra.Command{
		Use:   "prove <primitive>",
		Short: "Check a primitive against its R1CS arithmetization and count constraints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.instance(args[0])
			if err != nil {
				return err
			}
			if err := proof.Check(in); err != nil {
				return err
			}
			n, err := proof.Count(in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: solved on all %d rows, %d constraints, operation_step=%d\n",
				in.ID, 1<<len(in.Primitive().Inputs), n, in.OperationStep())
			return nil
		},
	}
	a.register(cmd)
	return cmd
}
