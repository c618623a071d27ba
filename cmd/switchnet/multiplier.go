package main

import (
	"fmt"
	"os"
	"strings"

	switchnet "github.com/PolyhedraZK/ApproxSwitchCompiler"
	"github.com/PolyhedraZK/ApproxSwitchCompiler/config"
	"github.com/PolyhedraZK/ApproxSwitchCompiler/multiplier"
	"github.com/consensys/gnark/logger"
	"github.com/spf13/cobra"
)

func loadPlan(path string) (*config.Plan, error) {
	if path == "" {
		return nil, nil
	}
	return config.Load(path)
}

func newCostCmd() *cobra.Command {
	var planPath string
	cmd := &cobra.Command{
		Use:   "cost",
		Short: "Print the operation step of every multiplier instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loadPlan(planPath)
			if err != nil {
				return err
			}
			res, err := switchnet.Compile(plan)
			if err != nil {
				return err
			}
			return res.Print(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&planPath, "plan", "p", "", "approximation plan (yaml)")
	return cmd
}

func newDropsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drops",
		Short: "List the outputs each multiplier instance may drop",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := multiplier.New()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, g := range m.DropGroups() {
				fmt.Fprintf(w, "[%s] %s\n", strings.Join(g.Tags, ","), strings.Join(g.IDs, " "))
			}
			return nil
		},
	}
}

func newEvaluateCmd() *cobra.Command {
	var planPath string
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score an approximation plan on sampled operands",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loadPlan(planPath)
			if err != nil {
				return err
			}
			res, err := switchnet.Compile(plan)
			if err != nil {
				return err
			}
			r, err := res.Evaluate(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "samples          %d\n", r.Samples)
			fmt.Fprintf(w, "wrong products   %d (%.4f)\n", r.ErrorCount, r.ErrorRate)
			fmt.Fprintf(w, "error sum        %d\n", r.ErrorSum)
			fmt.Fprintf(w, "mean error       %.4f\n", r.MeanErrorDistance)
			fmt.Fprintf(w, "max error        %d\n", r.MaxError)
			fmt.Fprintf(w, "operation step   %d / %d\n", r.ApproxCost, r.ExactCost)
			fmt.Fprintf(w, "save ratio       %.6f\n", r.SaveRatio)
			fmt.Fprintf(w, "score            %.4f\n", r.Score)
			return nil
		},
	}
	cmd.Flags().StringVarP(&planPath, "plan", "p", "", "approximation plan (yaml)")
	return cmd
}

func newLUTCmd() *cobra.Command {
	var planPath, out string
	cmd := &cobra.Command{
		Use:   "lut",
		Short: "Write the signed 8 bit product lookup table as csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loadPlan(planPath)
			if err != nil {
				return err
			}
			res, err := switchnet.Compile(plan)
			if err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			s, err := res.WriteLUT(f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			log := logger.Logger()
			log.Info().
				Str("file", out).
				Int("entries", s.Entries).
				Float64("mae", s.MAE).
				Float64("mse", s.MSE).
				Float64("mred", s.MRED).
				Msg("wrote lookup table")
			return nil
		},
	}
	cmd.Flags().StringVarP(&planPath, "plan", "p", "", "approximation plan (yaml)")
	cmd.Flags().StringVarP(&out, "out", "o", "lut.csv", "output file")
	return cmd
}
