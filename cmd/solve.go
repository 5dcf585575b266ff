/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/b-fg/waterlily/InputParameters"
	"github.com/b-fg/waterlily/logger"
	"github.com/b-fg/waterlily/model_problems/PoissonND"
	"github.com/b-fg/waterlily/poisson"
)

// solveCmd represents the solve command
var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Runs the manufactured-solution Poisson model problem",
	Long: `Runs the matrix-free relaxation solver on the uniform-coefficient
Laplacian with a manufactured right-hand side, reporting the residual
history and the error against the exact discrete solution`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err    error
			icFile string
		)
		if icFile, err = cmd.Flags().GetString("inputParametersFile"); err != nil {
			panic(err)
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
		prof, _ := cmd.Flags().GetBool("profile")
		if prof {
			defer profile.Start(profile.CPUProfile).Stop()
		}
		sp := processSolveInput(icFile)
		if plotFile, _ := cmd.Flags().GetString("plot"); len(plotFile) != 0 {
			sp.PlotFile = plotFile
		}
		RunSolve(sp)
	},
}

func processSolveInput(icFile string) (sp *InputParameters.SolverParameters) {
	var (
		err error
	)
	if len(icFile) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputParametersFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Manufactured Poisson"
GridShape: [64, 64]
Tolerance: 1.e-4
MaxIterations: 1000
Sweeps: 5
Log: true
PlotFile: residual.png
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	var data []byte
	if data, err = os.ReadFile(icFile); err != nil {
		panic(err)
	}
	sp = &InputParameters.SolverParameters{}
	if err = sp.Parse(data); err != nil {
		panic(err)
	}
	sp.Print()
	return
}

func RunSolve(sp *InputParameters.SolverParameters) {
	log := logger.Logger()
	c := PoissonND.NewCase(sp.GridShape)
	history, errL2, errMax := c.Run(poisson.Settings{
		Tolerance:     sp.Tolerance,
		MaxIterations: sp.MaxIterations,
		Sweeps:        sp.Sweeps,
	})
	iterations := c.Op.N[len(c.Op.N)-1]
	if sp.Log {
		for i, r2 := range history {
			fmt.Printf("iteration %4d, residual L2 = %12.6e\n", i, r2)
		}
	}
	final := history[len(history)-1]
	log.Info().
		Int("iterations", iterations).
		Float64("residual", final).
		Float64("errL2", errL2).
		Float64("errMax", errMax).
		Msg("solve finished")
	fmt.Printf("converged in %d iterations, residual = %8.6e, error(L2, max) = %8.6e, %8.6e\n",
		iterations, final, errL2, errMax)
	if len(sp.PlotFile) != 0 {
		if err := plotResidualHistory(history, sp.Title, sp.PlotFile); err != nil {
			fmt.Printf("unable to write residual plot: %s\n", err.Error())
			return
		}
		fmt.Printf("residual history written to %s\n", sp.PlotFile)
	}
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file for input parameters like:\n\t- GridShape\n\t- Tolerance\n\t- Sweeps")
	solveCmd.Flags().String("plot", "", "write the residual history to this PNG file, overrides PlotFile")
	solveCmd.Flags().Bool("profile", false, "write a CPU profile for the run")
	solveCmd.Flags().BoolP("verbose", "v", false, "enable debug logging")
}
