package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type SolverParameters struct {
	Title         string  `yaml:"Title"`
	GridShape     []int   `yaml:"GridShape"` // interior cells per axis, halo excluded
	Tolerance     float64 `yaml:"Tolerance"`
	MaxIterations int     `yaml:"MaxIterations"`
	Sweeps        int     `yaml:"Sweeps"`
	Log           bool    `yaml:"Log"`
	PlotFile      string  `yaml:"PlotFile"` // residual history PNG, empty disables plotting
}

func (sp *SolverParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, sp); err != nil {
		return err
	}
	if len(sp.GridShape) == 0 {
		return fmt.Errorf("GridShape must list at least one axis extent")
	}
	for i, s := range sp.GridShape {
		if s < 1 {
			return fmt.Errorf("GridShape[%d] = %d is not a valid extent", i, s)
		}
	}
	return nil
}

func (sp *SolverParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", sp.Title)
	fmt.Printf("%v\t\t= GridShape\n", sp.GridShape)
	fmt.Printf("%8.5g\t\t= Tolerance\n", sp.Tolerance)
	fmt.Printf("[%d]\t\t\t= MaxIterations\n", sp.MaxIterations)
	fmt.Printf("[%d]\t\t\t\t= Sweeps\n", sp.Sweeps)
	fmt.Printf("[%v]\t\t\t= Log\n", sp.Log)
	if len(sp.PlotFile) != 0 {
		fmt.Printf("[%s]\t\t= PlotFile\n", sp.PlotFile)
	}
}
