// cmd_forge.go - Pipeline-Lauf: Config aus Flags, Driver-Aufruf, Summary
// Hauptfunktionen: ForgeHandler, configFromFlags, printSummary
package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/elio-ai/forge/format"
	"github.com/elio-ai/forge/llamacpp"
	"github.com/elio-ai/forge/pipeline"
	"github.com/elio-ai/forge/progress"
)

// ForgeHandler - Fuehrt die Merge- und Convert-Pipeline aus
func ForgeHandler(cmd *cobra.Command, args []string) error {
	config, err := configFromFlags(cmd)
	if err != nil {
		return err
	}

	p := progress.NewProgress(os.Stderr)
	defer p.Stop()

	spinner := progress.NewSpinner("starting pipeline")
	p.Add("pipeline", spinner)

	runner := llamacpp.NewRunner()
	driver := pipeline.NewDriver(config,
		pipeline.ScriptMerger{Runner: runner},
		pipeline.ConvertQuantize{Runner: runner, Suite: llamacpp.NewSuite(config.LlamaCpp)},
	)
	driver.StatusFunc = spinner.SetMessage

	result, err := driver.Run(cmd.Context())
	spinner.Stop()
	if err != nil {
		p.StopAndClear()
		return err
	}

	p.StopAndClear()
	printSummary(result)

	fmt.Fprintf(os.Stderr, "\nTo use this model in Elio:\n")
	fmt.Fprintf(os.Stderr, "  1. Copy %s to the app's Models folder\n", result.ArtifactPath)
	fmt.Fprintf(os.Stderr, "  2. The model will appear in the model selection list\n")

	return nil
}

// configFromFlags baut die unveraenderliche Pipeline-Konfiguration
func configFromFlags(cmd *cobra.Command) (pipeline.Config, error) {
	quantize, _ := cmd.Flags().GetString("quantize")
	scheme, err := pipeline.ParseScheme(quantize)
	if err != nil {
		return pipeline.Config{}, err
	}

	baseModel, _ := cmd.Flags().GetString("base-model")
	adapter, _ := cmd.Flags().GetString("adapter")
	mergedDir, _ := cmd.Flags().GetString("merged-dir")
	output, _ := cmd.Flags().GetString("output")
	llamaCpp, _ := cmd.Flags().GetString("llama-cpp")
	skipMerge, _ := cmd.Flags().GetBool("skip-merge")
	skipConvert, _ := cmd.Flags().GetBool("skip-convert")
	name, _ := cmd.Flags().GetString("name")
	description, _ := cmd.Flags().GetString("description")

	config := pipeline.Config{
		BaseModel:   baseModel,
		AdapterPath: adapter,
		MergedDir:   mergedDir,
		OutputPath:  output,
		Quantize:    scheme,
		LlamaCpp:    llamaCpp,
		SkipMerge:   skipMerge,
		SkipConvert: skipConvert,
		Name:        name,
		Description: description,
	}

	return config, config.Validate()
}

// printSummary - Gibt die Stage-Uebersicht als Tabelle aus
func printSummary(result *pipeline.Result) {
	var data [][]string
	for _, stage := range result.Stages {
		size := "-"
		if stage.Output == result.ArtifactPath && result.ArtifactSize > 0 {
			size = format.HumanBytes(result.ArtifactSize)
		}
		data = append(data, []string{stage.Name, stage.Status, stage.Output, size})
	}
	if result.InfoPath != "" {
		data = append(data, []string{"metadata", "completed", result.InfoPath, "-"})
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"STAGE", "STATUS", "ARTIFACT", "SIZE"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
}
