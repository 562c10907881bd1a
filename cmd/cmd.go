// cmd.go - Haupt-CLI Setup und Root Command
// Hauptfunktionen: NewCLI, initLogging, appendEnvDocs
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sort"

	"github.com/containerd/console"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/elio-ai/forge/envconfig"
	"github.com/elio-ai/forge/pipeline"
)

// initLogging installiert den slog-Handler mit Level aus FORGE_DEBUG
func initLogging() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: envconfig.LogLevel(),
	})
	slog.SetDefault(slog.New(handler))
}

// appendEnvDocs - Fuegt Umgebungsvariablen-Dokumentation zum Command hinzu
func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// newEnvCmd - Zeigt die aktuelle Konfiguration an
func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show forge environment configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			envs := envconfig.AsMap()

			keys := make([]string, 0, len(envs))
			for k := range envs {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			for _, k := range keys {
				fmt.Printf("%-20s %v\n", k, envs[k].Value)
			}
			return nil
		},
	}
}

// NewCLI - Erstellt das Haupt-CLI mit allen Commands
func NewCLI() *cobra.Command {
	initLogging()
	cobra.EnableCommandSorting = false

	if runtime.GOOS == "windows" && term.IsTerminal(int(os.Stdout.Fd())) {
		console.ConsoleFromFile(os.Stdin) //nolint:errcheck
	}

	rootCmd := &cobra.Command{
		Use:           "forge",
		Short:         "Merge LoRA adapters and build quantized GGUF models",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: ForgeHandler,
	}

	rootCmd.Flags().String("base-model", "Qwen/Qwen2.5-1.5B-Instruct", "Base model identifier")
	rootCmd.Flags().String("adapter", "", "Path to the LoRA adapter weights directory")
	rootCmd.Flags().String("merged-dir", "./elio-qwen3-1.7b-jp-merged", "Directory for the merged checkpoint")
	rootCmd.Flags().StringP("output", "o", "./elio-qwen3-1.7b-jp.gguf", "Output GGUF file path")
	rootCmd.Flags().StringP("quantize", "q", string(pipeline.DefaultScheme), "Quantization scheme (e.g. q4_k_m)")
	rootCmd.Flags().String("llama-cpp", envconfig.LlamaCpp(), "Path to the llama.cpp directory")
	rootCmd.Flags().Bool("skip-merge", false, "Skip the merge stage (use existing merged checkpoint)")
	rootCmd.Flags().Bool("skip-convert", false, "Skip the convert/quantize stage")
	rootCmd.Flags().String("name", "Elio-Qwen3-1.7B-JP", "Display name written to the model info sidecar")
	rootCmd.Flags().String("description", "Qwen3 1.7B fine-tuned for Japanese thinking output", "Description written to the model info sidecar")

	rootCmd.AddCommand(newEnvCmd())

	var envVars []envconfig.EnvVar
	for _, v := range envconfig.AsMap() {
		envVars = append(envVars, v)
	}
	sort.Slice(envVars, func(i, j int) bool { return envVars[i].Name < envVars[j].Name })
	appendEnvDocs(rootCmd, envVars)

	return rootCmd
}
