package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	pathpkg "path/filepath"
	"runtime/pprof"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"sim8086/internal/config"
	"sim8086/internal/disasm"
	"sim8086/internal/image"
	"sim8086/internal/logging"
	"sim8086/internal/sim8086/log"
)

func init() {
	addRootFlags(rootCmd)
}

func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolP("debug", "d", false, "Debug")
	cmd.PersistentFlags().StringP("config", "c", "", "JSON config file")

	cmd.Flags().BoolP("help", "h", false, "Help")
	cmd.Flags().BoolP("no-tui", "n", false, "Print the listing without TUI")
	cmd.Flags().BoolP("full", "f", false, "Annotate each line with its offset and bytes (implies --no-tui)")
	cmd.Flags().BoolP("json", "j", false, "Output results as JSON for regression testing")
	cmd.Flags().BoolP("lower", "l", false, "Lower case listing")
	cmd.Flags().Bool("no-header", false, "Omit the bits 16 directive")
	cmd.Flags().Bool("summary", false, "Print a markdown report of forms and registers")
	cmd.Flags().Bool("dump", false, "Pretty print every decoded instruction to stderr")
	cmd.Flags().String("cpuprofile", "", "Write CPU profile to file")
	cmd.Flags().String("memprofile", "", "Write memory profile to file")
}

var rootCmd = &cobra.Command{
	Use:   "sim8086 [file]",
	Short: "8086 MOV disassembler",
	Long: `sim8086 decodes the MOV instructions of a flat 8086 binary and prints them
as an assembly listing that nasm can reassemble. On a terminal the listing opens in
an interactive TUI.`,
	Example: `
# Browse a binary in the TUI
sim8086 listing_0039_more_movs

# Plain listing with offsets and encodings
sim8086 -f listing_0039_more_movs > out.asm

# JSON for regression testing
sim8086 --json listing_0039_more_movs
  `,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cpuprofile, _ := cmd.Flags().GetString("cpuprofile")
		if cpuprofile != "" {
			f, err := os.Create(cpuprofile)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %w", err)
			}
			defer f.Close()
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %w", err)
			}
			defer pprof.StopCPUProfile()
		}

		memprofile, _ := cmd.Flags().GetString("memprofile")
		if memprofile != "" {
			defer func() {
				f, err := os.Create(memprofile)
				if err != nil {
					fmt.Fprintf(os.Stderr, "could not create memory profile: %v\n", err)
					return
				}
				defer f.Close()
				if err := pprof.WriteHeapProfile(f); err != nil {
					fmt.Fprintf(os.Stderr, "could not write memory profile: %v\n", err)
				}
			}()
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log.Setup(cfg.LogLevel)
		opts, closeLogger := decodeOptions(cfg)
		defer closeLogger()

		absPath, err := pathpkg.Abs(args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve path: %w", err)
		}

		noTUI, _ := cmd.Flags().GetBool("no-tui")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		summary, _ := cmd.Flags().GetBool("summary")
		dump, _ := cmd.Flags().GetBool("dump")

		// --full implies --no-tui
		if cfg.ShowBytes {
			noTUI = true
		}

		isTerm := term.IsTerminal(os.Stdout.Fd())
		if !isTerm {
			noTUI = true
			cfg.NoColor = true
		}

		if noTUI || jsonOutput || summary || dump {
			im, err := image.Open(absPath)
			if err != nil {
				return err
			}
			slog.Debug("Loaded image", "path", absPath, "kind", im.Kind, "size", im.Size())

			out := cmd.OutOrStdout()
			switch {
			case jsonOutput:
				return writeJSON(out, im, opts...)
			case summary:
				width := 0
				if isTerm && !cfg.NoColor {
					width = terminalWidth()
				}
				return writeSummary(out, im, width, opts...)
			case dump:
				return writeDump(os.Stderr, im, isTerm && !cfg.NoColor, opts...)
			default:
				return writeListing(out, im, cfg, opts...)
			}
		}

		program := tea.NewProgram(
			NewModel(absPath, cfg, opts...),
			tea.WithAltScreen(),
			tea.WithContext(cmd.Context()),
		)

		if _, err := program.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	},
}

// loadConfig layers the config file, the environment and the flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
		switch {
		case cfg.Debug:
			cfg.LogLevel = "debug"
		case cfg.LogLevel == "debug":
			// --debug=false undoes SIM8086_DEBUG
			cfg.LogLevel = "info"
		}
	}
	if flags.Changed("full") {
		cfg.ShowBytes, _ = flags.GetBool("full")
	}
	if flags.Changed("lower") {
		cfg.Lowercase, _ = flags.GetBool("lower")
	}
	if flags.Changed("no-header") {
		noHeader, _ := flags.GetBool("no-header")
		cfg.Header = !noHeader
	}
	return cfg, cfg.Validate()
}

// decodeOptions logs every decoded instruction when the level is debug.
// Call closeFn once decoding is over.
func decodeOptions(cfg config.Config) (opts []disasm.Option, closeFn func()) {
	if cfg.LogLevel != "debug" {
		return nil, func() {}
	}
	lg := logging.NewLogger().WithLevel(cfg.LogLevel)
	return []disasm.Option{disasm.WithLogger(lg.Logger)}, func() { lg.Close() }
}

func terminalWidth() int {
	width, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

func Execute() {
	// fang renders help and errors as markdown; skip it when the output
	// is plain text.
	noTUI := false
	for _, arg := range os.Args[1:] {
		if arg == "--no-tui" || arg == "-n" || arg == "--full" || arg == "-f" || arg == "--json" || arg == "-j" {
			noTUI = true
			break
		}
	}

	if !noTUI && !term.IsTerminal(os.Stdout.Fd()) {
		noTUI = true
	}

	if noTUI {
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
		}
	} else {
		if err := fang.Execute(
			context.Background(),
			rootCmd,
			fang.WithNotifySignal(os.Interrupt),
		); err != nil {
			os.Exit(1)
		}
	}
}
