// Package main provides the door CLI: an interactive shell and a batch runner
// hosting the frontdoor command engine with the demo modules loaded.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/abiosoft/ishell/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"frontdoor/internal/config"
	"frontdoor/internal/console"
	"frontdoor/internal/demo"
	"frontdoor/internal/logger"
	"frontdoor/internal/script"
	"frontdoor/internal/shell"
	"frontdoor/internal/version"
	"frontdoor/pkg/house"
)

var (
	logLevel   string
	logFile    string
	testMode   bool
	configPath string
	envFile    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "door",
	Short: "door - interactive host for the frontdoor command engine",
	Long: `door loads command modules into a frontdoor engine and lets you run their
commands interactively or from YAML batch scripts.`,
	RunE:          runShell,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start interactive shell mode",
	RunE:  runShell,
}

var batchCmd = &cobra.Command{
	Use:   "batch <script.yaml>",
	Short: "Run a YAML script and check its expectations",
	Long: `Run every step of a YAML script as the invokers it declares and compare the
messages they receive with the expected ones. Exits non-zero when a step fails.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List the registered commands",
	RunE:  runCommands,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		info, err := version.Get()
		if err != nil {
			return err
		}
		if detailed, _ := cmd.Flags().GetBool("detailed"); detailed {
			fmt.Fprintln(cmd.OutOrStdout(), info.Detailed())
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), info.String())
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&logLevel, "log-level", "", "Set log level (debug|info|warn|error) [default: warn]")
	flags.StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr")
	flags.BoolVar(&testMode, "test-mode", false, "Run in deterministic test mode")
	flags.StringVar(&configPath, "config", "", "Configuration file [default: ./door.yaml when present]")
	flags.StringVar(&envFile, "env-file", ".env", "Environment file loaded before configuration")

	for _, name := range []string{"log-level", "log-file", "test-mode", "config"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", name, err)
			os.Exit(1)
		}
	}

	versionCmd.Flags().Bool("detailed", false, "Show build details")

	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(commandsCmd)
	rootCmd.AddCommand(versionCmd)

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env is optional; a missing default file is not an error
	if err := godotenv.Load(envFile); err != nil && !(errors.Is(err, fs.ErrNotExist) && envFile == ".env") {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", envFile, err)
		os.Exit(1)
	}

	if err := logger.Configure(viper.GetString("log-level"), viper.GetString("log-file"), viper.GetBool("test-mode")); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}
}

// newHouse builds the engine described by the configuration.
func newHouse() (*house.House, error) {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return nil, err
	}

	h := house.New(house.WithSettings(cfg.Settings()))
	if err := demo.RegisterInterpreters(h.Interpreters()); err != nil {
		return nil, err
	}

	descriptors, err := demo.Lookup(cfg.Modules)
	if err != nil {
		return nil, err
	}
	for _, d := range descriptors {
		if _, err := h.Load(d); err != nil {
			return nil, err
		}
	}
	logger.Info("Engine ready", "modules", h.Modules())
	return h, nil
}

func runShell(_ *cobra.Command, _ []string) error {
	logger.Info("Starting door", "version", version.Version)

	h, err := newHouse()
	if err != nil {
		return err
	}

	name := os.Getenv("USER")
	if name == "" {
		name = "operator"
	}
	user := console.NewUser(name, os.Stdout, console.Wildcard)
	session := shell.NewSession(h, user, console.NewRoom("terminal"))

	sh := ishell.New()
	sh.SetPrompt("door> ")
	if err := session.Attach(sh); err != nil {
		return err
	}

	sh.Println(version.Formatted())
	sh.Println("Type 'help' for commands or 'exit' to quit.")
	sh.Run()
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	scriptPath := args[0]
	logger.Info("Starting batch mode", "version", version.Version, "script", scriptPath)

	if ext := filepath.Ext(scriptPath); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("script file must have .yaml or .yml extension, got: %s", ext)
	}

	s, err := script.Load(scriptPath)
	if err != nil {
		return err
	}
	h, err := newHouse()
	if err != nil {
		return err
	}

	report, err := script.NewRunner(h).Run(s)
	if err != nil {
		return err
	}
	script.WriteReport(cmd.OutOrStdout(), report)
	if !report.Passed() {
		return fmt.Errorf("%d of %d steps failed", len(report.Failed()), len(report.Results))
	}
	return nil
}

func runCommands(cmd *cobra.Command, _ []string) error {
	h, err := newHouse()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, c := range h.Registry().Commands() {
		usage := c.Usage()
		if b, ok := c.(*house.BranchingCommand); ok {
			usage = []string{"<" + strings.Join(b.Branches(), "|") + ">"}
		}
		fmt.Fprintf(out, "%-10s %-14s %s %v\n", c.Name(), c.OwningModule(), c.Metadata().Permission, usage)
	}
	return nil
}
