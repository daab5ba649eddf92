package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"findopen/internal/config"
	"findopen/internal/logger"
	"findopen/internal/messages"
	"findopen/internal/opener"
	"findopen/internal/picker"
	"findopen/internal/search"
	"findopen/internal/selector"
)

// Version is injected at build time via -ldflags
var Version = "dev"

var (
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true)
)

// newOpener is replaced in tests so no external program is started.
var newOpener = func(opts opener.Options) selector.Opener {
	return opener.New(opts)
}

// runPicker is replaced in tests so no full-screen program is started.
var runPicker = picker.Run

var (
	// errShown means the user already saw a message for this failure.
	errShown = errors.New("already reported")
	// errInterrupted is returned after SIGINT cancelled the command context.
	errInterrupted = fmt.Errorf("%w: interrupted", errShown)
)

const exitInterrupted = 130

type cliFlags struct {
	tui        bool
	lang       string
	configPath string
	logFile    string
	verbose    bool
}

func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var flags cliFlags

	cmd := &cobra.Command{
		Use:   "findopen <searchFolderPath> <searchText>",
		Short: "Find a file by name and open it",
		Long: `findopen walks searchFolderPath recursively and collects every file whose
name contains searchText (literal, case-sensitive). A single match is opened
right away; with several matches you pick one by number.

Use -- before the arguments when searchText starts with a dash:

    findopen -- ./notes -old

.png files open in the default image viewer and .json files in a text editor.`,
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args, flags, stdin, stdout, stderr)
		},
	}

	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.BoolVar(&flags.tui, "tui", false, "pick from several matches in a full-screen list")
	f.StringVar(&flags.lang, "lang", "", "message language (ja or en)")
	f.StringVar(&flags.configPath, "config", "", "config file (default <user config dir>/findopen/config.toml)")
	f.StringVar(&flags.logFile, "log-file", "", "write diagnostics to a rotating log file")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "write diagnostics to stderr")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string, flags cliFlags, stdin io.Reader, stdout, stderr io.Writer) error {
	// A broken config file must not hide the usage messages below.
	cfg, cfgErr := config.Load(flags.configPath, os.Getenv)
	if cfgErr != nil {
		cfg = config.Default()
	}

	lang := messages.FromLocale(os.Getenv)
	if cfg.Language != "" {
		lang = messages.Normalize(cfg.Language)
	}
	if flags.lang != "" {
		lang = messages.Normalize(flags.lang)
	}
	msgs := messages.New(lang)

	fail := func(key messages.Key, args ...any) error {
		fmt.Fprintln(stdout, errorStyle.Render(msgs.Get(key, args...)))
		return errShown
	}

	switch {
	case len(args) < 1 || args[0] == "":
		return fail(messages.MissingFolder)
	case len(args) < 2 || args[1] == "":
		return fail(messages.MissingText)
	case len(args) > 2:
		return fail(messages.TooManyArgs, cmd.Name())
	}

	if cfgErr != nil {
		return fmt.Errorf("load config: %w", cfgErr)
	}

	logFile := cfg.LogFile
	if flags.logFile != "" {
		logFile = flags.logFile
	}
	closer, err := logger.Setup(logger.Options{Verbose: flags.verbose, File: logFile, Stderr: stderr})
	if err != nil {
		return err
	}
	defer closer.Close()

	log := logger.Named("cli")
	if cfg.Source != "" {
		log.WithField("path", cfg.Source).Debug("config loaded")
	}

	ctx := cmd.Context()
	interrupted := func() error {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, errorStyle.Render(msgs.Get(messages.Interrupted)))
		return errInterrupted
	}

	root, err := search.Resolve(args[0])
	if err != nil {
		return fail(messages.MissingFolder)
	}
	text := args[1]

	fmt.Fprintln(stdout, statusStyle.Render(msgs.Get(messages.Searching)))

	results, err := search.Search(ctx, root, text)
	switch {
	case ctx.Err() != nil:
		return interrupted()
	case errors.Is(err, search.ErrNotExist):
		return fail(messages.NotExist, root)
	case errors.Is(err, search.ErrNotDirectory):
		return fail(messages.NotDirectory, root)
	case err != nil:
		return fail(messages.WalkFailed, err)
	}

	tui := cfg.TUI
	if cmd.Flags().Changed("tui") {
		tui = flags.tui
	}

	opts := selector.Options{
		In:  stdin,
		Out: stdout,
		Opener: newOpener(opener.Options{
			ImageOpener: cfg.ImageOpener,
			TextEditor:  cfg.TextEditor,
		}),
		Messages: msgs,
	}
	if tui {
		opts.Picker = func(ctx context.Context, title string, matches search.MatchSet) (int, bool, error) {
			return runPicker(ctx, title, matches, stdin, stdout)
		}
	}

	if err := selector.New(opts).Run(ctx, results); err != nil {
		log.WithError(err).Debug("selection finished without opening a file")
		if ctx.Err() != nil {
			return interrupted()
		}
		if selector.Reported(err) {
			return errShown
		}
		return err
	}
	return nil
}

// run executes the command line and returns the process exit status.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCommand(stdin, stdout, stderr)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, errInterrupted) {
			return exitInterrupted
		}
		if !errors.Is(err, errShown) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// execute runs the command line with SIGINT cancelling the command context.
func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return run(ctx, args, stdin, stdout, stderr)
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
