// postkit — batch translation reconciler for Markdown blog posts.
//
// It scans a flat posts directory, decides which target-language
// renditions are missing, invokes an external Markdown translator CLI
// for each one, and reports translated/skipped/errored counts with a
// CI-friendly exit code.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/minios-linux/postkit/config"
	"github.com/minios-linux/postkit/corpus"
	"github.com/minios-linux/postkit/i18n"
	"github.com/minios-linux/postkit/langmeta"
	"github.com/minios-linux/postkit/plan"
	"github.com/minios-linux/postkit/run"
	"github.com/minios-linux/postkit/translate"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ---------------------------------------------------------------------------
// Logging
// ---------------------------------------------------------------------------

var (
	tagInfo  = color.New(color.FgBlue).Sprint("[INFO]")
	tagOK    = color.New(color.FgGreen).Sprint("[OK]")
	tagWarn  = color.New(color.FgYellow, color.Bold).Sprint("[WARN]")
	tagError = color.New(color.FgRed).Sprint("[ERROR]")
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, tagInfo+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, tagOK+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, tagWarn+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, tagError+" "+format+"\n", args...)
}

// cliLogger adapts the log helpers to the run.Logger interface.
type cliLogger struct{}

func (cliLogger) Infof(format string, args ...any)    { logInfo(format, args...) }
func (cliLogger) Successf(format string, args ...any) { logSuccess(format, args...) }
func (cliLogger) Warnf(format string, args ...any)    { logWarning(format, args...) }
func (cliLogger) Errorf(format string, args ...any)   { logError(format, args...) }

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	flagDir    string
	flagSource string
	flagLangs  []string
)

// loadConfig builds the run configuration: defaults, environment,
// postkit.yaml from the parent of the posts directory, then
// command-line flag overrides, in that order. --dir pins the corpus
// root before the file lookup so it also selects the project file.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagDir)
	if err != nil {
		return config.Config{}, err
	}
	if flagSource != "" {
		cfg.SourceLang = flagSource
	}
	if len(flagLangs) > 0 {
		cfg.TargetLangs = flagLangs
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "postkit",
		Short: "Batch translation reconciler for Markdown blog posts",
		Long: `postkit — batch translation reconciler for Markdown blog posts.

Posts live in one flat directory and are named {base}.{lang}.md; a
combined artifact carries several languages in one file, named
{base}.{lang1 lang2}.md. postkit compares the corpus against the
configured target languages and invokes the external translator only
for renditions that are missing or empty, so re-running it converges
without redundant API calls.

Commands:
  translate   Translate whatever is missing (idempotent)
  status      Show per-post translation coverage, change nothing
  version     Show version information

Configuration comes from the environment (SOURCE_LANG, TARGET_LANGS,
POSTS_DIR, TRANSLATOR_BIN, TRANSLATOR_API_KEY, TRANSLATOR_MODEL), an
optional postkit.yaml in the parent of the posts directory, and flags
— later sources win.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagDir, "dir", "", "Posts directory (overrides POSTS_DIR)")
	root.PersistentFlags().StringVar(&flagSource, "source", "", "Source language tag (overrides SOURCE_LANG)")
	root.PersistentFlags().StringSliceVar(&flagLangs, "langs", nil, "Target languages (overrides TARGET_LANGS)")

	root.AddCommand(
		newTranslateCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("postkit version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// translate
// ---------------------------------------------------------------------------

func newTranslateCmd() *cobra.Command {
	var (
		dryRun     bool
		translator string
		model      string
	)

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate missing renditions of every post",
		Long: `Translate every missing (post, language) rendition.

A language already covered — by its own file or by membership in a
combined artifact — is skipped. Zero-byte files count as missing.
Failures are logged, counted and do not stop the run; the exit code is
non-zero only when some post ends up with errors and no translations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(dryRun, translator, model)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Plan and report without invoking the translator")
	cmd.Flags().StringVar(&translator, "translator", "", "Translator binary (overrides TRANSLATOR_BIN)")
	cmd.Flags().StringVar(&model, "model", "", "Model identifier forwarded to the translator")

	return cmd
}

func runTranslate(dryRun bool, translatorFlag, modelFlag string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if translatorFlag != "" {
		cfg.TranslatorCmd = translatorFlag
	}
	if modelFlag != "" {
		cfg.Model = modelFlag
	}

	tr := &translate.CLI{Command: cfg.TranslatorCmd, APIKey: cfg.APIKey, Model: cfg.Model}
	if !dryRun {
		if err := tr.Check(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	targets := cfg.Targets()
	logInfo("%s -> %s in %s", cfg.SourceLang, strings.Join(targets, ", "), cfg.PostsDir)

	oracle := corpus.NewOracle(cfg.PostsDir)
	runner := &run.Runner{
		Dir:     cfg.PostsDir,
		Source:  cfg.SourceLang,
		Targets: targets,
		Invoker: &translate.Invoker{Dir: cfg.PostsDir, Oracle: oracle, Translator: tr},
		Oracle:  oracle,
		Log:     cliLogger{},
		DryRun:  dryRun,
	}

	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	printSummary(report)
	return runOutcome(report, ctx.Err() != nil)
}

// runOutcome decides the final log line and process outcome for a
// finished run. Errored documents force a non-zero exit even when the
// run was interrupted: an interrupt must never mask failures already
// recorded in the counters.
func runOutcome(report *run.Report, interrupted bool) error {
	if report.Failed() {
		return errors.New(i18n.T("translation completed with errors"))
	}
	if interrupted {
		logWarning("%s", i18n.T("Interrupted; corpus left partially translated"))
		return nil
	}
	logSuccess("%s", i18n.T("Translation complete!"))
	return nil
}

// printSummary renders the final per-post and corpus-wide counters.
func printSummary(report *run.Report) {
	header := color.New(color.FgBlue).Sprint(i18n.T("Run summary"))
	fmt.Fprintf(os.Stderr, "\n%s\n", header)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

	for _, d := range report.Docs {
		fmt.Fprintf(os.Stderr, "  %-32s %s  %d/%d/%d\n",
			d.Base, statusLabel(d.Status()), d.Translated, d.Skipped, d.Errored)
	}

	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintf(os.Stderr, "  %s\n", fmt.Sprintf(
		i18n.N("%d post processed", "%d posts processed", len(report.Docs)), len(report.Docs)))
	fmt.Fprintf(os.Stderr, "  %s: %d  %s: %d  %s: %d\n",
		i18n.T("translated"), report.Translated,
		i18n.T("skipped"), report.Skipped,
		i18n.T("errored"), report.Errored)
	if report.Pending > 0 {
		fmt.Fprintf(os.Stderr, "  %s: %d\n", i18n.T("pending"), report.Pending)
	}
	fmt.Fprintln(os.Stderr)
}

// statusLabel renders a document status as a fixed-width colored tag.
func statusLabel(s run.DocStatus) string {
	switch s {
	case run.StatusSuccess:
		return color.New(color.FgGreen).Sprint("OK     ")
	case run.StatusPartialError:
		return color.New(color.FgRed).Sprint("FAILED ")
	default:
		return color.New(color.FgYellow).Sprint("SKIPPED")
	}
}

// ---------------------------------------------------------------------------
// status (read-only coverage report)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show per-post translation coverage",
		Long: `Show which target languages each post already has and which are
still missing. Does not modify any files and never invokes the
translator.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

func runStatus() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	targets := cfg.Targets()

	docs, malformed, err := corpus.Scan(cfg.PostsDir, cfg.SourceLang)
	if err != nil {
		return err
	}
	for _, name := range malformed {
		logWarning("skipping malformed filename %q", name)
	}

	fmt.Fprintf(os.Stderr, "\n%s\n", color.New(color.FgBlue).Sprint("Translation coverage"))
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintf(os.Stderr, "  Posts dir:  %s\n", cfg.PostsDir)
	fmt.Fprintf(os.Stderr, "  Source:     %s\n", langmeta.Label(cfg.SourceLang))
	fmt.Fprintf(os.Stderr, "  Targets:    %s\n\n", strings.Join(targets, ", "))

	oracle := corpus.NewOracle(cfg.PostsDir)
	missingTotal := 0
	for _, doc := range docs {
		p := plan.Build(doc, oracle, targets)
		switch p.Kind {
		case plan.NoOp:
			fmt.Fprintf(os.Stderr, "  %-32s %s\n", doc.Name.Base,
				color.New(color.FgGreen).Sprint("complete"))
		case plan.Combined:
			missingTotal++
			fmt.Fprintf(os.Stderr, "  %-32s combined [%s] %s\n", doc.Name.Base,
				strings.Join(p.Langs, " "), color.New(color.FgYellow).Sprint("missing"))
		case plan.Individual:
			missingTotal += len(p.Langs)
			fmt.Fprintf(os.Stderr, "  %-32s %s %s\n", doc.Name.Base,
				color.New(color.FgYellow).Sprint("missing:"), strings.Join(p.Langs, ", "))
		}
	}

	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	if missingTotal == 0 {
		logSuccess("All %d posts fully translated", len(docs))
	} else {
		logInfo("%d posts, %d renditions missing — run 'postkit translate'", len(docs), missingTotal)
	}
	return nil
}
