package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into paths, policy, behavior, display, and utility.
// Negated flags (e.g. --no-color) are applied after Parse so Config defaults hold unless set.

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// ParseFlags parses args (without the program name) into cfg. On --help or
// --version it prints and exits. On error it returns non-nil (e.g. unknown
// flag, stray positional args).
func ParseFlags(cfg *Config, args []string, version string) error {
	fs := flag.NewFlagSet("groomer", flag.ContinueOnError)
	fs.Usage = func() { printUsage(version) }

	var negated negatedFlags

	definePathFlags(fs, cfg)
	definePolicyFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, &negated)

	if err := fs.Parse(args); err != nil {
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		printUsage(version)
		os.Exit(0)
	}
	if negated.showVersion {
		fmt.Fprintln(os.Stdout, "groomer v"+version)
		os.Exit(0)
	}

	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %s (use --source and --destination)", strings.Join(fs.Args(), " "))
	}
	cfg.SourceDir = NormalizeDirArg(cfg.SourceDir)
	cfg.DestDir = NormalizeDirArg(cfg.DestDir)
	return nil
}

// negatedFlags holds boolean flags that are applied after Parse.
// These either override a default (noColor -> ColorNever) or trigger exit (showHelp, showVersion).
type negatedFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// definePathFlags registers -s/--source and -d/--destination.
func definePathFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.SourceDir, "source", "", "Source directory (untrusted)")
	fs.StringVar(&cfg.SourceDir, "s", "", "Same as --source")
	fs.StringVar(&cfg.DestDir, "destination", "", "Destination directory (clean)")
	fs.StringVar(&cfg.DestDir, "d", "", "Same as --destination")
}

// definePolicyFlags registers -p/--policy and --resources.
func definePolicyFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.PolicyFile, "policy", "", "YAML policy file (default: built-in rules)")
	fs.StringVar(&cfg.PolicyFile, "p", "", "Same as --policy")
	fs.StringVar(&cfg.ResourcesDir, "resources", "", "Resource directory for the mimetype backend")
}

// defineBehaviorFlags registers --debug and -j/--workers.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config) {
	fs.BoolVar(&cfg.Debug, "debug", false, "Keep debug stdout/stderr logs under <destination>/logs")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Files processed in parallel")
	fs.IntVar(&cfg.Workers, "j", cfg.Workers, "Same as --workers")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", "", "Append operator logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, n *negatedFlags) {
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies negated and override flag values into cfg.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(version string) {
	const col1 = 28 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "Groomer v" + version + " - copy an untrusted tree to a clean one, marking what is unsafe"},
		{"", ""},
		{"  groomer [OPTIONS] --source <dir> --destination <dir>", ""},
		{"", ""},
		{"Paths", ""},
		{"  -s, --source <dir>", "Untrusted source directory"},
		{"  -d, --destination <dir>", "Clean destination directory"},
		{"", ""},
		{"Policy", ""},
		{"  -p, --policy <file>", "YAML rules (default: built-in)"},
		{"  --resources <dir>", "Resource directory for the mimetype backend"},
		{"", ""},
		{"Behavior", ""},
		{"  -j, --workers <n>", "Files processed in parallel (default: 1)"},
		{"  --debug", "Keep debug_stdout.log / debug_stderr.log"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append operator logs to file"},
		{"  -c, --check", "Diagnostics (paths, policy, mimetype detection)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}
