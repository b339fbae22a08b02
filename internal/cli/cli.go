package cli

import (
	"errors"
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
	"github.com/pkg/browser"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	History   *HistoryCommand
	Bookmarks *BookmarksCommand
	Profiles  *ProfilesCommand
	Clean     *CleanCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string, e *env) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.HelpFlag|goflags.PassDoubleDash)
	parser.Name = "foxmark"
	parser.LongDescription = "Extract Firefox history and bookmarks into a filterable HTML report."

	cmds := &commands{
		History:   &HistoryCommand{globals: &globals, version: version, env: e},
		Bookmarks: &BookmarksCommand{globals: &globals, version: version, env: e},
		Profiles:  &ProfilesCommand{globals: &globals, version: version, env: e},
		Clean:     &CleanCommand{globals: &globals, version: version, env: e},
	}

	parser.AddCommand("history", "Render browsing history", "Render browsing history from every profile into an HTML report. Extra arguments are used as the query.", cmds.History)
	parser.AddCommand("bookmarks", "Render bookmarks", "Render bookmarks from every profile into an HTML report. Extra arguments are used as the query.", cmds.Bookmarks)
	parser.AddCommand("profiles", "List profile databases", "List the Firefox profile databases foxmark would read.", cmds.Profiles)
	parser.AddCommand("clean", "Remove leftover files", "Remove database snapshots left behind by interrupted runs. Do not run while a report is being written.", cmds.Clean)

	return parser, &globals, cmds
}

func defaultEnv() *env {
	return &env{stdin: os.Stdin, stderr: os.Stderr, viewer: browser.OpenFile}
}

// Run is the main entry point for the foxmark CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	return run(version, args, defaultEnv())
}

func run(version string, args []string, e *env) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("foxmark %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version, e)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		var flagsErr *goflags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == goflags.ErrHelp {
			fmt.Println(flagsErr.Message)
			return nil
		}
		return err
	}

	return nil
}
