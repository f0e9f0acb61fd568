package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kmacinski/tinydiff/internal/app"
	"github.com/kmacinski/tinydiff/internal/config"
	"github.com/kmacinski/tinydiff/internal/git"
	"github.com/kmacinski/tinydiff/internal/logging"
)

var (
	version = "dev"
)

func main() {
	// Parse flags
	var (
		showVersion bool
		showHelp    bool
		configPath  string
		backend     string
		patchFile   string
		logLevel    string
		gitBin      string
	)

	flag.BoolVar(&showVersion, "v", false, "Show version")
	flag.BoolVar(&showVersion, "version", false, "Show version")
	flag.BoolVar(&showHelp, "h", false, "Show help")
	flag.BoolVar(&showHelp, "help", false, "Show help")
	flag.StringVar(&configPath, "config", config.DefaultPath(), "Config file")
	flag.StringVar(&backend, "backend", "", "Git backend: exec, gogit")
	flag.StringVar(&patchFile, "patch", "", "Browse a patch file instead of a repository")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.StringVar(&gitBin, "git", "", "git executable for the exec backend")
	flag.Parse()

	if showVersion {
		fmt.Printf("tinydiff %s\n", version)
		os.Exit(0)
	}

	if showHelp {
		printHelp()
		os.Exit(0)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if backend != "" {
		cfg.Backend = backend
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if gitBin != "" {
		cfg.GitBin = gitBin
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logPath := cfg.LogFile
	if logPath == "" {
		logPath = logging.DefaultPath()
	}
	log, closer, err := logging.OpenFile(logPath, logging.ParseLevel(cfg.LogLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	// Create git client
	gitClient, err := newClient(cfg, patchFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) == 0 {
		args = []string{"."}
	}
	repos := resolveRepos(gitClient, args)
	log.Info("starting", "version", version, "backend", cfg.Backend, "repos", repos)

	// Create and run app
	application := app.New(cfg, gitClient, repos, app.WithLogger(log))

	p := tea.NewProgram(
		application,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	application.SetProgram(p)

	_, err = p.Run()
	application.Cleanup()
	if err != nil {
		log.Error("program failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(cfg config.Config, patchFile string) (git.Client, error) {
	switch patchFile {
	case "":
	case "-":
		return git.NewPatchClientFromReader("stdin", os.Stdin)
	default:
		return git.NewPatchClient(patchFile)
	}
	if strings.EqualFold(cfg.Backend, config.BackendGoGit) {
		return git.NewGoGitClient(), nil
	}
	return git.NewExecClient(cfg.GitBin), nil
}

// resolveRepos turns the path arguments into working copy roots. Paths that
// are not inside a repository are kept so they can be reported.
func resolveRepos(client git.Client, paths []string) []string {
	seen := make(map[string]bool)
	var repos []string
	for _, path := range paths {
		root, err := filepath.Abs(path)
		if err != nil {
			root = path
		}
		if r, ok := client.(git.Rooter); ok {
			if top, err := r.Root(context.Background(), root); err == nil {
				root = top
			}
		}
		if seen[root] {
			continue
		}
		seen[root] = true
		repos = append(repos, root)
	}
	return repos
}

func printHelp() {
	fmt.Println(`tinydiff - terminal diff viewer

Browse the changed files of one or more git working copies and their
history, one diff at a time.

Usage:
  tinydiff [flags] [path...]

Arguments:
  path              Repository directories (default: current dir)

Flags:
  --backend         Git backend: exec, gogit (default: exec)
  --patch           Browse a patch file instead of a repository ("-" for stdin)
  --config          Config file (default: $XDG_CONFIG_HOME/tinydiff/config.yaml)
  --log-level       Log level: debug, info, warn, error
  --git             git executable for the exec backend
  -h, --help        Show help
  -v, --version     Show version

Keybindings:
  j/k               Navigate up/down
  J/K               Navigate faster
  h/l               Switch window
  Tab               Cycle windows
  Ctrl+d/u          Scroll half page
  g/G               Go to top/bottom
  c                 Back to the working copy
  s                 Toggle split diff
  y                 Copy file path
  o                 Open in $EDITOR
  r                 Refresh
  ?                 Toggle help
  q                 Quit`)
}
