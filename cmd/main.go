package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	seelog "github.com/cihub/seelog"

	"github.com/nrframe/texcore/pkg/commands"
	"github.com/nrframe/texcore/pkg/config"
	"github.com/nrframe/texcore/pkg/document"
	"github.com/nrframe/texcore/pkg/session"
	"github.com/nrframe/texcore/pkg/shell"
)

// main runs a line-oriented demo harness: it opens a buffer (a given file,
// or an empty scratch buffer) and reads `:`-commands from stdin, executing
// each one and printing the buffer's text whenever a blank line is entered.
// It exists to exercise pkg/commands
// end to end, not as a terminal UI.
func main() {
	configPath := flag.String("config", "", "path to config.toml (optional)")
	languagesPath := flag.String("languages", "", "path to languages.toml (optional)")
	flag.Parse()

	store := config.New()
	if *configPath != "" {
		if err := store.LoadEditorConfig(*configPath); err != nil {
			log.Fatalf("loading config: %v", err)
		}
	}
	if *languagesPath != "" {
		if err := store.LoadLanguagesConfig(*languagesPath); err != nil {
			log.Fatalf("loading languages: %v", err)
		}
	}

	text := ""
	language := "text"
	if path := flag.Arg(0); path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("reading %s: %v", path, err)
		}
		text = string(content)
	}

	doc := document.New(store, 1, language, text)
	mgr := session.NewManager()
	view := mgr.OpenView(doc)

	registry := commands.NewRegistry()
	ctx := &commands.ExecContext{
		View:    view,
		Manager: mgr,
		Store:   store,
		Shell:   shell.New([]string{"sh", "-c"}),
	}

	fmt.Println("texcore demo shell - enter :commands, blank line to print the buffer, Ctrl-D to quit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			fmt.Print(ctx.View.Document().Text().String())
			continue
		}
		line = strings.TrimPrefix(line, ":")
		if err := registry.Execute(ctx, line, ctx.Expand); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}

	seelog.Flush()
}
