package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dhamidi/mcnpdeck/config"
	"github.com/dhamidi/mcnpdeck/deck"
	"github.com/dhamidi/mcnpdeck/source"
	"github.com/dhamidi/mcnpdeck/workspace"
)

// deckFlags override the config file for a single run.
type deckFlags struct {
	version        string
	frontMatter    bool
	replaceInvalid bool
	encoding       string
}

func (f *deckFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.version, "mcnp-version", "", "apply the line length limit of this MCNP version (e.g. 6.2)")
	fs.BoolVar(&f.frontMatter, "front-matter", false, "read the MESSAGE block and title line")
	fs.BoolVar(&f.replaceInvalid, "replace-invalid", false, "keep lines with invalid UTF-8")
	fs.StringVar(&f.encoding, "encoding", "", "input encoding (utf-8, latin1, utf-16)")
}

// loadConfig finds the config for dir, or reads --config, and applies
// the flags the user set explicitly.
func (f *deckFlags) loadConfig(cmd *cobra.Command, dir string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.Find(dir)
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("mcnp-version") {
		cfg.Version = f.version
	}
	if flags.Changed("front-matter") {
		cfg.FrontMatter = f.frontMatter
	}
	if flags.Changed("replace-invalid") {
		cfg.ReplaceInvalid = f.replaceInvalid
	}
	if flags.Changed("encoding") {
		cfg.Encoding = f.encoding
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// readDeck reads a single deck and returns it with its reader options.
func (f *deckFlags) readDeck(cmd *cobra.Command, path string) ([]byte, []deck.Option, error) {
	cfg, err := f.loadConfig(cmd, filepath.Dir(path))
	if err != nil {
		return nil, nil, err
	}
	content, err := source.ReadFile(path, cfg.SourceEncoding())
	if err != nil {
		return nil, nil, err
	}
	return content, cfg.Options(path), nil
}

// loadDeck parses the deck at path and resolves its READ cards.
func (f *deckFlags) loadDeck(cmd *cobra.Command, path string) (*workspace.File, error) {
	dir := filepath.Dir(path)
	cfg, err := f.loadConfig(cmd, dir)
	if err != nil {
		return nil, err
	}
	ws := workspace.New(dir, cfg)
	if err := ws.ScanFile(path); err != nil {
		return nil, err
	}
	return ws.GetFile(path), nil
}

func printDiagnostics(diags []*deck.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.Error())
	}
}
