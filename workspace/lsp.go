package workspace

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf16"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/mcnpdeck/config"
	"github.com/dhamidi/mcnpdeck/deck"
	"github.com/dhamidi/mcnpdeck/source"
)

const lsName = "mcnpdeck"

var lspLog = commonlog.GetLogger("mcnpdeck.lsp")

type LSPServer struct {
	workspace *Workspace
	handler   protocol.Handler
	server    *server.Server
	version   string
}

func NewLSPServer(version string) *LSPServer {
	ls := &LSPServer{
		version: version,
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentFoldingRange:   ls.textDocumentFoldingRange,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
		TextDocumentHover:          ls.textDocumentHover,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := getRootDir()
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	cfg, err := config.Find(rootDir)
	if err != nil {
		lspLog.Warningf("config: %v; using defaults", err)
		cfg = config.Default()
	}
	ls.workspace = New(rootDir, cfg)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.workspace.ScanAll(context.Background()); err != nil {
		lspLog.Errorf("scan %s: %v", ls.workspace.RootDir(), err)
	}
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.update(ctx, params.TextDocument.URI, textChange.Text)
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		ls.update(ctx, params.TextDocument.URI, *params.Text)
		return nil
	}
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if err := ls.workspace.ScanFile(path); err != nil {
		lspLog.Warningf("rescan %s: %v", path, err)
		return nil
	}
	ls.publish(ctx, params.TextDocument.URI, ls.workspace.GetFile(path))
	return nil
}

func (ls *LSPServer) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	path, err := uriToPath(uri)
	if err != nil {
		lspLog.Warningf("bad uri %s: %v", uri, err)
		return
	}
	f := ls.workspace.UpdateFile(path, source.Normalize([]byte(text)))
	ls.publish(ctx, uri, f)
}

func (ls *LSPServer) publish(ctx *glsp.Context, uri protocol.DocumentUri, f *File) {
	if f == nil {
		return
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: toProtocolDiagnostics(f.Result.Diagnostics, contentLines(f.Content)),
	})
}

func (ls *LSPServer) textDocumentFoldingRange(ctx *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	f := ls.file(params.TextDocument.URI)
	if f == nil {
		return nil, nil
	}
	return foldingRanges(f.Result.Records), nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	f := ls.file(params.TextDocument.URI)
	if f == nil {
		return nil, nil
	}
	return documentSymbols(f.Result.Records), nil
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	r := ls.workspace.RecordAt(path, int(params.Position.Line)+1)
	if r == nil || r.Kind != deck.KindData || r.StartLine() == r.EndLine() {
		return nil, nil
	}
	rng := recordRange(r)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: fmt.Sprintf("```\n%s\n```\n%s card, lines %d-%d", r.Content, r.Block, r.StartLine(), r.EndLine()),
		},
		Range: &rng,
	}, nil
}

func (ls *LSPServer) file(uri protocol.DocumentUri) *File {
	path, err := uriToPath(uri)
	if err != nil {
		return nil
	}
	return ls.workspace.GetFile(path)
}

func toProtocolDiagnostics(diags []*deck.Diagnostic, text lineTexts) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(diags))
	src := lsName
	for _, d := range diags {
		var severity protocol.DiagnosticSeverity = protocol.DiagnosticSeverityError
		if d.Severity == deck.SeverityWarning {
			severity = protocol.DiagnosticSeverityWarning
		}
		out = append(out, protocol.Diagnostic{
			Range:    spanRange(d.Span, text),
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: d.Kind.String()},
			Source:   &src,
			Message:  d.Message,
		})
	}
	return out
}

// foldingRanges returns one range per record spanning several lines.
func foldingRanges(records []*deck.Record) []protocol.FoldingRange {
	var out []protocol.FoldingRange
	for _, r := range records {
		if r.StartLine() == r.EndLine() {
			continue
		}
		kind := string(protocol.FoldingRangeKindRegion)
		out = append(out, protocol.FoldingRange{
			StartLine: protocol.UInteger(r.StartLine() - 1),
			EndLine:   protocol.UInteger(r.EndLine() - 1),
			Kind:      &kind,
		})
	}
	return out
}

// documentSymbols lists data cards grouped under their block.
func documentSymbols(records []*deck.Record) []protocol.DocumentSymbol {
	var out []protocol.DocumentSymbol
	for _, r := range records {
		if r.Kind == deck.KindComment {
			continue
		}
		if len(out) == 0 || out[len(out)-1].Name != r.Block.String() {
			out = append(out, protocol.DocumentSymbol{
				Name:  r.Block.String(),
				Kind:  protocol.SymbolKindNamespace,
				Range: recordRange(r),
			})
		}
		group := &out[len(out)-1]
		detail := fmt.Sprintf("lines %d-%d", r.StartLine(), r.EndLine())
		group.Children = append(group.Children, protocol.DocumentSymbol{
			Name:           symbolName(r),
			Detail:         &detail,
			Kind:           protocol.SymbolKindObject,
			Range:          recordRange(r),
			SelectionRange: spanRange(r.Lines[0].Span(), recordLines(r)),
		})
		group.Range.End = recordRange(r).End
		group.SelectionRange = group.Range
	}
	return out
}

// symbolName is the first field of the card, or the whole title.
func symbolName(r *deck.Record) string {
	if r.Kind != deck.KindData {
		return r.Content
	}
	fields := strings.Fields(r.Content)
	if len(fields) == 0 {
		return r.Kind.String()
	}
	return fields[0]
}

func recordRange(r *deck.Record) protocol.Range {
	return spanRange(r.Span, recordLines(r))
}

// lineTexts returns the text of a 1-based line, or "" if unknown.
type lineTexts func(line int) string

func contentLines(content []byte) lineTexts {
	lines := strings.Split(string(content), "\n")
	return func(n int) string {
		if n < 1 || n > len(lines) {
			return ""
		}
		return lines[n-1]
	}
}

func recordLines(r *deck.Record) lineTexts {
	return func(n int) string {
		for _, l := range r.Lines {
			if l.Number == n {
				return l.Text
			}
		}
		return ""
	}
}

func spanRange(s deck.Span, text lineTexts) protocol.Range {
	return protocol.Range{
		Start: toPosition(s.Start, text),
		End:   toPosition(s.End, text),
	}
}

// toPosition converts a byte column into the UTF-16 offset LSP expects.
func toPosition(p deck.Position, text lineTexts) protocol.Position {
	return protocol.Position{
		Line:      protocol.UInteger(p.Line - 1),
		Character: protocol.UInteger(utf16Column(text(p.Line), p.Column-1)),
	}
}

// utf16Column counts the UTF-16 code units in the first n bytes of text.
// Without the text the byte count is the best guess.
func utf16Column(text string, n int) int {
	if text == "" {
		return n
	}
	if n > len(text) {
		n = len(text)
	}
	units := 0
	for _, r := range text[:n] {
		if l := utf16.RuneLen(r); l > 0 {
			units += l
		} else {
			units++
		}
	}
	return units
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}

func getRootDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}
