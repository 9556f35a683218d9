// Package lsp publishes the problems found by the compiler to editors over
// the Language Server Protocol.
package lsp

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/jfront/compiler"
	"github.com/dhamidi/jfront/java/lookup"
	"github.com/dhamidi/jfront/java/problem"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "jfront"

var log = commonlog.GetLogger("jfront.lsp")

type Server struct {
	handler   protocol.Handler
	server    *server.Server
	version   string
	classpath lookup.NameEnvironment
	opts      []compiler.Option

	mu        sync.Mutex
	workspace *Workspace
	batch     *compiler.Batch
	watcher   *FileWatcher
	notify    glsp.NotifyFunc
	// published remembers the files that have diagnostics, so they can
	// be cleared once their problems are gone.
	published map[string]bool
}

// NewServer creates a server. classpath answers library types and may be
// nil; opts configure the compiler used for checking.
func NewServer(version string, classpath lookup.NameEnvironment, opts ...compiler.Option) *Server {
	ls := &Server{
		version:   version,
		classpath: classpath,
		opts:      opts,
		published: make(map[string]bool),
	}
	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentDidSave:   ls.textDocumentDidSave,
	}
	ls.server = server.NewServer(&ls.handler, lsName, false)
	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}
	log.Infof("workspace root %s", rootDir)

	ls.mu.Lock()
	ls.workspace = NewWorkspace(rootDir, ls.classpath, ls.opts...)
	ls.notify = ctx.Notify
	ls.mu.Unlock()

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

// initialized loads the workspace and checks all of it in the background.
func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ws := ls.workspace
	if err := ws.ScanAll(); err != nil {
		log.Warningf("scan workspace: %s", err)
	}
	ls.mu.Lock()
	ls.notify = ctx.Notify
	ls.batch = compiler.NewBatch(ws.Compiler(), compiler.OnDone(ls.jobDone))
	ls.watcher = NewFileWatcher(ws, ls.filesChanged)
	ls.mu.Unlock()

	ls.watcher.Start()
	ls.batch.Submit(compiler.Request{Units: ws.Units()})
	return nil
}

func (ls *Server) jobDone(job *compiler.Job) {
	log.Infof("workspace check %s: %d units, %d errors", job.Status, job.Summary.Units, job.Summary.Errors)
	for _, r := range job.Results {
		if r.Outcome == problem.Cancelled {
			continue
		}
		ls.publish(r.File, r.Problems)
	}
}

func (ls *Server) filesChanged(changed, removed []string) {
	for _, path := range removed {
		ls.publish(path, nil)
	}
	if len(changed) > 0 {
		ls.check(changed...)
	}
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	ls.mu.Lock()
	watcher, batch := ls.watcher, ls.batch
	ls.watcher, ls.batch = nil, nil
	ls.mu.Unlock()
	if watcher != nil {
		watcher.Stop()
	}
	// Close waits for the running job, whose results are still published.
	if batch != nil {
		batch.Close()
	}
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.workspace.UpdateFile(path, []byte(params.TextDocument.Text))
	ls.check(path)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.workspace.UpdateFile(path, []byte(whole.Text))
			ls.check(path)
		}
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.workspace.UpdateFile(path, []byte(*params.Text))
	} else if err := ls.workspace.ScanFile(path); err != nil {
		log.Warningf("read %s: %s", path, err)
		return nil
	}
	ls.check(path)
	return nil
}

func (ls *Server) check(paths ...string) {
	for path, problems := range ls.workspace.Check(context.Background(), paths...) {
		ls.publish(path, problems)
	}
}

// publish sends the diagnostics of one file. A file without problems is
// only sent when it had diagnostics before.
func (ls *Server) publish(path string, problems []problem.Problem) {
	ls.mu.Lock()
	notify := ls.notify
	had := ls.published[path]
	ls.published[path] = len(problems) > 0
	ls.mu.Unlock()
	if notify == nil || (!had && len(problems) == 0) {
		return
	}
	var content []byte
	if f := ls.workspace.GetFile(path); f != nil {
		content = f.Content
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         pathToURI(path),
		Diagnostics: Diagnostics(content, problems),
	})
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

func pathToURI(path string) protocol.DocumentUri {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
