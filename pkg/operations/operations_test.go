package operations

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/morezero/siyuan-bridge/pkg/dispatcher"
	"github.com/morezero/siyuan-bridge/pkg/events"
	"github.com/morezero/siyuan-bridge/pkg/introspect"
	"github.com/morezero/siyuan-bridge/pkg/registry"
	"github.com/morezero/siyuan-bridge/pkg/siyuan"
)

type kernelCall struct {
	path   string
	body   []byte
	fields map[string][]string
	files  map[string][]uploaded
}

type uploaded struct {
	name    string
	content string
}

func (c kernelCall) field(name string) string {
	if v := c.fields[name]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// kernel is a fake SiYuan kernel. Responses are keyed by path; unknown paths
// answer {"code":0,"data":null}.
type kernel struct {
	mu        sync.Mutex
	calls     []kernelCall
	responses map[string]func(w http.ResponseWriter, r *http.Request)
}

func (k *kernel) last(t *testing.T) kernelCall {
	t.Helper()
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(k.calls) == 0 {
		t.Fatal("operations:operations_test - kernel received no request")
	}
	return k.calls[len(k.calls)-1]
}

func setup(t *testing.T) (*dispatcher.Dispatcher, *registry.Registry, *kernel) {
	t.Helper()
	k := &kernel{responses: map[string]func(http.ResponseWriter, *http.Request){}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := kernelCall{path: r.URL.Path}
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("operations:operations_test - bad multipart body: %v", err)
			} else {
				call.fields = r.MultipartForm.Value
				call.files = map[string][]uploaded{}
				for field, headers := range r.MultipartForm.File {
					for _, h := range headers {
						f, _ := h.Open()
						content, _ := io.ReadAll(f)
						f.Close()
						call.files[field] = append(call.files[field], uploaded{name: h.Filename, content: string(content)})
					}
				}
			}
		} else {
			call.body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(call.body))
		}
		k.mu.Lock()
		k.calls = append(k.calls, call)
		respond := k.responses[r.URL.Path]
		k.mu.Unlock()
		if respond != nil {
			respond(w, r)
			return
		}
		io.WriteString(w, `{"code":0,"msg":"","data":null}`)
	}))
	t.Cleanup(srv.Close)

	c, err := siyuan.NewClient(siyuan.NewClientParams{BaseURL: srv.URL, Token: "t"})
	if err != nil {
		t.Fatalf("operations:operations_test - NewClient: %v", err)
	}
	reg := registry.NewRegistry(registry.NewRegistryParams{})
	if err := Register(reg, c); err != nil {
		t.Fatalf("operations:operations_test - Register: %v", err)
	}
	return dispatcher.NewDispatcher(dispatcher.NewDispatcherParams{Registry: reg}), reg, k
}

func keys(defs []registry.Definition) []string {
	out := make([]string, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Key().String())
	}
	sort.Strings(out)
	return out
}

func TestRegister_Catalog(t *testing.T) {
	_, reg, _ := setup(t)

	wantCommands := []string{
		"assets.upload",
		"attributes.setBlockAttrs",
		"blocks.append", "blocks.delete", "blocks.fold", "blocks.insert", "blocks.move",
		"blocks.prepend", "blocks.transferRef", "blocks.unfold", "blocks.update",
		"bookmarks.add", "bookmarks.remove", "bookmarks.rename",
		"conversion.pandoc",
		"documents.createDocWithMd", "documents.move", "documents.moveById", "documents.remove",
		"documents.removeById", "documents.rename", "documents.renameById",
		"file.putFile", "file.removeFile",
		"network.forwardProxy", "network.proxy",
		"notebook.close", "notebook.create", "notebook.open", "notebook.remove", "notebook.rename", "notebook.setConf",
		"notification.pushErrMsg", "notification.pushMsg",
		"sql.flushTransaction",
		"sync.perform",
		"templates.render",
	}
	wantQueries := []string{
		"attributes.getBlockAttrs",
		"blocks.getChildren", "blocks.getKramdown",
		"bookmarks.getBookmarks",
		"documents.getHPathById", "documents.getHPathByPath", "documents.getIdsByHPath", "documents.getPathById",
		"export.exportMdContent",
		"file.getFile", "file.readDir",
		"meta.listTools", "meta.man",
		"notebook.getConf", "notebook.list",
		"search.fullTextSearch",
		"sql.query",
		"sync.getState", "sync.listDevices",
		"system.bootProgress", "system.currentTime", "system.version",
		"templates.renderSprig",
	}

	if got := keys(reg.AllCommands()); strings.Join(got, ",") != strings.Join(wantCommands, ",") {
		t.Errorf("operations:operations_test - commands\n got %v\nwant %v", got, wantCommands)
	}
	if got := keys(reg.AllQueries()); strings.Join(got, ",") != strings.Join(wantQueries, ",") {
		t.Errorf("operations:operations_test - queries\n got %v\nwant %v", got, wantQueries)
	}

	for _, def := range append(reg.AllCommands(), reg.AllQueries()...) {
		if def.Documentation == nil {
			t.Errorf("operations:operations_test - %s has no documentation", def.Key())
			continue
		}
		if def.Namespace != "meta" && !strings.HasPrefix(def.Documentation.APILink, APIDocBase) {
			t.Errorf("operations:operations_test - %s apiLink = %q", def.Key(), def.Documentation.APILink)
		}
	}
}

func TestRegister_EveryPageRenders(t *testing.T) {
	_, reg, _ := setup(t)
	r := introspect.NewRenderer(reg)

	for _, def := range append(reg.AllCommands(), reg.AllQueries()...) {
		page, err := r.Render(def.Key().String())
		if err != nil {
			t.Errorf("operations:operations_test - render %s: %v", def.Key(), err)
			continue
		}
		if !strings.HasPrefix(page, "# "+def.Key().String()+"\n") || !strings.Contains(page, "## Parameters\n") {
			t.Errorf("operations:operations_test - unexpected page for %s:\n%s", def.Key(), page)
		}
	}
}

func TestForward_CommandBodyAndData(t *testing.T) {
	d, _, k := setup(t)
	k.responses["/api/block/deleteBlock"] = func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"code":0,"msg":"","data":[{"doOperations":[{"action":"delete","id":"b1"}],"undoOperations":null}]}`)
	}

	env := d.ExecuteCommand(context.Background(), "blocks.delete", map[string]interface{}{"id": "b1", "extra": 1})
	if !env.Success {
		t.Fatalf("operations:operations_test - expected success, got %+v", env)
	}
	call := k.last(t)
	if call.path != "/api/block/deleteBlock" || string(call.body) != `{"id":"b1"}` {
		t.Errorf("operations:operations_test - kernel got %s %s", call.path, call.body)
	}
	ops, ok := env.Data.([]interface{})
	if !ok || len(ops) != 1 {
		t.Errorf("operations:operations_test - data = %#v", env.Data)
	}
}

func TestForward_KernelErrorBecomesHandlerError(t *testing.T) {
	d, _, k := setup(t)
	k.responses["/api/notebook/openNotebook"] = func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"code":-1,"msg":"notebook not found","data":null}`)
	}

	env := d.ExecuteCommand(context.Background(), "notebook.open", map[string]interface{}{"notebook": "n1"})
	if env.Success || env.Code != dispatcher.CodeHandlerError || !strings.Contains(env.Error, "notebook not found") {
		t.Errorf("operations:operations_test - envelope = %+v", env)
	}
}

func TestValidation_DataTypeEnum(t *testing.T) {
	d, _, k := setup(t)

	env := d.ExecuteCommand(context.Background(), "blocks.append", map[string]interface{}{
		"dataType": "html", "data": "x", "parentID": "p",
	})
	if env.Success || env.Code != dispatcher.CodeInvalidArgument {
		t.Fatalf("operations:operations_test - expected INVALID_ARGUMENT, got %+v", env)
	}
	if len(env.Issues) != 1 || env.Issues[0].Path != "dataType" {
		t.Errorf("operations:operations_test - issues = %+v", env.Issues)
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(k.calls) != 0 {
		t.Error("operations:operations_test - invalid params must not reach the kernel")
	}
}

func TestDefaults_AreForwarded(t *testing.T) {
	d, _, k := setup(t)

	env := d.ExecuteQuery(context.Background(), "search.fullTextSearch", map[string]interface{}{"query": "siyuan"})
	if !env.Success {
		t.Fatalf("operations:operations_test - %+v", env)
	}
	var body map[string]interface{}
	json.Unmarshal(k.last(t).body, &body)
	if body["page"] != float64(1) || body["limit"] != float64(32) || body["method"] != float64(0) {
		t.Errorf("operations:operations_test - body = %v", body)
	}
}

func TestAssetsUpload(t *testing.T) {
	d, _, k := setup(t)
	k.responses["/api/asset/upload"] = func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"code":0,"msg":"","data":{"errFiles":[],"succMap":{"a.txt":"assets/a.txt"}}}`)
	}

	env := d.ExecuteCommand(context.Background(), "assets.upload", map[string]interface{}{
		"files": []interface{}{map[string]interface{}{"name": "a.txt", "content": "aGVsbG8="}},
	})
	if !env.Success {
		t.Fatalf("operations:operations_test - %+v", env)
	}
	call := k.last(t)
	if call.field("assetsDirPath") != defaultAssetsDir {
		t.Errorf("operations:operations_test - assetsDirPath = %q", call.field("assetsDirPath"))
	}
	files := call.files["file[]"]
	if len(files) != 1 || files[0] != (uploaded{name: "a.txt", content: "hello"}) {
		t.Errorf("operations:operations_test - files = %+v", files)
	}

	env = d.ExecuteCommand(context.Background(), "assets.upload", map[string]interface{}{
		"files": []interface{}{map[string]interface{}{"name": "a.txt", "content": "%%%"}},
	})
	if env.Success || env.Code != dispatcher.CodeHandlerError || !strings.Contains(env.Error, "files.0.content") {
		t.Errorf("operations:operations_test - bad base64 envelope = %+v", env)
	}
}

func TestPutFile(t *testing.T) {
	d, _, k := setup(t)

	env := d.ExecuteCommand(context.Background(), "file.putFile", map[string]interface{}{
		"path": "/data/notes/hello.txt", "file": "hi", "modTime": 1700000000,
	})
	if !env.Success {
		t.Fatalf("operations:operations_test - %+v", env)
	}
	call := k.last(t)
	if call.field("path") != "/data/notes/hello.txt" || call.field("isDir") != "false" || call.field("modTime") != "1700000000" {
		t.Errorf("operations:operations_test - fields = %v", call.fields)
	}
	files := call.files["file"]
	if len(files) != 1 || files[0] != (uploaded{name: "hello.txt", content: "hi"}) {
		t.Errorf("operations:operations_test - files = %+v", files)
	}

	env = d.ExecuteCommand(context.Background(), "file.putFile", map[string]interface{}{"path": "/data/dir", "isDir": true})
	if !env.Success {
		t.Fatalf("operations:operations_test - directory: %+v", env)
	}
	if call := k.last(t); len(call.files) != 0 || call.field("isDir") != "true" {
		t.Errorf("operations:operations_test - directory request carried a file or wrong isDir")
	}

	env = d.ExecuteCommand(context.Background(), "file.putFile", map[string]interface{}{"path": "/data/x"})
	if env.Success || !strings.Contains(env.Error, "file is required") {
		t.Errorf("operations:operations_test - missing file envelope = %+v", env)
	}
}

func TestGetFile(t *testing.T) {
	d, _, k := setup(t)
	k.responses["/api/file/getFile"] = func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/octet-stream")
		if strings.HasSuffix(body["path"], ".bin") {
			w.Write([]byte{0xff, 0xfe, 0x00})
			return
		}
		io.WriteString(w, "plain text")
	}

	env := d.ExecuteQuery(context.Background(), "file.getFile", map[string]interface{}{"path": "/data/a.txt"})
	fc, ok := env.Data.(*FileContent)
	if !env.Success || !ok {
		t.Fatalf("operations:operations_test - %+v", env)
	}
	if fc.Content != "plain text" || fc.Encoding != encodingText || fc.Size != 10 {
		t.Errorf("operations:operations_test - text file = %+v", fc)
	}

	env = d.ExecuteQuery(context.Background(), "file.getFile", map[string]interface{}{"path": "/data/a.bin"})
	fc = env.Data.(*FileContent)
	if fc.Content != "//4A" || fc.Encoding != encodingBase64 {
		t.Errorf("operations:operations_test - binary file = %+v", fc)
	}
}

func TestForwardProxy_HeadersAsList(t *testing.T) {
	d, _, k := setup(t)

	env := d.ExecuteCommand(context.Background(), "network.forwardProxy", map[string]interface{}{
		"url":     "https://example.com",
		"method":  "GET",
		"headers": map[string]interface{}{"User-Agent": "bridge", "Accept": "text/html"},
	})
	if !env.Success {
		t.Fatalf("operations:operations_test - %+v", env)
	}
	call := k.last(t)
	if call.path != "/api/network/forwardProxy" {
		t.Errorf("operations:operations_test - path = %s", call.path)
	}
	var body map[string]interface{}
	json.Unmarshal(call.body, &body)
	headers, _ := json.Marshal(body["headers"])
	if string(headers) != `[{"Accept":"text/html"},{"User-Agent":"bridge"}]` {
		t.Errorf("operations:operations_test - headers = %s", headers)
	}
	if body["timeout"] != float64(7000) || body["contentType"] != "application/json" || body["payloadEncoding"] != "text" {
		t.Errorf("operations:operations_test - defaults missing: %v", body)
	}

	env = d.ExecuteCommand(context.Background(), "network.forwardProxy", map[string]interface{}{"url": "https://example.com", "method": "TRACE"})
	if env.Code != dispatcher.CodeInvalidArgument {
		t.Errorf("operations:operations_test - TRACE should be rejected, got %+v", env)
	}
}

func TestMeta(t *testing.T) {
	d, _, _ := setup(t)

	env := d.ExecuteQuery(context.Background(), "meta.listTools", nil)
	catalog, ok := env.Data.(*introspect.Catalog)
	if !env.Success || !ok {
		t.Fatalf("operations:operations_test - listTools = %+v", env)
	}
	if len(catalog.Commands) == 0 || catalog.Commands[0].Key != "notebook.create" {
		t.Errorf("operations:operations_test - first command = %+v", catalog.Commands)
	}

	env = d.ExecuteQuery(context.Background(), "meta.man", map[string]interface{}{"type": "sql.query"})
	page, _ := env.Data.(string)
	if !env.Success || !strings.HasPrefix(page, "# sql.query\n") || !strings.Contains(page, "#execute-sql-query") {
		t.Errorf("operations:operations_test - man page = %q", page)
	}

	env = d.ExecuteQuery(context.Background(), "meta.man", map[string]interface{}{"type": "nope.nope"})
	if env.Success || env.Code != dispatcher.CodeHandlerError {
		t.Errorf("operations:operations_test - unknown man page = %+v", env)
	}
}

func TestCommandsPublishEvents(t *testing.T) {
	_, reg, _ := setup(t)
	var mu sync.Mutex
	var published []string
	d := dispatcher.NewDispatcher(dispatcher.NewDispatcherParams{
		Registry: reg,
		Publisher: events.PublisherFunc(func(_ context.Context, e *events.OperationExecutedEvent) error {
			mu.Lock()
			published = append(published, e.Key)
			mu.Unlock()
			return nil
		}),
	})

	d.ExecuteCommand(context.Background(), "blocks.fold", map[string]interface{}{"id": "b"})
	d.ExecuteQuery(context.Background(), "system.version", nil)

	mu.Lock()
	defer mu.Unlock()
	if len(published) != 1 || published[0] != "blocks.fold" {
		t.Errorf("operations:operations_test - published %v", published)
	}
}
