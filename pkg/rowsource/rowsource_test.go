package rowsource

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-datatable/components/datatable"
)

func TestHTTPClientRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("expected auth header, got %s", got)
		}
		switch r.URL.Path {
		case "/array":
			_, _ = w.Write([]byte(`[{"id":"T-1"},{"id":"T-2"}]`))
		case "/envelope":
			_, _ = w.Write([]byte(`{"rows":[{"id":"T-3"}],"total":1}`))
		default:
			http.Error(w, "nope", http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{URL: server.URL + "/array", APIKey: "secret"})
	require.NoError(t, err)
	records, err := client.Records(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)

	client, err = NewHTTPClient(HTTPConfig{URL: server.URL + "/envelope", APIKey: "secret"})
	require.NoError(t, err)
	records, err = client.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.JSONEq(t, `{"id":"T-3"}`, string(records[0]))

	client, err = NewHTTPClient(HTTPConfig{URL: server.URL + "/missing", APIKey: "secret"})
	require.NoError(t, err)
	_, err = client.Records(context.Background())
	assert.ErrorContains(t, err, "remote error 404")

	_, err = NewHTTPClient(HTTPConfig{})
	assert.Error(t, err)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rows.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":1},{"id":2}]`), 0o600))

	src, err := NewFileSource(path)
	require.NoError(t, err)
	records, err := src.Records(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)

	missing, _ := NewFileSource(filepath.Join(dir, "nope.json"))
	_, err = missing.Records(context.Background())
	assert.Error(t, err)
}

func TestSQLiteSourceRecords(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE tasks (id TEXT, title TEXT, status TEXT, label TEXT, priority TEXT, rank INTEGER)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO tasks VALUES
		('T-2', 'Second', 'todo', 'bug', 'low', 2),
		('T-1', 'First', 'done', 'feature', 'high', 1)`)
	require.NoError(t, err)

	src, err := NewSQLSource(db, `SELECT id, title, status, label, priority FROM tasks ORDER BY rank`)
	require.NoError(t, err)
	records, err := src.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.JSONEq(t, `{"id":"T-1","title":"First","status":"done","label":"feature","priority":"high"}`, string(records[0]))

	rows := datatable.DecodeSource[datatable.Task](src, datatable.NewJSONSchemaValidator(), datatable.TableDefinition{Code: "backlog"})
	tasks, err := rows.Rows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "T-2", tasks[1].ID)
}

func TestOpenerResolvesSources(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sections.json"), []byte(`[{"id":1,"header":"Intro","type":"Narrative","status":"Done"}]`), 0o600))

	opener := Opener{BaseDir: dir}
	src, err := opener.Open(datatable.ManifestSource{Kind: datatable.SourceJSON, Path: "sections.json"})
	require.NoError(t, err)
	records, err := src.Records(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = opener.Open(datatable.ManifestSource{Kind: "ftp"})
	assert.Error(t, err)

	assert.Equal(t, "file:"+filepath.Join(dir, "tracker.db")+"?mode=ro", opener.resolveDSN("file:tracker.db?mode=ro"))
	assert.Equal(t, ":memory:", opener.resolveDSN(":memory:"))
	assert.Equal(t, "/abs/tracker.db", opener.resolveDSN("/abs/tracker.db"))
}

func TestOpenerSQLiteReleasesHandles(t *testing.T) {
	dir := t.TempDir()
	seed, err := sql.Open("sqlite", filepath.Join(dir, "tracker.db"))
	require.NoError(t, err)
	_, err = seed.Exec(`CREATE TABLE sections (id INTEGER, header TEXT, type TEXT, status TEXT)`)
	require.NoError(t, err)
	_, err = seed.Exec(`INSERT INTO sections VALUES (1, 'Scope', 'Narrative', 'Done'), (2, 'Pricing', 'Table', 'In Process')`)
	require.NoError(t, err)
	require.NoError(t, seed.Close())

	var handles []*sql.DB
	original := openDB
	openDB = func(dsn string) (*sql.DB, error) {
		db, err := original(dsn)
		if err == nil {
			handles = append(handles, db)
		}
		return db, err
	}
	t.Cleanup(func() { openDB = original })

	src, err := Opener{BaseDir: dir}.Open(datatable.ManifestSource{
		Kind:  datatable.SourceSQLite,
		DSN:   "tracker.db",
		Query: `SELECT id, header, type, status FROM sections ORDER BY id`,
	})
	require.NoError(t, err)
	assert.Empty(t, handles, "opening the source holds no handle")

	for range 2 {
		records, err := src.Records(context.Background())
		require.NoError(t, err)
		assert.Len(t, records, 2)
	}
	require.Len(t, handles, 2, "every read opens its own handle")
	for _, db := range handles {
		assert.Error(t, db.Ping(), "handle is closed after the read")
	}
}

func TestBindSourcesWithOpener(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "matrix.json"), []byte(`[
		{"id":1,"header":"Scope","type":"Narrative","status":"Done"},
		{"id":2,"header":"Pricing","type":"Table","status":"In Process"}
	]`), 0o600))

	registry := datatable.NewRegistry(datatable.NewJSONSchemaValidator())
	require.NoError(t, registry.LoadManifestDocument(&datatable.TableManifestDocument{
		Version: datatable.ManifestVersion,
		Name:    "test",
		Tables: []datatable.ManifestTable{{
			Definition: datatable.TableDefinition{Code: "matrix", Name: "Matrix"},
			Source:     datatable.ManifestSource{Kind: datatable.SourceJSON, Record: datatable.RecordSection, Path: "matrix.json"},
		}},
	}))
	require.NoError(t, registry.BindSources(Opener{BaseDir: dir}.Open))

	service := datatable.NewService(datatable.Options{Registry: registry})
	ctx := context.Background()
	_, err := service.OpenSession(ctx, datatable.ViewerContext{SessionID: "s-1"})
	require.NoError(t, err)
	ref := datatable.TableRef{SessionID: "s-1", Table: "matrix"}
	require.NoError(t, service.Mount(ctx, ref))
	view, err := service.View(ctx, ref, "")
	require.NoError(t, err)
	assert.Equal(t, 2, view.TotalRows)
}

func TestMockSource(t *testing.T) {
	src := NewMockSource(json.RawMessage(`{"id":"A"}`))
	records, err := src.Records(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)

	boom := errors.New("down")
	src.Fail(boom)
	_, err = src.Records(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, src.Loads())
}
