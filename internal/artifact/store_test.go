package artifact

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/heartguard/internal/profile"
)

const artifactsDir = "../../artifacts"

func readArtifact(t *testing.T, variant profile.Variant) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(artifactsDir, string(variant)+".yaml"))
	require.NoError(t, err)
	return data
}

type mapStore map[profile.Variant][]byte

func (m mapStore) Fetch(_ context.Context, v profile.Variant) ([]byte, error) {
	data, ok := m[v]
	if !ok {
		return nil, ErrArtifactNotFound
	}
	return data, nil
}

func TestLoadBuildsGatewaysInOrder(t *testing.T) {
	gateways, err := Load(context.Background(), NewFileStore(artifactsDir), profile.Variants())
	require.NoError(t, err)
	require.Len(t, gateways, 2)
	assert.Equal(t, profile.VariantCore, gateways[0].Variant())
	assert.Equal(t, profile.VariantExtended, gateways[1].Variant())
}

func TestLoadFailsOnMissingVariant(t *testing.T) {
	store := mapStore{profile.VariantCore: readArtifact(t, profile.VariantCore)}
	_, err := Load(context.Background(), store, profile.Variants())
	assert.ErrorIs(t, err, ErrArtifactNotFound)
	assert.Contains(t, err.Error(), "extended")
}

func TestLoadRejectsMislabelledDocument(t *testing.T) {
	store := mapStore{profile.VariantExtended: readArtifact(t, profile.VariantCore)}
	_, err := Load(context.Background(), store, []profile.Variant{profile.VariantExtended})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `declares variant "core"`)
}

func TestLoadRejectsBrokenDocument(t *testing.T) {
	store := mapStore{profile.VariantCore: []byte("variant: core\nclasses: [No]\n")}
	_, err := Load(context.Background(), store, []profile.Variant{profile.VariantCore})
	assert.Error(t, err)
}

func TestLoadRequiresVariants(t *testing.T) {
	_, err := Load(context.Background(), mapStore{}, nil)
	assert.Error(t, err)
}

func TestFileStoreFallsBackToJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "core.json"), []byte(`{"variant":"core"}`), 0o600))

	store := NewFileStore(dir)
	data, err := store.Fetch(context.Background(), profile.VariantCore)
	require.NoError(t, err)
	assert.JSONEq(t, `{"variant":"core"}`, string(data))

	_, err = store.Fetch(context.Background(), profile.VariantExtended)
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}

func TestFileStoreHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFileStore(artifactsDir).Fetch(ctx, profile.VariantCore)
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeRow struct {
	payload []byte
	err     error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.payload
	return nil
}

type fakeDB struct {
	rows    map[string][]byte
	err     error
	pingErr error
	gotSQL  string
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.gotSQL = sql
	if f.err != nil {
		return fakeRow{err: f.err}
	}
	payload, ok := f.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{payload: payload}
}

func (f *fakeDB) Ping(context.Context) error { return f.pingErr }

func TestPostgresStore(t *testing.T) {
	db := &fakeDB{rows: map[string][]byte{"core": readArtifact(t, profile.VariantCore)}}
	store := NewPostgresStore(db)

	gateways, err := Load(context.Background(), store, []profile.Variant{profile.VariantCore})
	require.NoError(t, err)
	assert.Len(t, gateways, 1)
	assert.Equal(t, selectArtifact, db.gotSQL)

	_, err = store.Fetch(context.Background(), profile.VariantExtended)
	assert.ErrorIs(t, err, ErrArtifactNotFound)

	db.err = errors.New("connection reset")
	_, err = store.Fetch(context.Background(), profile.VariantCore)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrArtifactNotFound)

	db.pingErr = errors.New("down")
	assert.EqualError(t, store.Ping(context.Background()), "down")
}

type fakeKV struct {
	data    map[string]string
	err     error
	pingErr error
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	v, ok := f.data[key]
	if !ok {
		return "", errMiss
	}
	return v, nil
}

func (f *fakeKV) Ping(context.Context) error { return f.pingErr }

func TestRedisStore(t *testing.T) {
	kv := &fakeKV{data: map[string]string{
		"heartguard:artifact:extended": string(readArtifact(t, profile.VariantExtended)),
	}}
	store := NewRedisStore(kv)

	gateways, err := Load(context.Background(), store, []profile.Variant{profile.VariantExtended})
	require.NoError(t, err)
	assert.Equal(t, profile.VariantExtended, gateways[0].Variant())

	_, err = store.Fetch(context.Background(), profile.VariantCore)
	assert.ErrorIs(t, err, ErrArtifactNotFound)
	assert.Contains(t, err.Error(), "heartguard:artifact:core")

	kv.err = errors.New("READONLY")
	_, err = store.Fetch(context.Background(), profile.VariantExtended)
	assert.ErrorContains(t, err, "READONLY")

	assert.NoError(t, store.Ping(context.Background()))
}

func TestHTTPStore(t *testing.T) {
	core := readArtifact(t, profile.VariantCore)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/models/core.yaml":
			_, _ = w.Write(core)
		case "/models/extended.yaml":
			http.NotFound(w, r)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL+"/models/", 2*time.Second)

	data, err := store.Fetch(context.Background(), profile.VariantCore)
	require.NoError(t, err)
	assert.Equal(t, core, data)

	_, err = store.Fetch(context.Background(), profile.VariantExtended)
	assert.ErrorIs(t, err, ErrArtifactNotFound)

	assert.NoError(t, store.Ping(context.Background()))
}

func TestHTTPStoreServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL, time.Second)
	_, err := store.Fetch(context.Background(), profile.VariantCore)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrArtifactNotFound)
	assert.Error(t, store.Ping(context.Background()))
}
