package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/contract-planner/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "nested", "contract.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadReturnsDefaultsOnFirstRun(t *testing.T) {
	s := newTestStore(t)
	doc, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.NewDocument(), doc)
}

func TestSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	doc := model.NewDocument()
	doc.ContractorName = "ACME"
	doc.Cities = []model.City{{Name: "Springfield", Regional: model.RegionalMetropolitana, Center: "C"}}
	doc.Quantities["Springfield"] = model.QuantityRow{"2", ""}
	doc.PEP["Springfield"] = "PEP-1"
	require.NoError(t, s.Save(ctx, doc))

	doc.ContractorName = "Other"
	require.NoError(t, s.Save(ctx, doc))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}

func TestLoadMergesDefaultsUnderStoredKeys(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)`, DefaultKey,
		[]byte(`{"cities":[{"nome":"X","regional":"Interior","centro":"C"}],"opexMetro":"1,2","quantidades":{"X":["1",null]},"pep":null}`))
	require.NoError(t, err)

	doc, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, doc.Services, 11)
	assert.Equal(t, model.PriceList("1,2"), doc.OpexMetro)
	assert.Equal(t, model.NewDocument().CapexMetro, doc.CapexMetro)
	assert.Equal(t, []model.City{{Name: "X", Regional: model.RegionalInterior, Center: "C"}}, doc.Cities)
	assert.Equal(t, model.QuantityRow{"1", ""}, doc.Quantities["X"])
	assert.NotNil(t, doc.PEP)
	assert.NotNil(t, doc.SAPContract)
}

func TestLoadRejectsCorruptPayload(t *testing.T) {
	s := newTestStore(t)
	_, err := s.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)`, DefaultKey, []byte(`{not json`))
	require.NoError(t, err)

	_, err = s.Load(context.Background())
	assert.Error(t, err)
}

func TestStoresAreIsolatedByKey(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shared.db")
	a, err := NewSQLiteStore(path, "a")
	require.NoError(t, err)
	defer a.Close()

	doc := model.NewDocument()
	doc.ClientName = "Cliente A"
	require.NoError(t, a.Save(ctx, doc))

	b, err := NewSQLiteStore(path, "b")
	require.NoError(t, err)
	defer b.Close()
	loaded, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.ClientName)
}

func TestSaveKeepsUnknownStoredKeys(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)`, DefaultKey,
		[]byte(`{"nomeContratado":"ACME","observacoes":"manter"}`))
	require.NoError(t, err)

	doc, err := s.Load(ctx)
	require.NoError(t, err)
	doc.ContractorName = "ACME Ltda"
	require.NoError(t, s.Save(ctx, doc))

	var payload []byte
	require.NoError(t, s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, DefaultKey).Scan(&payload))
	assert.Contains(t, string(payload), `"observacoes":"manter"`)
	assert.Contains(t, string(payload), `"nomeContratado":"ACME Ltda"`)
}
