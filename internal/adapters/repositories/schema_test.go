package repositories

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id":" a ","homeAddress":{"latitude":"28.6","longitude":77.2}},
		{"id":"b","status":"done"}
	]`), 0o600))

	recs, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "a", recs[0].ID)
	assert.Equal(t, "routing", recs[0].Status)
	require.NotNil(t, recs[0].HomeAddress.Latitude.Value)
	assert.Equal(t, 28.6, *recs[0].HomeAddress.Latitude.Value)
	assert.Equal(t, "done", recs[1].Status)

	row := addressColumns(recs[0].HomeAddress)
	assert.True(t, row.lat.Valid)
	assert.True(t, row.lng.Valid)
	assert.False(t, addressColumns(nil).lat.Valid)
}

func TestLoadSeedFileRejectsMissingID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":""}]`), 0o600))

	_, err := LoadSeedFile(path)
	assert.Error(t, err)
}

func TestAddressRowToDomain(t *testing.T) {
	var row addressRow
	row.address = "somewhere"
	rec := row.toDomain()
	assert.Nil(t, rec.Latitude)
	assert.Equal(t, "somewhere", rec.Address)
}
