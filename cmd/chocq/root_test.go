package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relux-works/choc-query/store"
)

func seedDB(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "choc.sqlite")

	s, err := store.Open(ctx, store.Config{Path: path})
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Migrate(ctx))

	fr, err := s.InsertCountry(ctx, store.Country{Alpha2: "FR", EnglishName: "France", Region: "Europe"})
	require.NoError(t, err)
	ec, err := s.InsertCountry(ctx, store.Country{Alpha2: "EC", EnglishName: "Ecuador", Region: "Americas"})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := s.InsertBar(ctx, store.Bar{
			Company:           "Bonnat",
			SpecificBeanBar:   fmt.Sprintf("Bonnat %d", i),
			CocoaPercent:      0.75,
			CompanyLocationID: fr,
			Rating:            3.0 + float64(i)*0.25,
			BroadBeanOriginID: ec,
		})
		require.NoError(t, err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CHOCQ_DB", "")
	t.Setenv("CHOCQ_FORMAT", "")
	t.Setenv("NO_COLOR", "1")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQuery_Compact(t *testing.T) {
	db := seedDB(t)
	out, err := runCLI(t, "q", "companies", "number_of_bars", "--db", db, "--format", "compact")
	require.NoError(t, err)
	assert.Equal(t, "company,company_location,number_of_bars\nBonnat,France,5\n", out)
}

func TestQuery_BarsBySource(t *testing.T) {
	db := seedDB(t)
	out, err := runCLI(t, "--db", db, "--format", "json", "q", "bars country=EC source ratings bottom 2")
	require.NoError(t, err)
	assert.Contains(t, out, `"bar":"Bonnat 0"`)
	assert.Contains(t, out, `"bar":"Bonnat 1"`)
	assert.NotContains(t, out, "Bonnat 2")
}

func TestQuery_ConfigFile(t *testing.T) {
	db := seedDB(t)
	cfgPath := filepath.Join(t.TempDir(), "chocq.toml")
	body := fmt.Sprintf("[database]\npath = %q\n\n[output]\nformat = \"compact\"\n", db)
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o600))

	out, err := runCLI(t, "--config", cfgPath, "q", "regions", "source", "number_of_bars")
	require.NoError(t, err)
	assert.Equal(t, "region,number_of_bars\nAmericas,5\n", out)
}

func TestQuery_MissingDatabase(t *testing.T) {
	_, err := runCLI(t, "q", "bars", "--db", filepath.Join(t.TempDir(), "absent.sqlite"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.sqlite")
}

func TestSQL_NoDatabaseNeeded(t *testing.T) {
	out, err := runCLI(t, "sql", "companies", "region=Europe", "number_of_bars", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "WHERE C_companies.Region = ?")
	assert.Contains(t, out, "HAVING COUNT(SpecificBeanBarName) > 4")
	assert.Contains(t, out, "-- args: [Europe]")
}

func TestInvalidFormatFlag(t *testing.T) {
	_, err := runCLI(t, "vocab", "--format", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.format")
}
