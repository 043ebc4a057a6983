package testutil

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"kmconnect-backend/lib/sqliteutil"
	"kmconnect-backend/lib/telemetry"

	"github.com/mazen160/go-random"
)

type ServiceParams struct {
	Name string
	// if unspecified, it will skip setting up a db
	DbSchema string
}

type ServiceResult struct {
	DB *sql.DB
}

// SetupService bootstraps telemetry and an in-memory sqlite database for
// a package test.
func SetupService(t testing.TB, params ServiceParams) (ServiceResult, func()) {
	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))

	result := ServiceResult{}
	if params.DbSchema != "" {
		sqlite, err := sqliteutil.OpenDB(params.DbSchema, ":memory:")
		if err != nil {
			t.Fatal(err)
		}
		result.DB = sqlite
	}

	return result, cleanup
}

// RandomSpaceKey generates an uppercase key in the shape the remote
// service uses for workspaces.
func RandomSpaceKey(t testing.TB) string {
	key, err := random.String(6)
	if err != nil {
		t.Fatal(err)
	}
	return strings.ToUpper(key)
}
