package bootstrap_test

import (
	"testing"

	"github.com/CakeInTech/faydapass/internal/bootstrap"
	"github.com/CakeInTech/faydapass/internal/config"

	"gotest.tools/v3/assert"
)

func validConfig() config.Config {
	cfg := *config.NewDefaultConfiguration()
	cfg.AppURL = "http://localhost:5173"
	cfg.Fayda.ClientID = "client-1"
	cfg.Fayda.RedirectURI = "http://localhost:3000/callback"
	cfg.Fayda.PrivateKey = "ZXhhbXBsZQ=="
	return cfg
}

func TestValidate(t *testing.T) {
	assert.NilError(t, bootstrap.NewBootstrapApp(validConfig()).Validate())

	cfg := validConfig()
	cfg.Fayda.ClientID = ""
	assert.ErrorContains(t, bootstrap.NewBootstrapApp(cfg).Validate(), "ClientID")

	cfg = validConfig()
	cfg.Fayda.TokenEndpoint = ""
	assert.ErrorContains(t, bootstrap.NewBootstrapApp(cfg).Validate(), "TokenEndpoint")

	cfg = validConfig()
	cfg.Fayda.UserinfoEndpoint = "not a url"
	assert.ErrorContains(t, bootstrap.NewBootstrapApp(cfg).Validate(), "UserinfoEndpoint")

	cfg = validConfig()
	cfg.Fayda.PrivateKey = ""
	assert.ErrorContains(t, bootstrap.NewBootstrapApp(cfg).Validate(), "private key")

	cfg = validConfig()
	cfg.Flow.Store = "etcd"
	assert.ErrorContains(t, bootstrap.NewBootstrapApp(cfg).Validate(), "Store")
}

func TestSetupDatabase(t *testing.T) {
	app := bootstrap.NewBootstrapApp(config.Config{})

	db, err := app.SetupDatabase(t.TempDir() + "/data/faydapass.db")
	assert.NilError(t, err)
	defer db.Close()

	var count int
	assert.NilError(t, db.QueryRow("SELECT COUNT(*) FROM verifications").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestSetupDatabaseInMemory(t *testing.T) {
	app := bootstrap.NewBootstrapApp(config.Config{})

	db, err := app.SetupDatabase(":memory:")
	assert.NilError(t, err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO verifications (id, user_email, status, type, fayda_id, api_provider, metadata, created_at) VALUES ('v1', 'a@b.com', 'success', 'KYC', 'u1', 'fayda', '{}', 1700000000)`)
	assert.NilError(t, err)

	var count int
	assert.NilError(t, db.QueryRow("SELECT COUNT(*) FROM verifications").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSetupDatabaseReopen(t *testing.T) {
	app := bootstrap.NewBootstrapApp(config.Config{})
	path := t.TempDir() + "/faydapass.db"

	db, err := app.SetupDatabase(path)
	assert.NilError(t, err)
	assert.NilError(t, db.Close())

	// Migrations already applied
	db, err = app.SetupDatabase(path)
	assert.NilError(t, err)
	assert.NilError(t, db.Close())
}
