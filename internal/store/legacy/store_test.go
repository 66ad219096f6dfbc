package legacy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/snupai/mira/internal/domain/entity"
	"github.com/snupai/mira/internal/settings"
)

func newTestStore(t *testing.T) (*Store, *settings.Store, string) {
	t.Helper()
	dir := t.TempDir()
	settingsStore, err := settings.NewStore(filepath.Join(dir, "settings.yaml"))
	require.NoError(t, err)
	return NewStore(dir, settingsStore, zap.NewNop()), settingsStore, dir
}

func TestProfileRoundTrip(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	profile, err := store.Profile(ctx)
	require.NoError(t, err)
	assert.Nil(t, profile)
	assert.False(t, store.ProfileExists())

	saved := entity.NewCompanyProfile()
	saved.CompanyName = "Musterfirma"
	require.NoError(t, store.SaveProfile(ctx, saved))
	assert.True(t, store.ProfileExists())

	loaded, err := store.Profile(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, saved.ID, loaded.ID)
	assert.Equal(t, "Musterfirma", loaded.CompanyName)
}

func TestClientUpsert(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	client := entity.NewClient("Acme")
	require.NoError(t, store.SaveClient(ctx, client))

	client.Name = "Acme GmbH"
	require.NoError(t, store.SaveClient(ctx, client))

	clients, err := store.Clients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Acme GmbH", clients[0].Name)
}

func TestDeleteClientNullifiesInvoices(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	client := entity.NewClient("Acme")
	require.NoError(t, store.SaveClient(ctx, client))

	inv := entity.NewInvoice(client.ID, 14)
	require.NoError(t, store.SaveInvoice(ctx, inv))

	require.NoError(t, store.DeleteClient(ctx, client.ID))

	// Invoice survives with a nullified association
	loaded, err := store.InvoiceByID(ctx, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, uuid.Nil, loaded.ClientID)

	gone, err := store.ClientByID(ctx, client.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestCorruptFileDegradesToEmpty(t *testing.T) {
	store, _, dir := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, ClientsFile), []byte("{broken"), 0644))

	clients, err := store.Clients(ctx)
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestSavesBecomeNoOpsAfterMigration(t *testing.T) {
	store, settingsStore, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, settingsStore.SetMigrationStatus(settings.MigrationCompleted))

	client := entity.NewClient("Late Writer")
	require.NoError(t, store.SaveClient(ctx, client))

	// Nothing was written
	clients, err := store.Clients(ctx)
	require.NoError(t, err)
	assert.Empty(t, clients)

	require.NoError(t, store.SaveProfile(ctx, entity.NewCompanyProfile()))
	assert.False(t, store.ProfileExists())
}

func TestTemplateRoundTrip(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	tmpl := entity.NewInvoiceTemplate("Retainer")
	require.NoError(t, store.SaveTemplate(ctx, tmpl))

	loaded, err := store.TemplateByID(ctx, tmpl.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Retainer", loaded.Name)

	require.NoError(t, store.DeleteTemplate(ctx, tmpl.ID))
	templates, err := store.Templates(ctx)
	require.NoError(t, err)
	assert.Empty(t, templates)
}

func TestInvoiceStatusSurvivesRoundTrip(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	inv := entity.NewInvoice(uuid.New(), 14)
	inv.MarkSent()
	require.NoError(t, store.SaveInvoice(ctx, inv))

	loaded, err := store.InvoiceByID(ctx, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, inv.Status, loaded.Status)
	assert.NotNil(t, loaded.SentAt)
}
