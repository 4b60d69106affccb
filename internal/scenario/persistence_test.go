package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelmoor/dungeon-guardian/internal/models"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	scn := Scenario{
		Name:        "Night Shift",
		Description: "A custom watch with a scripted ambush.",
		State: models.WorldState{
			Health: 70, Stamina: 15, Potions: 1,
			TreasureThreat: models.ThreatMedium,
			InSafeZone:     true, BackupAvailable: true,
		},
		MaxSteps: 12,
		Events: []Event{
			{AfterStep: 4, Note: "ambush", Patch: models.StatePatch{EnemyNearby: boolp(true)}},
		},
	}

	require.NoError(t, Save(dir, scn))
	assert.FileExists(t, filepath.Join(dir, "night-shift.yaml"))

	loaded, err := Load(dir, "Night Shift")
	require.NoError(t, err)
	assert.Equal(t, scn.Name, loaded.Name)
	assert.Equal(t, scn.State, loaded.State)
	assert.Equal(t, scn.MaxSteps, loaded.MaxSteps)
	require.Len(t, loaded.Events, 1)
	assert.Equal(t, 4, loaded.Events[0].AfterStep)
	require.NotNil(t, loaded.Events[0].Patch.EnemyNearby)
	assert.True(t, *loaded.Events[0].Patch.EnemyNearby)
}

func TestSaveRejectsInvalidScenario(t *testing.T) {
	dir := t.TempDir()
	bad := Scenario{Name: "Broken", State: models.WorldState{Health: 500}}
	assert.Error(t, Save(dir, bad))
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "garbage.yaml"), []byte("{not yaml"), 0644))

	_, err := Load(dir, "garbage")
	assert.Error(t, err)
}

func TestListSkipsInvalidEntries(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Save(dir, Scenario{
		Name:  "First Watch",
		State: models.WorldState{Health: 50, Stamina: 10},
	}))
	require.NoError(t, Save(dir, Scenario{
		Name:  "Second Watch",
		State: models.WorldState{Health: 60, Stamina: 12},
	}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "garbage.yaml"), []byte("{not yaml"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0644))

	names, err := List(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"First Watch", "Second Watch"}, names)
}

func TestListMissingDirIsEmpty(t *testing.T) {
	names, err := List(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
