package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterLookupRemove(t *testing.T) {
	r := New()

	rec := &Record{ID: "c1", Role: RoleBuzzer, TeamName: "Red", ConnectedAt: time.Now()}
	r.Register(rec)

	got, ok := r.Lookup("c1")
	require.True(t, ok)
	require.Same(t, rec, got)

	removed, ok := r.Remove("c1")
	require.True(t, ok)
	require.Same(t, rec, removed)

	_, ok = r.Lookup("c1")
	require.False(t, ok)
	_, ok = r.Remove("c1")
	require.False(t, ok)
}

func TestRegistry_RegisterOverwrites(t *testing.T) {
	r := New()
	r.Register(&Record{ID: "c1", Role: RoleBuzzer, TeamName: "Red"})
	r.Register(&Record{ID: "c1", Role: RoleAdmin})

	rec, ok := r.Lookup("c1")
	require.True(t, ok)
	require.Equal(t, RoleAdmin, rec.Role)
	require.Equal(t, 1, r.Len())
}

func TestRegistry_AllIsCopyOnRead(t *testing.T) {
	r := New()
	r.Register(&Record{ID: "c1", Role: RoleBuzzer, TeamName: "Red"})
	r.Register(&Record{ID: "c2", Role: RoleAdmin})

	snapshot := r.All()
	require.Len(t, snapshot, 2)

	// Mutating the registry mid-iteration must not disturb the snapshot.
	r.Remove("c1")
	r.Register(&Record{ID: "c3", Role: RoleBuzzer, TeamName: "Blue"})
	require.Len(t, snapshot, 2)
	require.Equal(t, 2, r.Len())
}

func TestRegistry_NameTakenOnlyAmongLiveBuzzers(t *testing.T) {
	r := New()
	r.Register(&Record{ID: "c1", Role: RoleBuzzer, TeamName: "Red"})

	require.True(t, r.NameTaken("Red", ""))
	require.False(t, r.NameTaken("red", ""), "matching is case-sensitive")
	require.False(t, r.NameTaken("Blue", ""))
	require.False(t, r.NameTaken("Red", "c1"), "a record does not collide with itself")

	r.Register(&Record{ID: "c2", Role: RoleBuzzer, TeamName: "Blue"})
	require.True(t, r.NameTaken("Red", "c2"), "another record's name still counts")

	r.Remove("c1")
	require.False(t, r.NameTaken("Red", ""), "a name freed by disconnect is reusable")
}

func TestRegistry_BuzzerCountsIgnoreAdmins(t *testing.T) {
	r := New()
	r.Register(&Record{ID: "a1", Role: RoleAdmin})
	r.Register(&Record{ID: "c1", Role: RoleBuzzer, TeamName: "Red"})
	r.Register(&Record{ID: "c2", Role: RoleBuzzer, TeamName: "Blue"})

	require.Equal(t, 2, r.CountBuzzers())
	require.Len(t, r.Buzzers(), 2)
	require.Equal(t, 3, r.Len())
}
