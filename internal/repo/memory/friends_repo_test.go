package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocoder89/friendhub/internal/apperr"
	"github.com/geocoder89/friendhub/internal/domain/friend"
	"github.com/geocoder89/friendhub/internal/repo/memory"
)

func seeded(t *testing.T) *memory.FriendsRepo {
	t.Helper()

	repo := memory.NewFriendsRepo()
	for _, f := range []friend.Friend{
		{FirstName: "Donald", LastName: "Trump", Email: "trump@tower.com", PasswordHash: "h", Role: friend.RoleUser},
		{FirstName: "Joe", LastName: "Biden", Email: "biden@cnn.com", PasswordHash: "h", Role: friend.RoleUser},
		{FirstName: "Peter", LastName: "Pan", Email: "pp@b.com", PasswordHash: "h", Role: friend.RoleUser},
	} {
		_, err := repo.Create(context.Background(), f)
		require.NoError(t, err)
	}

	return repo
}

func TestFriendsRepo_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := seeded(t)

	id, err := repo.Create(ctx, friend.Friend{FirstName: "Jan", LastName: "Olsen", Email: "jan@b.dk", PasswordHash: "h", Role: friend.RoleUser})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	jan, err := repo.FindByEmail(ctx, "jan@b.dk")
	require.NoError(t, err)
	assert.Equal(t, "Jan", jan.FirstName)
	assert.Equal(t, id, jan.ID)
	assert.False(t, jan.CreatedAt.IsZero())
}

func TestFriendsRepo_CreateDuplicateEmailConflicts(t *testing.T) {
	repo := seeded(t)

	_, err := repo.Create(context.Background(), friend.Friend{FirstName: "Pete", LastName: "Pan", Email: "pp@b.com"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeConflict))

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestFriendsRepo_FindMissing(t *testing.T) {
	_, err := seeded(t).FindByEmail(context.Background(), "xxx.@.b.dk")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestFriendsRepo_UpdateByEmail(t *testing.T) {
	ctx := context.Background()
	repo := seeded(t)

	n, err := repo.UpdateByEmail(ctx, "biden@cnn.com", friend.Update{FirstName: "Joe", LastName: "XXXX", Email: "biden@cnn.com", PasswordHash: "h2"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	joe, err := repo.FindByEmail(ctx, "biden@cnn.com")
	require.NoError(t, err)
	assert.Equal(t, "XXXX", joe.LastName)
	assert.Equal(t, "h2", joe.PasswordHash)
	assert.Equal(t, friend.RoleUser, joe.Role)
}

func TestFriendsRepo_UpdateMovesEmailKey(t *testing.T) {
	ctx := context.Background()
	repo := seeded(t)

	n, err := repo.UpdateByEmail(ctx, "pp@b.com", friend.Update{FirstName: "Peter", LastName: "Pan", Email: "peter@b.com", PasswordHash: "h"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = repo.FindByEmail(ctx, "pp@b.com")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	_, err = repo.FindByEmail(ctx, "peter@b.com")
	assert.NoError(t, err)
}

func TestFriendsRepo_UpdateToTakenEmailConflicts(t *testing.T) {
	repo := seeded(t)

	_, err := repo.UpdateByEmail(context.Background(), "pp@b.com", friend.Update{FirstName: "Peter", LastName: "Pan", Email: "biden@cnn.com", PasswordHash: "h"})
	assert.True(t, apperr.Is(err, apperr.CodeConflict))
}

func TestFriendsRepo_UpdateMissingNeverInserts(t *testing.T) {
	ctx := context.Background()
	repo := seeded(t)

	n, err := repo.UpdateByEmail(ctx, "ghost@b.dk", friend.Update{FirstName: "Gh", LastName: "Ost", Email: "ghost@b.dk", PasswordHash: "h"})
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestFriendsRepo_Delete(t *testing.T) {
	ctx := context.Background()
	repo := seeded(t)

	deleted, err := repo.DeleteByEmail(ctx, "pp@b.com")
	require.NoError(t, err)
	assert.True(t, deleted)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	for _, f := range all {
		assert.NotEqual(t, "pp@b.com", f.Email)
	}

	deleted, err = repo.DeleteByEmail(ctx, "nouser@notauser.com")
	require.NoError(t, err)
	assert.False(t, deleted)

	all, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestFriendsRepo_ListInCreationOrder(t *testing.T) {
	all, err := seeded(t).List(context.Background())
	require.NoError(t, err)

	require.Len(t, all, 3)
	assert.Equal(t, "trump@tower.com", all[0].Email)
	assert.Equal(t, "biden@cnn.com", all[1].Email)
	assert.Equal(t, "pp@b.com", all[2].Email)
}

func TestFriendsRepo_ConcurrentCreatesSameEmailOnlyOneWins(t *testing.T) {
	repo := memory.NewFriendsRepo()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Create(context.Background(), friend.Friend{FirstName: fmt.Sprintf("F%d", i), LastName: "Race", Email: "race@b.dk"})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}
