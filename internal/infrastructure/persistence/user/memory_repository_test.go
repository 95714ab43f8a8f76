package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyamraj1643/pine/internal/domain/user"
)

func TestMemoryRepositoryStoreAndFind(t *testing.T) {
	repo := NewMemoryRepository()

	id, err := repo.Store(&user.User{Email: "a@b.com", Name: "Jane"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	byID, err := repo.FindByID(id)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "a@b.com", byID.Email)

	byEmail, err := repo.FindByEmail("a@b.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, id, byEmail.ID)

	missing, err := repo.FindByEmail("nobody@b.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryRepositoryRejectsDuplicateEmail(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.Store(&user.User{Email: "a@b.com"})
	require.NoError(t, err)

	_, err = repo.Store(&user.User{Email: "a@b.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestMemoryRepositoryUpdate(t *testing.T) {
	repo := NewMemoryRepository()

	id, err := repo.Store(&user.User{Email: "a@b.com", Name: "Jane"})
	require.NoError(t, err)

	u, _ := repo.FindByID(id)
	u.Name = "Janet"
	require.NoError(t, repo.Update(u))

	after, _ := repo.FindByID(id)
	assert.Equal(t, "Janet", after.Name)

	assert.ErrorIs(t, repo.Update(&user.User{ID: 99}), ErrUserNotFound)
}

func TestMemoryRepositoryReturnsCopies(t *testing.T) {
	repo := NewMemoryRepository()

	id, err := repo.Store(&user.User{Email: "a@b.com", Name: "Jane"})
	require.NoError(t, err)

	leaked, _ := repo.FindByID(id)
	leaked.Name = "Mutated"

	fresh, _ := repo.FindByID(id)
	assert.Equal(t, "Jane", fresh.Name, "mutating a returned user must not touch the stored record")
}
