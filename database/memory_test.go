package database

import (
	"context"
	"testing"
	"time"

	"github.com/sahilchouksey/shikshachain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStoreUniversities(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	first := &model.University{ID: "u1", Name: "First", PrincipalAddress: "SP1", Authorized: true}
	second := &model.University{ID: "u2", Name: "Second", PrincipalAddress: "SP2"}
	require.NoError(t, store.InsertUniversity(ctx, first))
	require.NoError(t, store.InsertUniversity(ctx, second))

	t.Run("duplicate principal address", func(t *testing.T) {
		err := store.InsertUniversity(ctx, &model.University{ID: "u3", PrincipalAddress: "SP1"})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("repeated id with new principal address", func(t *testing.T) {
		repeat := &model.University{ID: "u1", Name: "Repeat", PrincipalAddress: "SP9"}
		require.NoError(t, store.InsertUniversity(ctx, repeat))
		assert.NotEqual(t, first.RowID, repeat.RowID)

		found, err := store.FindUniversity(ctx, UniversityFilter{ID: "u1"})
		require.NoError(t, err)
		assert.Equal(t, "First", found.Name)
	})

	t.Run("find by either key", func(t *testing.T) {
		found, err := store.FindUniversity(ctx, UniversityFilter{ID: "u2"})
		require.NoError(t, err)
		assert.Equal(t, "Second", found.Name)

		found, err = store.FindUniversity(ctx, UniversityFilter{PrincipalAddress: "SP1"})
		require.NoError(t, err)
		assert.Equal(t, "u1", found.ID)
	})

	t.Run("empty filter matches nothing", func(t *testing.T) {
		_, err := store.FindUniversity(ctx, UniversityFilter{})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list keeps insertion order", func(t *testing.T) {
		all, err := store.FindUniversities(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "First", all[0].Name)
		assert.Equal(t, "Second", all[1].Name)
		assert.Equal(t, "Repeat", all[2].Name)

		total, err := store.CountUniversities(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
	})

	t.Run("returned records are copies", func(t *testing.T) {
		found, err := store.FindUniversity(ctx, UniversityFilter{ID: "u1"})
		require.NoError(t, err)
		found.Name = "changed"

		again, err := store.FindUniversity(ctx, UniversityFilter{ID: "u1"})
		require.NoError(t, err)
		assert.Equal(t, "First", again.Name)
	})
}

func TestInMemoryStoreStudents(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	require.NoError(t, store.InsertStudent(ctx, &model.Student{
		ID: "s1", Name: "Asha", WalletAddress: "SPW1", AadhaarID: "111111111111",
	}))

	tests := []struct {
		name    string
		student model.Student
	}{
		{"same wallet", model.Student{ID: "s2", WalletAddress: "SPW1", AadhaarID: "222222222222"}},
		{"same aadhaar", model.Student{ID: "s3", WalletAddress: "SPW3", AadhaarID: "111111111111"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			student := tt.student
			assert.ErrorIs(t, store.InsertStudent(ctx, &student), ErrDuplicate)
		})
	}

	t.Run("same id with new keys", func(t *testing.T) {
		assert.NoError(t, store.InsertStudent(ctx, &model.Student{
			ID: "s1", Name: "Other", WalletAddress: "SPW4", AadhaarID: "444444444444",
		}))
	})

	found, err := store.FindStudent(ctx, StudentFilter{WalletAddress: "nope", AadhaarID: "111111111111"})
	require.NoError(t, err)
	assert.Equal(t, "s1", found.ID)

	_, err = store.FindStudent(ctx, StudentFilter{ID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryStoreDegrees(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	degrees := []model.Degree{
		{ID: "d1", DegreeID: 12345678, StudentID: "s1", StudentWalletAddress: "SPW1"},
		{ID: "d2", DegreeID: 12345678, StudentID: "s2", StudentWalletAddress: "SPW2"},
		{ID: "d3", DegreeID: 87654321, StudentID: "s1", StudentWalletAddress: "SPW1"},
	}
	for i := range degrees {
		require.NoError(t, store.InsertDegree(ctx, &degrees[i]))
	}

	// token ids may collide; the first minted wins the lookup
	found, err := store.FindDegree(ctx, ByTokenID(12345678))
	require.NoError(t, err)
	assert.Equal(t, "d1", found.ID)

	_, err = store.FindDegree(ctx, ByTokenID(1))
	assert.ErrorIs(t, err, ErrNotFound)

	byStudent, err := store.FindDegrees(ctx, DegreeFilter{StudentID: "s1"})
	require.NoError(t, err)
	assert.Len(t, byStudent, 2)

	byWallet, err := store.FindDegrees(ctx, DegreeFilter{WalletAddress: "SPW2"})
	require.NoError(t, err)
	require.Len(t, byWallet, 1)
	assert.Equal(t, "d2", byWallet[0].ID)

	none, err := store.FindDegrees(ctx, DegreeFilter{StudentID: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	total, err := store.CountDegrees(ctx, DegreeFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	assert.ErrorIs(t, store.InsertDegree(ctx, &model.Degree{ID: "d1"}), ErrDuplicate)
}

func TestInMemoryStoreJobLogs(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	now := time.Now()

	old := &model.CronJobLog{JobName: "old", StartedAt: now.Add(-48 * time.Hour)}
	recent := &model.CronJobLog{JobName: "recent", StartedAt: now}
	require.NoError(t, store.InsertJobLog(ctx, old))
	require.NoError(t, store.InsertJobLog(ctx, recent))
	assert.EqualValues(t, 1, old.ID)
	assert.EqualValues(t, 2, recent.ID)

	removed, err := store.DeleteJobLogsBefore(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	logs := store.JobLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "recent", logs[0].JobName)
}
