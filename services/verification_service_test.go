package services

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sahilchouksey/shikshachain/database"
	"github.com/sahilchouksey/shikshachain/model"
	"github.com/sahilchouksey/shikshachain/utils/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyAfterMint(t *testing.T) {
	ctx := context.Background()
	f := newMintFixture(t)
	verification := NewVerificationService(f.store, nil, 0, f.metrics)

	minted, err := f.degrees.Mint(ctx, mintRequest())
	require.NoError(t, err)

	view, err := verification.Verify(ctx, minted.Degree.DegreeID)
	require.NoError(t, err)

	req := mintRequest()
	assert.Equal(t, minted.Degree.DegreeID, view.DegreeID)
	assert.Equal(t, req.StudentName, view.StudentName)
	assert.Equal(t, req.Course, view.Course)
	assert.Equal(t, req.GraduationYear, view.GraduationYear)
	assert.Equal(t, req.StudentWalletAddress, view.StudentWallet)
	assert.Equal(t, "Biju Patnaik University of Technology", view.University)
	assert.True(t, view.Verified)
	assert.True(t, view.UniversityAuthorized)
	assert.True(t, view.IssueDate.Equal(minted.Degree.CreatedAt))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Verifications.WithLabelValues(metrics.ResultFound)))
}

func TestVerifyReflectsUnauthorizedUniversity(t *testing.T) {
	ctx := context.Background()
	f := newMintFixture(t)
	_, err := f.registry.RegisterUniversity(ctx, RegisterUniversityRequest{
		ID: "diploma-mill", Name: "Diploma Mill", PrincipalAddress: "SP...M", Authorized: boolPtr(false),
	})
	require.NoError(t, err)

	req := mintRequest()
	req.UniversityID = "diploma-mill"
	minted, err := f.degrees.Mint(ctx, req)
	require.NoError(t, err)

	view, err := NewVerificationService(f.store, nil, 0, nil).Verify(ctx, minted.Degree.DegreeID)
	require.NoError(t, err)
	assert.False(t, view.UniversityAuthorized)
	assert.True(t, view.Verified)
}

func TestVerifyMissingUniversityDefaultsToUnauthorized(t *testing.T) {
	ctx := context.Background()
	store := database.NewInMemoryStore()
	require.NoError(t, store.InsertDegree(ctx, &model.Degree{
		ID: "d1", DegreeID: 42424242, UniversityID: "gone", UniversityName: "Gone University",
		StudentName: "Asha", Verified: true, CreatedAt: time.Now(),
	}))

	view, err := NewVerificationService(store, nil, 0, nil).Verify(ctx, 42424242)
	require.NoError(t, err)
	assert.False(t, view.UniversityAuthorized)
	assert.Equal(t, "Gone University", view.University)
}

func TestVerifyDoesNotCacheFailedUniversityLookup(t *testing.T) {
	ctx := context.Background()
	store := &flakyUniversityStore{InMemoryStore: database.NewInMemoryStore(), universityFailures: 1}
	require.NoError(t, store.InsertUniversity(ctx, &model.University{
		ID: "bput", Name: "BPUT", PrincipalAddress: "SP1", Authorized: true,
	}))
	require.NoError(t, store.InsertDegree(ctx, &model.Degree{
		ID: "d1", DegreeID: 31313131, UniversityID: "bput", UniversityName: "BPUT",
		StudentName: "Asha", Verified: true, CreatedAt: time.Now(),
	}))
	c := newMemoryCache()
	verification := NewVerificationService(store, c, time.Minute, nil)

	during, err := verification.Verify(ctx, 31313131)
	require.NoError(t, err)
	assert.False(t, during.UniversityAuthorized)
	_, cached := c.entries[VerificationCacheKey(31313131)]
	assert.False(t, cached)

	after, err := verification.Verify(ctx, 31313131)
	require.NoError(t, err)
	assert.True(t, after.UniversityAuthorized)
	_, cached = c.entries[VerificationCacheKey(31313131)]
	assert.True(t, cached)
}

func TestVerifyUnknownTokenID(t *testing.T) {
	m := metrics.New()
	verification := NewVerificationService(database.NewInMemoryStore(), nil, 0, m)

	_, err := verification.Verify(context.Background(), 99999999)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotFound))
	assert.Equal(t, "Degree not found", err.Error())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Verifications.WithLabelValues(metrics.ResultNotFound)))
}

func TestVerifyUsesCache(t *testing.T) {
	ctx := context.Background()
	f := newMintFixture(t)
	cache := newMemoryCache()
	verification := NewVerificationService(f.store, cache, time.Minute, f.metrics)

	minted, err := f.degrees.Mint(ctx, mintRequest())
	require.NoError(t, err)
	key := VerificationCacheKey(minted.Degree.DegreeID)

	first, err := verification.Verify(ctx, minted.Degree.DegreeID)
	require.NoError(t, err)
	assert.Contains(t, cache.entries, key)
	assert.Equal(t, time.Minute, cache.ttls[key])

	// served from the cache even when the store would now fail
	cached, err := NewVerificationService(brokenStore{}, cache, time.Minute, f.metrics).Verify(ctx, minted.Degree.DegreeID)
	require.NoError(t, err)
	assert.Equal(t, first.StudentName, cached.StudentName)
	assert.True(t, cached.IssueDate.Equal(first.IssueDate))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.VerificationCacheHits))
}

func TestVerifyFallsThroughOnCacheErrors(t *testing.T) {
	ctx := context.Background()
	f := newMintFixture(t)
	cache := newMemoryCache()
	cache.failGet = true

	minted, err := f.degrees.Mint(ctx, mintRequest())
	require.NoError(t, err)

	view, err := NewVerificationService(f.store, cache, time.Minute, nil).Verify(ctx, minted.Degree.DegreeID)
	require.NoError(t, err)
	assert.Equal(t, minted.Degree.DegreeID, view.DegreeID)
}

func TestVerifyStoreFailureIsInternal(t *testing.T) {
	_, err := NewVerificationService(brokenStore{}, nil, 0, nil).Verify(context.Background(), 1)
	assert.True(t, IsKind(err, KindInternal))
}

func TestListDegrees(t *testing.T) {
	ctx := context.Background()
	f := newMintFixture(t)
	verification := NewVerificationService(f.store, nil, 0, nil)

	_, err := f.degrees.Mint(ctx, mintRequest())
	require.NoError(t, err)
	other := mintRequest()
	other.StudentID = "s2"
	other.StudentWalletAddress = "SP...X"
	_, err = f.degrees.Mint(ctx, other)
	require.NoError(t, err)

	byStudent, err := verification.ListByStudent(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, byStudent, 1)

	byWallet, err := verification.ListByWallet(ctx, "SP...X")
	require.NoError(t, err)
	require.Len(t, byWallet, 1)
	assert.Equal(t, "s2", byWallet[0].StudentID)

	all, err := verification.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := verification.ListByWallet(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = NewVerificationService(brokenStore{}, nil, 0, nil).ListAll(ctx)
	assert.True(t, IsKind(err, KindInternal))
}
