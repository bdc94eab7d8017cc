//go:build integration

package card

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"vaxcard/internal/person"
	platformredis "vaxcard/internal/platform/redis"
	id "vaxcard/pkg/domain"
	"vaxcard/pkg/testutil/containers"
)

type CacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *Cache
	ctx   context.Context
}

func TestCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.cache = NewCache(&platformredis.Client{Client: s.redis.Client}, logger)
	s.ctx = context.Background()
}

func (s *CacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
}

func (s *CacheSuite) testMatrix() (*Matrix, id.PersonID) {
	p, err := person.New(id.NewPersonID(), "Ana", "doc-ana", id.SexFemale, 30, time.Now().UTC())
	s.Require().NoError(err)
	return BuildMatrix(p, nil, nil, false), p.ID
}

func (s *CacheSuite) TestMatrixRoundTrip() {
	m, personID := s.testMatrix()
	key := matrixKey(personID, false)

	var missed Matrix
	s.False(s.cache.get(s.ctx, key, &missed), "cold cache misses")

	s.cache.set(s.ctx, key, m)

	var hit Matrix
	s.Require().True(s.cache.get(s.ctx, key, &hit))
	s.Equal(m.Rows, hit.Rows)
	s.Equal(m.Person.ID, hit.Person.ID)
}

func (s *CacheSuite) TestInvalidatePerson() {
	m, personID := s.testMatrix()
	for _, key := range personKeys(personID) {
		s.cache.set(s.ctx, key, m)
	}

	s.cache.InvalidatePerson(s.ctx, personID)

	var out Matrix
	for _, key := range personKeys(personID) {
		s.False(s.cache.get(s.ctx, key, &out), "key %s should be gone", key)
	}
}

func (s *CacheSuite) TestInvalidateAllOnlyTouchesCardKeys() {
	m, personID := s.testMatrix()
	s.cache.set(s.ctx, matrixKey(personID, false), m)
	s.Require().NoError(s.redis.Client.Set(s.ctx, "unrelated:key", "keep", 0).Err())

	s.cache.InvalidateAll(s.ctx)

	var out Matrix
	s.False(s.cache.get(s.ctx, matrixKey(personID, false), &out))
	kept, err := s.redis.Client.Get(s.ctx, "unrelated:key").Result()
	s.Require().NoError(err)
	s.Equal("keep", kept)
}

func (s *CacheSuite) TestCorruptEntryDegradesToMiss() {
	_, personID := s.testMatrix()
	key := matrixKey(personID, false)
	s.Require().NoError(s.redis.Client.Set(s.ctx, key, "not-json", 0).Err())

	var out Matrix
	s.False(s.cache.get(s.ctx, key, &out))

	// The corrupt entry is dropped so the next write starts clean.
	exists, err := s.redis.Client.Exists(s.ctx, key).Result()
	s.Require().NoError(err)
	s.Zero(exists)
}
