package kbsnapshot_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/conquest-editor/internal/errors"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/clock"
	"github.com/KirkDiggler/conquest-editor/internal/repositories/kbsnapshot"
	"github.com/KirkDiggler/conquest-editor/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	ctx     context.Context
	mr      *miniredis.Miniredis
	clock   *clock.Fixed
	repo    kbsnapshot.Repository
	cleanup func()
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	client, mr, cleanup := testutils.CreateTestRedisClient(s.T())
	s.mr = mr
	s.cleanup = cleanup
	s.clock = clock.NewFixed(time.Date(2024, 6, 6, 6, 30, 0, 0, time.UTC))

	repo, err := kbsnapshot.NewRedisRepository(&kbsnapshot.RedisConfig{
		Client: client,
		Clock:  s.clock,
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) TestPutAndGet() {
	put, err := s.repo.Put(s.ctx, kbsnapshot.PutInput{Key: "abc", Tables: testTables()})
	s.Require().NoError(err)
	s.Positive(put.Bytes)
	s.True(put.Snapshot.ExpiresAt.IsZero())
	s.True(s.mr.Exists("kb_snapshot:abc"))

	got, err := s.repo.Get(s.ctx, kbsnapshot.GetInput{Key: "abc"})
	s.Require().NoError(err)
	s.Equal(testTables(), got.Snapshot.Tables)
	s.True(s.clock.Now().Equal(got.Snapshot.CreatedAt))
}

func (s *RedisRepositoryTestSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, kbsnapshot.GetInput{Key: "nope"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestExpiry() {
	_, err := s.repo.Put(s.ctx, kbsnapshot.PutInput{Key: "abc", Tables: testTables(), TTL: time.Hour})
	s.Require().NoError(err)
	s.Equal(time.Hour, s.mr.TTL("kb_snapshot:abc"))

	s.clock.Advance(2 * time.Hour)
	_, err = s.repo.Get(s.ctx, kbsnapshot.GetInput{Key: "abc"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
	s.False(s.mr.Exists("kb_snapshot:abc"))
}

func (s *RedisRepositoryTestSuite) TestCorruptPayload() {
	s.Require().NoError(s.mr.Set("kb_snapshot:abc", "garbage"))

	_, err := s.repo.Get(s.ctx, kbsnapshot.GetInput{Key: "abc"})
	s.Require().Error(err)
	s.True(errors.IsDataLoss(err))
}

func (s *RedisRepositoryTestSuite) TestDelete() {
	_, err := s.repo.Put(s.ctx, kbsnapshot.PutInput{Key: "abc", Tables: testTables()})
	s.Require().NoError(err)

	out, err := s.repo.Delete(s.ctx, kbsnapshot.DeleteInput{Key: "abc"})
	s.Require().NoError(err)
	s.True(out.Deleted)

	out, err = s.repo.Delete(s.ctx, kbsnapshot.DeleteInput{Key: "abc"})
	s.Require().NoError(err)
	s.False(out.Deleted)
}

func (s *RedisRepositoryTestSuite) TestPrune() {
	_, err := s.repo.Put(s.ctx, kbsnapshot.PutInput{Key: "fresh", Tables: testTables()})
	s.Require().NoError(err)
	_, err = s.repo.Put(s.ctx, kbsnapshot.PutInput{Key: "old", Tables: testTables(), TTL: time.Hour})
	s.Require().NoError(err)
	s.Require().NoError(s.mr.Set("kb_snapshot:junk", "garbage"))
	s.Require().NoError(s.mr.Set("unrelated", "garbage"))

	s.clock.Advance(2 * time.Hour)
	out, err := s.repo.Prune(s.ctx, kbsnapshot.PruneInput{})
	s.Require().NoError(err)
	s.Equal(3, out.Checked)
	s.Equal([]string{"junk", "old"}, out.Removed)

	s.True(s.mr.Exists("kb_snapshot:fresh"))
	s.False(s.mr.Exists("kb_snapshot:old"))
	s.False(s.mr.Exists("kb_snapshot:junk"))
	s.True(s.mr.Exists("unrelated"))
}

func (s *RedisRepositoryTestSuite) TestInvalidInput() {
	testCases := []struct {
		name  string
		input kbsnapshot.PutInput
	}{
		{"empty key", kbsnapshot.PutInput{Tables: testTables()}},
		{"nil tables", kbsnapshot.PutInput{Key: "abc"}},
		{"negative ttl", kbsnapshot.PutInput{Key: "abc", Tables: testTables(), TTL: -time.Second}},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.repo.Put(s.ctx, tc.input)
			s.Require().Error(err)
			s.True(errors.IsInvalidArgument(err))
		})
	}

	_, err := s.repo.Get(s.ctx, kbsnapshot.GetInput{})
	s.True(errors.IsInvalidArgument(err))
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func TestNewRedisRepositoryValidation(t *testing.T) {
	_, err := kbsnapshot.NewRedisRepository(&kbsnapshot.RedisConfig{})
	if !errors.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
