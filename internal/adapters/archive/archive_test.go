package archive_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/personal_ledger_app/internal/adapters/archive"
	"github.com/SscSPs/personal_ledger_app/internal/apperrors"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type DirArchiveTestSuite struct {
	suite.Suite
	ctx     context.Context
	dir     string
	archive *archive.DirArchive
}

func (s *DirArchiveTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.dir = filepath.Join(s.T().TempDir(), "backups")
	a, err := archive.NewDirArchive(s.dir)
	s.Require().NoError(err)
	s.archive = a
}

func TestDirArchiveTestSuite(t *testing.T) {
	suite.Run(t, new(DirArchiveTestSuite))
}

const scope = "3f2a"

func (s *DirArchiveTestSuite) TestPutGet() {
	s.Require().NoError(s.archive.Put(s.ctx, scope, "finance-backup-1.json", []byte(`{"a":1}`)))

	document, err := s.archive.Get(s.ctx, scope, "finance-backup-1.json")
	s.Require().NoError(err)
	s.Equal(`{"a":1}`, string(document))

	// No temporary files are left behind.
	files, err := os.ReadDir(filepath.Join(s.dir, scope))
	s.Require().NoError(err)
	s.Len(files, 1)
}

func (s *DirArchiveTestSuite) TestGet_Missing() {
	_, err := s.archive.Get(s.ctx, scope, "finance-backup-404.json")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *DirArchiveTestSuite) TestRejectsPathNames() {
	for _, name := range []string{"", "../escape.json", "nested/file.json", ".hidden.json"} {
		err := s.archive.Put(s.ctx, scope, name, []byte("{}"))
		s.ErrorIs(err, apperrors.ErrValidation, name)
		_, err = s.archive.Get(s.ctx, scope, name)
		s.ErrorIs(err, apperrors.ErrValidation, name)
	}
	for _, badScope := range []string{"", "..", "a/b", ".tmp"} {
		err := s.archive.Put(s.ctx, badScope, "finance-backup-1.json", []byte("{}"))
		s.ErrorIs(err, apperrors.ErrValidation, badScope)
		_, err = s.archive.List(s.ctx, badScope)
		s.ErrorIs(err, apperrors.ErrValidation, badScope)
	}
}

func (s *DirArchiveTestSuite) TestList_NewestFirst() {
	s.Require().NoError(s.archive.Put(s.ctx, scope, "finance-backup-1.json", []byte("{}")))
	s.Require().NoError(s.archive.Put(s.ctx, scope, "finance-backup-2.json", []byte(`{"x":2}`)))
	s.Require().NoError(os.WriteFile(filepath.Join(s.dir, scope, "notes.txt"), []byte("skip"), 0o600))

	old := time.Now().Add(-time.Hour)
	s.Require().NoError(os.Chtimes(filepath.Join(s.dir, scope, "finance-backup-1.json"), old, old))

	entries, err := s.archive.List(s.ctx, scope)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("finance-backup-2.json", entries[0].Name)
	s.Equal(int64(7), entries[0].Size)
	s.Equal("finance-backup-1.json", entries[1].Name)
}

func (s *DirArchiveTestSuite) TestList_Empty() {
	entries, err := s.archive.List(s.ctx, scope)
	s.Require().NoError(err)
	s.NotNil(entries)
	s.Empty(entries)
}

func (s *DirArchiveTestSuite) TestScopesAreIsolated() {
	s.Require().NoError(s.archive.Put(s.ctx, "bob", "finance-backup-1.json", []byte(`{"owner":"bob"}`)))

	entries, err := s.archive.List(s.ctx, "eve")
	s.Require().NoError(err)
	s.Empty(entries)

	_, err = s.archive.Get(s.ctx, "eve", "finance-backup-1.json")
	s.ErrorIs(err, apperrors.ErrNotFound)

	entries, err = s.archive.List(s.ctx, "bob")
	s.Require().NoError(err)
	s.Len(entries, 1)
}

// --- Mock S3API ---
type MockS3API struct {
	mock.Mock
}

func (m *MockS3API) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	args := m.Called(ctx, params)
	var out *s3.ListObjectsV2Output
	if args.Get(0) != nil {
		out = args.Get(0).(*s3.ListObjectsV2Output)
	}
	return out, args.Error(1)
}

func (m *MockS3API) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	var out *s3.PutObjectOutput
	if args.Get(0) != nil {
		out = args.Get(0).(*s3.PutObjectOutput)
	}
	return out, args.Error(1)
}

func (m *MockS3API) GetObject(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	var out *s3.GetObjectOutput
	if args.Get(0) != nil {
		out = args.Get(0).(*s3.GetObjectOutput)
	}
	return out, args.Error(1)
}

func TestS3Archive_Put(t *testing.T) {
	client := new(MockS3API)
	a, err := archive.NewS3Archive(client, "ledger", "backups")
	require.NoError(t, err)

	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(in.Body)
		return aws.ToString(in.Bucket) == "ledger" &&
			aws.ToString(in.Key) == "backups/3f2a/finance-backup-1.json" &&
			string(body) == "{}"
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	require.NoError(t, a.Put(context.Background(), "3f2a", "finance-backup-1.json", []byte("{}")))
	client.AssertExpectations(t)
}

func TestS3Archive_PutFailure(t *testing.T) {
	client := new(MockS3API)
	a, err := archive.NewS3Archive(client, "ledger", "")
	require.NoError(t, err)

	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("denied")).Once()

	err = a.Put(context.Background(), "3f2a", "finance-backup-1.json", []byte("{}"))
	assert.ErrorIs(t, err, apperrors.ErrStorageFailure)
}

func TestS3Archive_Get(t *testing.T) {
	client := new(MockS3API)
	a, err := archive.NewS3Archive(client, "ledger", "backups/")
	require.NoError(t, err)

	client.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Key) == "backups/3f2a/finance-backup-1.json"
	})).Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(`{"v":1}`))}, nil).Once()
	client.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Key) == "backups/3f2a/missing.json"
	})).Return(nil, &types.NoSuchKey{}).Once()

	document, err := a.Get(context.Background(), "3f2a", "finance-backup-1.json")
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, string(document))

	_, err = a.Get(context.Background(), "3f2a", "missing.json")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = a.Get(context.Background(), "../other", "finance-backup-1.json")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	client.AssertExpectations(t)
}

func TestS3Archive_List(t *testing.T) {
	client := new(MockS3API)
	a, err := archive.NewS3Archive(client, "ledger", "backups")
	require.NoError(t, err)

	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(24 * time.Hour)
	client.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return aws.ToString(in.Prefix) == "backups/3f2a/"
	})).Return(&s3.ListObjectsV2Output{
		Contents: []types.Object{
			{Key: aws.String("backups/3f2a/finance-backup-1.json"), Size: aws.Int64(10), LastModified: aws.Time(older)},
			{Key: aws.String("backups/3f2a/finance-backup-2.json"), Size: aws.Int64(20), LastModified: aws.Time(newer)},
			{Key: aws.String("backups/3f2a/nested/other.json"), Size: aws.Int64(5), LastModified: aws.Time(newer)},
		},
		IsTruncated: aws.Bool(false),
	}, nil).Once()

	entries, err := a.List(context.Background(), "3f2a")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "finance-backup-2.json", entries[0].Name)
	assert.Equal(t, int64(20), entries[0].Size)
	assert.Equal(t, "finance-backup-1.json", entries[1].Name)
}

func TestNewS3Archive_RequiresBucket(t *testing.T) {
	_, err := archive.NewS3Archive(new(MockS3API), "", "")
	assert.Error(t, err)
}
