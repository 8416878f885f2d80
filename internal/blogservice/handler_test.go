package blogservice

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sushihentaime/bloglist/internal/common"
)

func setupTestService(t *testing.T) (*BlogService, *sql.DB, func() error) {
	db := common.TestDB("file://../../migrations", t)
	s := NewBlogService(db, common.NewCache(5*time.Minute, 10*time.Minute))

	cleanup := func() error {
		_, err := db.Exec("DELETE FROM blogs")
		if err != nil {
			return err
		}

		_, err = db.Exec("DELETE FROM users")
		if err != nil {
			return err
		}

		s.c.Flush()

		return nil
	}

	return s, db, cleanup
}

func insertTestUser(t *testing.T, db *sql.DB, username string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(`INSERT INTO users (username, password) VALUES ($1, 'x') RETURNING id`, username).Scan(&id)
	if err != nil {
		t.Fatalf("could not insert test user: %v", err)
	}

	return id
}

func intptr(i int) *int {
	return &i
}

func TestCreateBlog(t *testing.T) {
	s, db, cleanup := setupTestService(t)

	userID := insertTestUser(t, db, "alice")

	testCases := []struct {
		name        string
		req         CreateBlogRequest
		expectedErr string
		wantLikes   int
	}{
		{
			name: "valid blog",
			req:  CreateBlogRequest{Title: "T", Author: "A", URL: "http://x", Likes: intptr(7), UserID: userID},

			wantLikes: 7,
		},
		{
			name:      "likes omitted defaults to zero",
			req:       CreateBlogRequest{Title: "T", Author: "A", URL: "http://x", UserID: userID},
			wantLikes: 0,
		},
		{
			name:        "missing title",
			req:         CreateBlogRequest{Author: "A", URL: "http://x", UserID: userID},
			expectedErr: "validation errors: map[title:must be provided]",
		},
		{
			name:        "missing author",
			req:         CreateBlogRequest{Title: "T", URL: "http://x", UserID: userID},
			expectedErr: "validation errors: map[author:must be provided]",
		},
		{
			name:        "missing url",
			req:         CreateBlogRequest{Title: "T", Author: "A", UserID: userID},
			expectedErr: "validation errors: map[url:must be provided]",
		},
		{
			name:        "negative likes",
			req:         CreateBlogRequest{Title: "T", Author: "A", URL: "http://x", Likes: intptr(-1), UserID: userID},
			expectedErr: "validation errors: map[likes:must not be negative]",
		},
		{
			name:        "missing owner",
			req:         CreateBlogRequest{Title: "T", Author: "A", URL: "http://x"},
			expectedErr: "validation errors: map[user_id:must be greater than zero]",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			blog, err := s.CreateBlog(ctx, &tc.req)

			var count int
			countErr := db.QueryRow("SELECT COUNT(*) FROM blogs").Scan(&count)
			assert.NoError(t, countErr)

			if tc.expectedErr == "" {
				assert.NoError(t, err)
				assert.NotZero(t, blog.ID)
				assert.Equal(t, tc.wantLikes, blog.Likes)
				assert.Equal(t, userID, blog.UserID)
				assert.Equal(t, 1, count)
			} else {
				assert.EqualError(t, err, tc.expectedErr)
				assert.Equal(t, 0, count)
			}

			_, err = db.Exec("DELETE FROM blogs")
			assert.NoError(t, err)
			s.c.Flush()
		})
	}

	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})
}

func TestCreateBlogUnknownOwner(t *testing.T) {
	s, _, cleanup := setupTestService(t)
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.CreateBlog(ctx, &CreateBlogRequest{Title: "T", Author: "A", URL: "http://x", UserID: 999999})
	assert.ErrorIs(t, err, ErrUserForeignKey)
}

func TestGetBlogByID(t *testing.T) {
	s, db, cleanup := setupTestService(t)
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	userID := insertTestUser(t, db, "alice")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	created, err := s.CreateBlog(ctx, &CreateBlogRequest{Title: "T", Author: "A", URL: "http://x", UserID: userID})
	assert.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		got, err := s.GetBlogByID(ctx, created.ID)
		assert.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, created.Title, got.Title)
		assert.Equal(t, created.Author, got.Author)
		assert.Equal(t, created.URL, got.URL)
		assert.Equal(t, created.Likes, got.Likes)
		assert.Equal(t, created.UserID, got.UserID)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := s.GetBlogByID(ctx, created.ID+1)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("served from cache after delete behind its back", func(t *testing.T) {
		// a direct row delete leaves the cache entry in place; the service
		// still answers until the entry expires or a mutation invalidates it
		_, err := db.Exec("DELETE FROM blogs WHERE id = $1", created.ID)
		assert.NoError(t, err)

		got, err := s.GetBlogByID(ctx, created.ID)
		assert.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})
}

func TestGetBlogs(t *testing.T) {
	s, db, cleanup := setupTestService(t)
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	userID := insertTestUser(t, db, "alice")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	first, err := s.CreateBlog(ctx, &CreateBlogRequest{Title: "First", Author: "A", URL: "http://x/1", UserID: userID})
	assert.NoError(t, err)
	second, err := s.CreateBlog(ctx, &CreateBlogRequest{Title: "Second", Author: "A", URL: "http://x/2", UserID: userID})
	assert.NoError(t, err)

	blogs, err := s.GetBlogs(ctx)
	assert.NoError(t, err)
	assert.Len(t, blogs, 2)
	assert.Equal(t, first.ID, blogs[0].ID)
	assert.Equal(t, second.ID, blogs[1].ID)
}

func TestDeleteBlog(t *testing.T) {
	s, db, cleanup := setupTestService(t)
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	aliceID := insertTestUser(t, db, "alice")
	bobID := insertTestUser(t, db, "bob")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	created, err := s.CreateBlog(ctx, &CreateBlogRequest{Title: "T", Author: "A", URL: "http://x", UserID: aliceID})
	assert.NoError(t, err)

	t.Run("non-owner is rejected", func(t *testing.T) {
		err := s.DeleteBlog(ctx, created.ID, bobID)
		assert.ErrorIs(t, err, ErrNotOwner)

		// the blog is still retrievable afterwards
		got, err := s.GetBlogByID(ctx, created.ID)
		assert.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("owner deletes", func(t *testing.T) {
		err := s.DeleteBlog(ctx, created.ID, aliceID)
		assert.NoError(t, err)

		_, err = s.GetBlogByID(ctx, created.ID)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("repeat delete is not found", func(t *testing.T) {
		err := s.DeleteBlog(ctx, created.ID, aliceID)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("absent id is not found", func(t *testing.T) {
		err := s.DeleteBlog(ctx, 999999, aliceID)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})
}
