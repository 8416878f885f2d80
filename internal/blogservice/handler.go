package blogservice

import (
	"context"
	"database/sql"

	"github.com/sushihentaime/bloglist/internal/common"
)

func NewBlogService(db *sql.DB, c *common.Cache) *BlogService {
	return &BlogService{m: NewBlogModel(db), c: c}
}

type CreateBlogRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  *int   `json:"likes"`
	UserID int64  `json:"user_id"`
}

// CreateBlog persists a new blog owned by the authenticated caller. Likes
// defaults to 0 when absent. Nothing is persisted on validation failure.
func (s *BlogService) CreateBlog(ctx context.Context, req *CreateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateAuthor(v, req.Author)
	validateURL(v, req.URL)
	validateID(v, req.UserID, "user_id")

	likes := 0
	if req.Likes != nil {
		likes = *req.Likes
		validateLikes(v, likes)
	}

	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog := Blog{
		Title:  req.Title,
		Author: req.Author,
		URL:    req.URL,
		Likes:  likes,
		UserID: req.UserID,
	}

	err := s.m.insert(ctx, &blog)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyBlog(blog.ID), &blog)
	s.c.Delete(common.CacheKeyBlogList())

	return &blog, nil
}

// GetBlogByID returns a blog by its ID.
func (s *BlogService) GetBlogByID(ctx context.Context, id int64) (*Blog, error) {
	v := common.NewValidator()
	validateID(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if cached, ok := s.c.Get(common.CacheKeyBlog(id)); ok {
		return cached.(*Blog), nil
	}

	blog, err := s.m.getBlogByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyBlog(id), blog)

	return blog, nil
}

// GetBlogs returns all blogs. No authentication and no ownership filtering;
// the collection is world-readable.
func (s *BlogService) GetBlogs(ctx context.Context) ([]Blog, error) {
	if cached, ok := s.c.Get(common.CacheKeyBlogList()); ok {
		return cached.([]Blog), nil
	}

	blogs, err := s.m.getBlogs(ctx)
	if err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyBlogList(), blogs)

	return blogs, nil
}

// DeleteBlog removes a blog. Only the owner may delete; a non-owner gets
// ErrNotOwner and the record stays put.
func (s *BlogService) DeleteBlog(ctx context.Context, blogID, userID int64) error {
	v := common.NewValidator()
	validateID(v, blogID, "id")
	validateID(v, userID, "user_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	blog, err := s.m.getBlogByID(ctx, blogID)
	if err != nil {
		return err
	}

	if !canMutate(userID, blog.UserID) {
		return ErrNotOwner
	}

	err = s.m.deleteBlog(ctx, blogID)
	if err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyBlog(blogID))
	s.c.Delete(common.CacheKeyBlogList())

	return nil
}
